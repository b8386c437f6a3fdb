// cmd/verite/scheduler.go
package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// StartScheduler registers the background jobs and starts the cron runner.
// Returns nil when no job is configured.
func StartScheduler(cfg *Config, watcher *FeedWatcher, store Store) (*cron.Cron, error) {
	c := cron.New()
	jobs := 0

	if watcher != nil {
		_, err := c.AddFunc(cfg.FeedCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			watcher.IngestAll(ctx)
		})
		if err != nil {
			return nil, err
		}
		jobs++
	}

	if cfg.AnalysisRetentionDays > 0 {
		retention := time.Duration(cfg.AnalysisRetentionDays) * 24 * time.Hour
		_, err := c.AddFunc("0 4 * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			removed, err := store.DeleteAnalysesBefore(ctx, time.Now().Add(-retention))
			if err != nil {
				Logger().Error("Analysis retention sweep failed: %v", err)
				return
			}
			if removed > 0 {
				Logger().Info("Analysis retention sweep removed %d records", removed)
			}
		})
		if err != nil {
			return nil, err
		}
		jobs++
	}

	if jobs == 0 {
		return nil, nil
	}

	c.Start()
	return c, nil
}
