// cmd/verite/store_memory.go
package main

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryStore is an in-memory Store used when the database is disabled and
// as the test harness store. Not durable across restarts.
type memoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	submissions map[int64]*Submission
	factChecks  map[int64]*FactCheck
	positive    map[int64]*PositiveContent
	analyses    map[int64]*AIAnalysis
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() Store {
	return &memoryStore{
		nextID:      1,
		submissions: make(map[int64]*Submission),
		factChecks:  make(map[int64]*FactCheck),
		positive:    make(map[int64]*PositiveContent),
		analyses:    make(map[int64]*AIAnalysis),
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// Submissions

func (m *memoryStore) CreateSubmission(ctx context.Context, sub *Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub.ID = m.allocID()
	if sub.Status == "" {
		sub.Status = StatusNew
	}
	if sub.DateSubmitted.IsZero() {
		sub.DateSubmitted = time.Now().UTC()
	}
	cp := *sub
	m.submissions[sub.ID] = &cp
	return nil
}

func (m *memoryStore) SubmissionByID(ctx context.Context, id int64) (*Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *memoryStore) Submissions(ctx context.Context) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subs := make([]Submission, 0, len(m.submissions))
	for _, sub := range m.submissions {
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].DateSubmitted.After(subs[j].DateSubmitted)
	})
	return subs, nil
}

func (m *memoryStore) UpdateSubmission(ctx context.Context, sub *Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.submissions[sub.ID]
	if !ok {
		return ErrNotFound
	}
	sub.DateSubmitted = existing.DateSubmitted
	cp := *sub
	m.submissions[sub.ID] = &cp
	return nil
}

// Fact-checks

func (m *memoryStore) CreateFactCheck(ctx context.Context, fc *FactCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fc.ID = m.allocID()
	now := time.Now().UTC()
	fc.DateCreated = now
	fc.DateUpdated = now
	cp := *fc
	m.factChecks[fc.ID] = &cp
	return nil
}

func (m *memoryStore) FactCheckByID(ctx context.Context, id int64) (*FactCheck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fc, ok := m.factChecks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *fc
	return &cp, nil
}

func (m *memoryStore) FactChecks(ctx context.Context) ([]FactCheck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fcs := make([]FactCheck, 0, len(m.factChecks))
	for _, fc := range m.factChecks {
		fcs = append(fcs, *fc)
	}
	sort.Slice(fcs, func(i, j int) bool {
		return fcs[i].DateCreated.After(fcs[j].DateCreated)
	})
	return fcs, nil
}

func (m *memoryStore) UpdateFactCheck(ctx context.Context, fc *FactCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.factChecks[fc.ID]
	if !ok {
		return ErrNotFound
	}
	fc.DateCreated = existing.DateCreated
	fc.DateUpdated = time.Now().UTC()
	cp := *fc
	m.factChecks[fc.ID] = &cp
	return nil
}

func (m *memoryStore) DeleteFactCheck(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.factChecks[id]; !ok {
		return ErrNotFound
	}
	delete(m.factChecks, id)
	return nil
}

// Positive content

func (m *memoryStore) CreatePositiveContent(ctx context.Context, pc *PositiveContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pc.ID = m.allocID()
	now := time.Now().UTC()
	pc.DateCreated = now
	pc.DateUpdated = now
	cp := *pc
	m.positive[pc.ID] = &cp
	return nil
}

func (m *memoryStore) PositiveContentByID(ctx context.Context, id int64) (*PositiveContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pc, ok := m.positive[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *pc
	return &cp, nil
}

func (m *memoryStore) PositiveContents(ctx context.Context, publishedOnly bool) ([]PositiveContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pcs := make([]PositiveContent, 0, len(m.positive))
	for _, pc := range m.positive {
		if publishedOnly && !pc.IsPublished {
			continue
		}
		pcs = append(pcs, *pc)
	}
	sort.Slice(pcs, func(i, j int) bool {
		return pcs[i].DateCreated.After(pcs[j].DateCreated)
	})
	return pcs, nil
}

func (m *memoryStore) UpdatePositiveContent(ctx context.Context, pc *PositiveContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.positive[pc.ID]
	if !ok {
		return ErrNotFound
	}
	pc.DateCreated = existing.DateCreated
	pc.DateUpdated = time.Now().UTC()
	cp := *pc
	m.positive[pc.ID] = &cp
	return nil
}

func (m *memoryStore) DeletePositiveContent(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.positive[id]; !ok {
		return ErrNotFound
	}
	delete(m.positive, id)
	return nil
}

// AI analyses

func (m *memoryStore) CreateAnalysis(ctx context.Context, a *AIAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.submissions[a.SubmissionID]; !ok {
		return ErrNotFound
	}

	a.ID = m.allocID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	m.analyses[a.ID] = &cp
	return nil
}

func (m *memoryStore) LatestAnalysis(ctx context.Context, submissionID int64) (*AIAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *AIAnalysis
	for _, a := range m.analyses {
		if a.SubmissionID != submissionID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) ||
			(a.CreatedAt.Equal(latest.CreatedAt) && a.ID > latest.ID) {
			latest = a
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}

	cp := *latest
	if sub, ok := m.submissions[submissionID]; ok {
		cp.ClaimText = sub.ClaimText
	}
	return &cp, nil
}

func (m *memoryStore) DeleteAnalysesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, a := range m.analyses {
		if a.CreatedAt.Before(cutoff) {
			delete(m.analyses, id)
			removed++
		}
	}
	return removed, nil
}
