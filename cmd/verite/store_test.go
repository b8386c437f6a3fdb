// cmd/verite/store_test.go
package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"first", "second"}

	value, err := list.Value()
	require.NoError(t, err)
	require.JSONEq(t, `["first","second"]`, string(value.([]byte)))

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	require.Equal(t, list, scanned)

	// nil column scans as an empty list
	require.NoError(t, scanned.Scan(nil))
	require.Empty(t, scanned)

	// nil list marshals as [] rather than null
	value, err = StringList(nil).Value()
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(value.([]byte)))
}

func TestMemoryStoreSubmissionLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sub := &Submission{ClaimText: "a claim"}
	require.NoError(t, store.CreateSubmission(ctx, sub))
	require.NotZero(t, sub.ID)
	require.Equal(t, StatusNew, sub.Status)
	require.False(t, sub.DateSubmitted.IsZero())

	fetched, err := store.SubmissionByID(ctx, sub.ID)
	require.NoError(t, err)
	require.Equal(t, sub.ClaimText, fetched.ClaimText)

	// Submission time survives updates
	fetched.Status = StatusInReview
	fetched.DateSubmitted = time.Time{}
	require.NoError(t, store.UpdateSubmission(ctx, fetched))

	updated, err := store.SubmissionByID(ctx, sub.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInReview, updated.Status)
	require.Equal(t, sub.DateSubmitted, updated.DateSubmitted)

	_, err = store.SubmissionByID(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAnalysisRetention(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sub := &Submission{ClaimText: "retained claim"}
	require.NoError(t, store.CreateSubmission(ctx, sub))

	old := &AIAnalysis{
		SubmissionID:     sub.ID,
		SuggestedVerdict: VerdictTrue,
		CreatedAt:        time.Now().UTC().Add(-48 * time.Hour),
	}
	recent := &AIAnalysis{
		SubmissionID:     sub.ID,
		SuggestedVerdict: VerdictFalse,
		CreatedAt:        time.Now().UTC(),
	}
	require.NoError(t, store.CreateAnalysis(ctx, old))
	require.NoError(t, store.CreateAnalysis(ctx, recent))

	removed, err := store.DeleteAnalysesBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	latest, err := store.LatestAnalysis(ctx, sub.ID)
	require.NoError(t, err)
	require.Equal(t, recent.ID, latest.ID)
}

func TestMemoryStoreAnalysisRequiresSubmission(t *testing.T) {
	store := NewMemoryStore()

	err := store.CreateAnalysis(context.Background(), &AIAnalysis{SubmissionID: 123})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFactCheckOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, title := range []string{"older", "newer"} {
		fc := &FactCheck{Title: title, Verdict: "True"}
		require.NoError(t, store.CreateFactCheck(ctx, fc))
		time.Sleep(5 * time.Millisecond)
	}

	fcs, err := store.FactChecks(ctx)
	require.NoError(t, err)
	require.Len(t, fcs, 2)
	require.Equal(t, "newer", fcs[0].Title)
}
