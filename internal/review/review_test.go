package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

func seedJob(t *testing.T, st *store.Memory, job model.Job) {
	t.Helper()
	require.NoError(t, st.Upsert(context.Background(), store.TableJobs, job.ID, job))
}

func completedJob(id string) model.Job {
	return model.Job{
		ID: id, ClientName: "Laura Bianchi", ProfessionalName: "Mario Rossi",
		Status: model.JobCompleted, EscrowStatus: model.EscrowReleased,
		ClientCompleted: true, ProCompleted: true,
	}
}

func TestReviewAfterCompletedJob(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedJob(t, st, completedJob("job-1"))
	svc := New(st)

	ok, err := svc.CanReview(ctx, "Laura Bianchi", "Mario Rossi")
	require.NoError(t, err)
	require.True(t, ok)

	rev, err := svc.Add(ctx, "Mario Rossi", model.Review{ClientName: "Laura Bianchi", Rating: 5, Text: "Ottimo lavoro"})
	require.NoError(t, err)
	assert.NotEmpty(t, rev.ID)
	assert.NotEmpty(t, rev.Date)
	assert.Equal(t, "Mario Rossi", rev.ProfessionalName)

	require.NoError(t, svc.MarkJobAsReviewed(ctx, "Laura Bianchi", "Mario Rossi"))

	// The only job between the pair is now reviewed. No second review.
	ok, err = svc.CanReview(ctx, "Laura Bianchi", "Mario Rossi")
	require.NoError(t, err)
	assert.False(t, ok)

	stats, err := svc.StatsFor(ctx, "Mario Rossi")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 5.0, stats.Rating)
	require.Len(t, stats.Reviews, 1)
	assert.Equal(t, "Ottimo lavoro", stats.Reviews[0].Text)
}

func TestCannotReviewWithoutCompletedJob(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedJob(t, st, model.Job{
		ID: "job-1", ClientName: "Laura Bianchi", ProfessionalName: "Mario Rossi",
		Status: model.JobInProgress, EscrowStatus: model.EscrowHeld,
	})
	svc := New(st)

	ok, err := svc.CanReview(ctx, "Laura Bianchi", "Mario Rossi")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSecondCompletedJobReopensEligibility(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	first := completedJob("job-1")
	first.ClientReviewed = true
	seedJob(t, st, first)
	seedJob(t, st, completedJob("job-2"))
	svc := New(st)

	ok, err := svc.CanReview(ctx, "Laura Bianchi", "Mario Rossi")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarkJobAsReviewedIsNoOpWithoutMatch(t *testing.T) {
	svc := New(store.NewMemory())
	assert.NoError(t, svc.MarkJobAsReviewed(context.Background(), "Laura Bianchi", "Mario Rossi"))
}

func TestAddRejectsOutOfRangeRating(t *testing.T) {
	svc := New(store.NewMemory())
	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Add(context.Background(), "Mario Rossi", model.Review{ClientName: "Laura Bianchi", Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestAddResponse(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := New(st)

	rev, err := svc.Add(ctx, "Mario Rossi", model.Review{ClientName: "Laura Bianchi", Rating: 4, Text: "Puntuale"})
	require.NoError(t, err)

	require.NoError(t, svc.AddResponse(ctx, rev.ID, "Grazie mille"))

	got, err := svc.Get(ctx, rev.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Grazie mille", got.Response)
	assert.Equal(t, "Puntuale", got.Text)

	// Last write wins.
	require.NoError(t, svc.AddResponse(ctx, rev.ID, "Grazie"))
	got, err = svc.Get(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grazie", got.Response)
}

func TestAddResponseUnknownReview(t *testing.T) {
	svc := New(store.NewMemory())
	err := svc.AddResponse(context.Background(), "missing", "Grazie")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStatsAverageRounding(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := New(st)

	for _, rating := range []int{5, 4, 4} {
		_, err := svc.Add(ctx, "Mario Rossi", model.Review{ClientName: "Laura Bianchi", Rating: rating})
		require.NoError(t, err)
	}

	stats, err := svc.StatsFor(ctx, "Mario Rossi")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 4.3, stats.Rating)
}

func TestStatsForUnknownProfessional(t *testing.T) {
	svc := New(store.NewMemory())
	stats, err := svc.StatsFor(context.Background(), "Ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, 0.0, stats.Rating)
	assert.NotNil(t, stats.Reviews)
}
