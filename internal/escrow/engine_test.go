package escrow

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
	"github.com/bravo-servizi/bravo/internal/wallet"
)

type fixture struct {
	st     *store.Memory
	engine *Engine
	wallet *wallet.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	w := wallet.New(st)

	pro := model.User{Name: "Mario Rossi", Email: "mario@example.com", Role: model.RolePro}
	require.NoError(t, st.Upsert(context.Background(), store.TableUsers, pro.Email, pro))

	return &fixture{st: st, engine: New(st, w), wallet: w}
}

func (f *fixture) seedJob(t *testing.T, job model.Job) model.Job {
	t.Helper()
	if job.ID == "" {
		job.ID = "job-1"
	}
	if job.Status == "" {
		job.Status = model.JobInProgress
	}
	if job.EscrowStatus == "" {
		job.EscrowStatus = model.EscrowHeld
	}
	if job.ProfessionalName == "" {
		job.ProfessionalName = "Mario Rossi"
	}
	if job.ClientName == "" {
		job.ClientName = "Laura Bianchi"
	}
	require.NoError(t, f.st.Upsert(context.Background(), store.TableJobs, job.ID, job))
	return job
}

func TestClientConfirmationAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.seedJob(t, model.Job{Price: 100})

	res, err := f.engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Job.ClientCompleted)
	assert.False(t, res.Job.ProCompleted)
	assert.Equal(t, model.JobInProgress, res.Job.Status)
	assert.Equal(t, model.EscrowHeld, res.Job.EscrowStatus)
	assert.False(t, res.IsFullyCompleted)

	balance, err := f.wallet.Balance(ctx, "Mario Rossi")
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestDualConfirmationReleasesEscrow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.seedJob(t, model.Job{Price: 100})

	_, err := f.engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "")
	require.NoError(t, err)

	res, err := f.engine.SetJobCompleted(ctx, job.ID, model.RolePro, "sostituiti i tubi")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.IsFullyCompleted)
	assert.Equal(t, model.JobCompleted, res.Job.Status)
	assert.Equal(t, model.EscrowReleased, res.Job.EscrowStatus)
	assert.Equal(t, 5.0, res.Job.CommissionAmount)
	assert.Equal(t, "sostituiti i tubi", res.Job.WorkReport)
	assert.NotEmpty(t, res.Job.CompletedAt)

	balance, err := f.wallet.Balance(ctx, "Mario Rossi")
	require.NoError(t, err)
	assert.Equal(t, 95.0, balance)
}

func TestCompletionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.seedJob(t, model.Job{Price: 100})

	_, err := f.engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "")
	require.NoError(t, err)
	_, err = f.engine.SetJobCompleted(ctx, job.ID, model.RolePro, "")
	require.NoError(t, err)

	// Repeat both confirmations: no second release, no second credit.
	res, err := f.engine.SetJobCompleted(ctx, job.ID, model.RolePro, "")
	require.NoError(t, err)
	assert.False(t, res.IsFullyCompleted)
	assert.Equal(t, 5.0, res.Job.CommissionAmount)

	res, err = f.engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "")
	require.NoError(t, err)
	assert.False(t, res.IsFullyCompleted)

	balance, err := f.wallet.Balance(ctx, "Mario Rossi")
	require.NoError(t, err)
	assert.Equal(t, 95.0, balance)
}

func TestCompletionSyncsLinkedRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := model.JobRequest{ID: "req-1", ClientID: "laura@example.com", ClientName: "Laura Bianchi",
		Category: "Idraulico", Title: "Perdita", Status: model.RequestInProgress, AssignedPro: "Mario Rossi"}
	require.NoError(t, f.st.Upsert(ctx, store.TableRequests, req.ID, req))

	job := f.seedJob(t, model.Job{Price: 200, RequestID: req.ID})

	_, err := f.engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "")
	require.NoError(t, err)
	res, err := f.engine.SetJobCompleted(ctx, job.ID, model.RolePro, "")
	require.NoError(t, err)
	require.True(t, res.IsFullyCompleted)

	recs, err := f.st.GetAll(ctx, store.TableRequests)
	require.NoError(t, err)
	reqs, err := store.DecodeAll[model.JobRequest](recs)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, model.RequestCompleted, reqs[0].Status)
}

func TestUnknownJobIsNil(t *testing.T) {
	f := newFixture(t)
	res, err := f.engine.SetJobCompleted(context.Background(), "missing", model.RoleClient, "")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestInputValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.SetJobCompleted(ctx, "", model.RoleClient, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.engine.SetJobCompleted(ctx, "job-1", model.Role("admin"), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorkReportOnlyFromProfessional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.seedJob(t, model.Job{Price: 100})

	res, err := f.engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "should be ignored")
	require.NoError(t, err)
	assert.Empty(t, res.Job.WorkReport)
}

func TestReleasedJobsAlwaysCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.seedJob(t, model.Job{Price: 100})

	check := func() {
		got, err := f.engine.Get(ctx, job.ID)
		require.NoError(t, err)
		if got.EscrowStatus == model.EscrowReleased {
			assert.Equal(t, model.JobCompleted, got.Status)
		}
		if got.CommissionAmount > 0 {
			assert.Equal(t, model.EscrowReleased, got.EscrowStatus)
		}
		assert.Equal(t, got.Status == model.JobCompleted, got.ClientCompleted && got.ProCompleted)
	}

	check()
	_, err := f.engine.SetJobCompleted(ctx, job.ID, model.RolePro, "")
	require.NoError(t, err)
	check()
	_, err = f.engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "")
	require.NoError(t, err)
	check()
}

func TestConcurrentConfirmationsReleaseOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.seedJob(t, model.Job{Price: 100})

	var wg sync.WaitGroup
	fullyCompleted := make(chan bool, 2)
	for _, role := range []model.Role{model.RoleClient, model.RolePro} {
		wg.Add(1)
		go func(r model.Role) {
			defer wg.Done()
			res, err := f.engine.SetJobCompleted(ctx, job.ID, r, "")
			assert.NoError(t, err)
			if res != nil {
				fullyCompleted <- res.IsFullyCompleted
			}
		}(role)
	}
	wg.Wait()
	close(fullyCompleted)

	// Exactly one call crossed the finish line.
	crossed := 0
	for c := range fullyCompleted {
		if c {
			crossed++
		}
	}
	assert.Equal(t, 1, crossed)

	got, err := f.engine.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobCompleted, got.Status)
	assert.Equal(t, model.EscrowReleased, got.EscrowStatus)
	assert.Equal(t, 5.0, got.CommissionAmount)

	balance, err := f.wallet.Balance(ctx, "Mario Rossi")
	require.NoError(t, err)
	assert.Equal(t, 95.0, balance)
}

func TestMissingWalletDoesNotBlockSettlement(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	engine := New(st, wallet.New(st))

	job := model.Job{ID: "job-1", ProfessionalName: "Ghost", ClientName: "Laura Bianchi",
		Status: model.JobInProgress, EscrowStatus: model.EscrowHeld, Price: 100}
	require.NoError(t, st.Upsert(ctx, store.TableJobs, job.ID, job))

	_, err := engine.SetJobCompleted(ctx, job.ID, model.RoleClient, "")
	require.NoError(t, err)
	res, err := engine.SetJobCompleted(ctx, job.ID, model.RolePro, "")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsFullyCompleted)
	assert.Equal(t, model.EscrowReleased, res.Job.EscrowStatus)
}
