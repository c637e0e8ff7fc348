// Package escrow owns the job lifecycle: dual-confirmation completion,
// commission deduction and the release of held funds to the professional's
// wallet.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bravo-servizi/bravo/internal/locks"
	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
	"github.com/bravo-servizi/bravo/internal/wallet"
)

// CommissionRate is the platform's fixed cut, deducted from the job price at
// release. Not configurable per job.
const CommissionRate = 0.05

// ErrInvalidInput marks a request rejected at the engine boundary.
var ErrInvalidInput = errors.New("invalid input")

// Engine is the escrow and job state machine.
type Engine struct {
	store  store.Store
	wallet *wallet.Service
	locks  *locks.Keyed
}

// New returns an Engine backed by st, crediting earnings through w.
func New(st store.Store, w *wallet.Service) *Engine {
	return &Engine{store: st, wallet: w, locks: locks.NewKeyed()}
}

// SettleResult reports the job after a confirmation and whether this call
// was the one that crossed it into completed.
type SettleResult struct {
	Job              model.Job `json:"job"`
	IsFullyCompleted bool      `json:"isFullyCompleted"`
}

// SetJobCompleted records one party's completion confirmation. When the
// second flag lands, the job completes and escrow is released exactly once:
// the commission is computed and the remainder credited to the
// professional's wallet. The linked request, if any, is marked completed.
//
// Returns nil without error when the job id does not resolve. Calling again
// for a flag that is already set is a no-op: the completion branch never
// re-runs once status is completed.
func (e *Engine) SetJobCompleted(ctx context.Context, jobID string, role model.Role, workReport string) (*SettleResult, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id required", ErrInvalidInput)
	}
	if role != model.RoleClient && role != model.RolePro {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	// All confirmations for one job run in series, so the client and the
	// professional cannot both observe a half-updated flag pair.
	unlock := e.locks.Lock(jobID)
	defer unlock()

	job, err := e.find(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	switch role {
	case model.RoleClient:
		job.ClientCompleted = true
	case model.RolePro:
		job.ProCompleted = true
		if workReport != "" {
			job.WorkReport = workReport
		}
	}

	fullyCompleted := false
	if job.ClientCompleted && job.ProCompleted && job.Status != model.JobCompleted {
		job.Status = model.JobCompleted
		job.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		fullyCompleted = true

		if job.EscrowStatus == model.EscrowHeld {
			job.EscrowStatus = model.EscrowReleased
			commission := job.Price * CommissionRate
			proEarning := job.Price - commission
			job.CommissionAmount = commission

			if _, err := e.wallet.Credit(ctx, job.ProfessionalName, proEarning); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					// The professional's account is gone; the job still
					// settles but there is no wallet to credit.
					log.Printf("escrow: job %s released with no wallet for %q", job.ID, job.ProfessionalName)
				} else {
					return nil, fmt.Errorf("credit wallet for job %s: %w", job.ID, err)
				}
			}
		}

		if job.RequestID != "" {
			if err := e.completeRequest(ctx, job.RequestID); err != nil {
				log.Printf("escrow: job %s completed but request %s sync failed: %v", job.ID, job.RequestID, err)
			}
		}
	}

	// Losing this write would lose a fund release, so the failure is the
	// caller's to retry, never swallowed.
	if err := e.store.Upsert(ctx, store.TableJobs, job.ID, job); err != nil {
		return nil, fmt.Errorf("persist job %s: %w", job.ID, err)
	}
	return &SettleResult{Job: *job, IsFullyCompleted: fullyCompleted}, nil
}

// List returns every job.
func (e *Engine) List(ctx context.Context) ([]model.Job, error) {
	recs, err := e.store.GetAll(ctx, store.TableJobs)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[model.Job](recs)
}

// ListFor returns the jobs where name is a party, newest first not
// guaranteed; callers sort if they care.
func (e *Engine) ListFor(ctx context.Context, name string) ([]model.Job, error) {
	jobs, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	out := jobs[:0:0]
	for _, j := range jobs {
		if j.ClientName == name || j.ProfessionalName == name {
			out = append(out, j)
		}
	}
	return out, nil
}

// Get returns the job with the given id, or nil.
func (e *Engine) Get(ctx context.Context, jobID string) (*model.Job, error) {
	return e.find(ctx, jobID)
}

func (e *Engine) find(ctx context.Context, jobID string) (*model.Job, error) {
	recs, err := e.store.GetAll(ctx, store.TableJobs)
	if err != nil {
		return nil, err
	}
	jobs, err := store.DecodeAll[model.Job](recs)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == jobID {
			return &jobs[i], nil
		}
	}
	return nil, nil
}

func (e *Engine) completeRequest(ctx context.Context, requestID string) error {
	recs, err := e.store.GetAll(ctx, store.TableRequests)
	if err != nil {
		return err
	}
	reqs, err := store.DecodeAll[model.JobRequest](recs)
	if err != nil {
		return err
	}
	for i := range reqs {
		if reqs[i].ID == requestID {
			reqs[i].Status = model.RequestCompleted
			return e.store.Upsert(ctx, store.TableRequests, requestID, reqs[i])
		}
	}
	return fmt.Errorf("request %s: %w", requestID, store.ErrNotFound)
}
