// Package board manages job requests: publication, candidate applications
// and the acceptance that turns a request into an escrowed job.
package board

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bravo-servizi/bravo/internal/locks"
	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

// ErrInvalidInput marks a request rejected at the engine boundary.
var ErrInvalidInput = errors.New("invalid input")

// Board is the request board service.
type Board struct {
	store store.Store
	locks *locks.Keyed
}

// New returns a Board backed by st.
func New(st store.Store) *Board {
	return &Board{store: st, locks: locks.NewKeyed()}
}

// List returns all job requests, newest first.
func (b *Board) List(ctx context.Context) ([]model.JobRequest, error) {
	recs, err := b.store.GetAll(ctx, store.TableRequests)
	if err != nil {
		return nil, err
	}
	reqs, err := store.DecodeAll[model.JobRequest](recs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt > reqs[j].CreatedAt
	})
	return reqs, nil
}

// Publish validates and persists a new request. The caller supplies the
// client identity and the posting fields; the board assigns id, status and
// timestamps.
func (b *Board) Publish(ctx context.Context, draft model.JobRequest) (*model.JobRequest, error) {
	if draft.ClientID == "" || draft.ClientName == "" {
		return nil, fmt.Errorf("%w: client identity required", ErrInvalidInput)
	}
	if draft.Title == "" || draft.Category == "" {
		return nil, fmt.Errorf("%w: title and category required", ErrInvalidInput)
	}

	draft.ID = uuid.New().String()
	draft.Status = model.RequestOpen
	draft.Candidates = []string{}
	draft.AssignedPro = ""
	draft.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := b.store.Upsert(ctx, store.TableRequests, draft.ID, draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Apply records proName as a candidate on an open request. It returns false
// without error when the request is missing, no longer open, or the
// professional already applied. Store failures surface as errors so callers
// can tell "not allowed" from "store down".
func (b *Board) Apply(ctx context.Context, requestID, proName string) (bool, error) {
	if requestID == "" || proName == "" {
		return false, fmt.Errorf("%w: request id and professional name required", ErrInvalidInput)
	}

	unlock := b.locks.Lock(requestID)
	defer unlock()

	req, err := b.find(ctx, requestID)
	if err != nil {
		return false, err
	}
	if req == nil || req.Status != model.RequestOpen || req.HasCandidate(proName) {
		return false, nil
	}

	req.Candidates = append(req.Candidates, proName)
	if err := b.store.Upsert(ctx, store.TableRequests, req.ID, req); err != nil {
		return false, err
	}
	return true, nil
}

// AcceptProposal assigns the request to proName and opens the escrowed job.
// The request moves to in_progress and a new Job is created with funds held
// and both completion flags clear. Returns nil without error when the
// request is missing or not open.
func (b *Board) AcceptProposal(ctx context.Context, requestID, proName, clientName string, price float64) (*model.Job, error) {
	if requestID == "" || proName == "" || clientName == "" {
		return nil, fmt.Errorf("%w: request id and both party names required", ErrInvalidInput)
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return nil, fmt.Errorf("%w: price must be a positive finite number", ErrInvalidInput)
	}

	unlock := b.locks.Lock(requestID)
	defer unlock()

	req, err := b.find(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Status != model.RequestOpen {
		return nil, nil
	}

	req.Status = model.RequestInProgress
	req.AssignedPro = proName
	if err := b.store.Upsert(ctx, store.TableRequests, req.ID, req); err != nil {
		return nil, err
	}

	job := model.Job{
		ID:               uuid.New().String(),
		ProfessionalName: proName,
		ClientName:       clientName,
		Status:           model.JobInProgress,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		RequestID:        requestID,
		Price:            price,
		EscrowStatus:     model.EscrowHeld,
		CommissionAmount: 0,
	}
	if err := b.store.Upsert(ctx, store.TableJobs, job.ID, job); err != nil {
		return nil, fmt.Errorf("request %s assigned but job creation failed: %w", requestID, err)
	}
	return &job, nil
}

// Get returns the request with the given id, or nil.
func (b *Board) Get(ctx context.Context, requestID string) (*model.JobRequest, error) {
	return b.find(ctx, requestID)
}

func (b *Board) find(ctx context.Context, requestID string) (*model.JobRequest, error) {
	recs, err := b.store.GetAll(ctx, store.TableRequests)
	if err != nil {
		return nil, err
	}
	reqs, err := store.DecodeAll[model.JobRequest](recs)
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		if reqs[i].ID == requestID {
			return &reqs[i], nil
		}
	}
	return nil, nil
}
