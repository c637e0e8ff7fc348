// Package chat persists conversation threads. Rendering and realtime
// delivery live outside the core; this only keeps the record type alive.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

var ErrInvalidInput = errors.New("invalid input")

// Service reads and writes chat threads.
type Service struct {
	store store.Store
}

// New returns a chat Service backed by st.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// List returns every thread.
func (s *Service) List(ctx context.Context) ([]model.ChatThread, error) {
	recs, err := s.store.GetAll(ctx, store.TableChats)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[model.ChatThread](recs)
}

// ListFor returns the threads where name participates.
func (s *Service) ListFor(ctx context.Context, name string) ([]model.ChatThread, error) {
	threads, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := threads[:0:0]
	for _, t := range threads {
		if t.ClientName == name || t.ProfessionalName == name {
			out = append(out, t)
		}
	}
	return out, nil
}

// Save upserts a whole thread by id.
func (s *Service) Save(ctx context.Context, thread model.ChatThread) error {
	if thread.ID == "" {
		return fmt.Errorf("%w: thread id required", ErrInvalidInput)
	}
	return s.store.Upsert(ctx, store.TableChats, thread.ID, thread)
}
