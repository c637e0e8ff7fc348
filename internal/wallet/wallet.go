// Package wallet exposes the professional's accumulated earnings. The
// balance lives on the User record and is credited only by the escrow
// release step.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/bravo-servizi/bravo/internal/locks"
	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

// ErrInvalidInput marks a request rejected at the service boundary.
var ErrInvalidInput = errors.New("invalid input")

// Service reads and credits wallet balances.
type Service struct {
	store store.Store
	locks *locks.Keyed
}

// New returns a wallet Service backed by st.
func New(st store.Store) *Service {
	return &Service{store: st, locks: locks.NewKeyed()}
}

// Balance returns the wallet balance of the named professional.
func (s *Service) Balance(ctx context.Context, proName string) (float64, error) {
	if proName == "" {
		return 0, fmt.Errorf("%w: professional name required", ErrInvalidInput)
	}
	user, err := s.findByName(ctx, proName)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("professional %q: %w", proName, store.ErrNotFound)
	}
	return user.WalletBalance, nil
}

// Credit adds amount to the professional's balance. The caller's per-job
// lock keeps one job from releasing twice, but two different jobs of the
// same professional can settle at once, so the read-modify-write is also
// serialized per professional here.
func (s *Service) Credit(ctx context.Context, proName string, amount float64) (float64, error) {
	if proName == "" {
		return 0, fmt.Errorf("%w: professional name required", ErrInvalidInput)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", ErrInvalidInput)
	}

	unlock := s.locks.Lock(proName)
	defer unlock()

	user, err := s.findByName(ctx, proName)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("professional %q: %w", proName, store.ErrNotFound)
	}

	user.WalletBalance += amount
	if err := s.store.Upsert(ctx, store.TableUsers, user.Email, user); err != nil {
		return 0, err
	}
	return user.WalletBalance, nil
}

func (s *Service) findByName(ctx context.Context, name string) (*model.User, error) {
	recs, err := s.store.GetAll(ctx, store.TableUsers)
	if err != nil {
		return nil, err
	}
	users, err := store.DecodeAll[model.User](recs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Name == name {
			return &users[i], nil
		}
	}
	return nil, nil
}
