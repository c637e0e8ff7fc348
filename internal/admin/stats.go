// Package admin aggregates platform numbers and handles verification
// approvals. Everything here reads the same record tables as the core.
package admin

import (
	"context"
	"fmt"

	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

// Service computes the dashboard view.
type Service struct {
	store store.Store
}

// New returns an admin Service backed by st.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// DashboardStats is the admin overview. TotalRevenue is the sum of all
// commissions retained at release.
type DashboardStats struct {
	UsersCount           int          `json:"usersCount"`
	ProsCount            int          `json:"prosCount"`
	ClientsCount         int          `json:"clientsCount"`
	JobsCount            int          `json:"jobsCount"`
	ReviewsCount         int          `json:"reviewsCount"`
	TotalRevenue         float64      `json:"totalRevenue"`
	PendingVerifications []model.User `json:"pendingVerifications"`
}

// Stats aggregates counts and revenue across the record tables.
func (s *Service) Stats(ctx context.Context) (*DashboardStats, error) {
	userRecs, err := s.store.GetAll(ctx, store.TableUsers)
	if err != nil {
		return nil, err
	}
	users, err := store.DecodeAll[model.User](userRecs)
	if err != nil {
		return nil, err
	}

	jobRecs, err := s.store.GetAll(ctx, store.TableJobs)
	if err != nil {
		return nil, err
	}
	jobs, err := store.DecodeAll[model.Job](jobRecs)
	if err != nil {
		return nil, err
	}

	reviewRecs, err := s.store.GetAll(ctx, store.TableReviews)
	if err != nil {
		return nil, err
	}

	out := DashboardStats{
		UsersCount:           len(users),
		JobsCount:            len(jobs),
		ReviewsCount:         len(reviewRecs),
		PendingVerifications: []model.User{},
	}
	for _, u := range users {
		switch u.Role {
		case model.RolePro:
			out.ProsCount++
		case model.RoleClient:
			out.ClientsCount++
		}
		if u.VerificationStatus == "pending" {
			out.PendingVerifications = append(out.PendingVerifications, u.Public())
		}
	}
	for _, j := range jobs {
		out.TotalRevenue += j.CommissionAmount
	}
	return &out, nil
}

// ApproveVerification marks the account verified. Returns ErrNotFound when
// the email does not resolve.
func (s *Service) ApproveVerification(ctx context.Context, email string) error {
	recs, err := s.store.GetAll(ctx, store.TableUsers)
	if err != nil {
		return err
	}
	users, err := store.DecodeAll[model.User](recs)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Email == email {
			users[i].VerificationStatus = "verified"
			users[i].IsVerified = true
			return s.store.Upsert(ctx, store.TableUsers, email, users[i])
		}
	}
	return fmt.Errorf("user %s: %w", email, store.ErrNotFound)
}

// RequestVerification flags an account for admin review.
func (s *Service) RequestVerification(ctx context.Context, email string) error {
	recs, err := s.store.GetAll(ctx, store.TableUsers)
	if err != nil {
		return err
	}
	users, err := store.DecodeAll[model.User](recs)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Email == email {
			users[i].VerificationStatus = "pending"
			return s.store.Upsert(ctx, store.TableUsers, email, users[i])
		}
	}
	return fmt.Errorf("user %s: %w", email, store.ErrNotFound)
}
