// Package review gates review eligibility on completed, unreviewed jobs and
// records client feedback with the professional's single reply.
package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

// ErrInvalidInput marks a request rejected at the service boundary.
var ErrInvalidInput = errors.New("invalid input")

// Service is the review subsystem.
type Service struct {
	store store.Store
}

// New returns a review Service backed by st.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// CanReview reports whether clientName may review proName: true iff some job
// between them is completed and not yet reviewed. A store failure is an
// error, never a silent false.
func (s *Service) CanReview(ctx context.Context, clientName, proName string) (bool, error) {
	job, err := s.findReviewableJob(ctx, clientName, proName)
	if err != nil {
		return false, err
	}
	return job != nil, nil
}

// MarkJobAsReviewed flips clientReviewed on the first completed, unreviewed
// job between the pair. Once set, the flag permanently blocks re-review of
// that job. No-op when no job matches.
func (s *Service) MarkJobAsReviewed(ctx context.Context, clientName, proName string) error {
	job, err := s.findReviewableJob(ctx, clientName, proName)
	if err != nil {
		return err
	}
	if job == nil {
		return nil
	}
	job.ClientReviewed = true
	return s.store.Upsert(ctx, store.TableJobs, job.ID, job)
}

// Add appends a review for proName, assigning id and date when missing.
func (s *Service) Add(ctx context.Context, proName string, rev model.Review) (*model.Review, error) {
	if proName == "" || rev.ClientName == "" {
		return nil, fmt.Errorf("%w: professional and client names required", ErrInvalidInput)
	}
	if rev.Rating < 1 || rev.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	rev.ProfessionalName = proName
	if rev.ID == "" {
		rev.ID = uuid.New().String()
	}
	if rev.Date == "" {
		rev.Date = time.Now().UTC().Format(time.RFC3339)
	}
	if err := s.store.Upsert(ctx, store.TableReviews, rev.ID, rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// AddResponse sets the professional's reply on a review. Last write wins.
// Returns ErrNotFound when the review id does not resolve.
func (s *Service) AddResponse(ctx context.Context, reviewID, text string) error {
	if reviewID == "" || text == "" {
		return fmt.Errorf("%w: review id and response text required", ErrInvalidInput)
	}
	reviews, err := s.all(ctx)
	if err != nil {
		return err
	}
	for i := range reviews {
		if reviews[i].ID == reviewID {
			reviews[i].Response = text
			return s.store.Upsert(ctx, store.TableReviews, reviewID, reviews[i])
		}
	}
	return fmt.Errorf("review %s: %w", reviewID, store.ErrNotFound)
}

// Get returns the review with the given id, or nil.
func (s *Service) Get(ctx context.Context, reviewID string) (*model.Review, error) {
	reviews, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].ID == reviewID {
			return &reviews[i], nil
		}
	}
	return nil, nil
}

// Stats summarizes a professional's reviews.
type Stats struct {
	Count   int            `json:"count"`
	Rating  float64        `json:"rating"`
	Reviews []model.Review `json:"reviews"`
}

// StatsFor returns the review count, one-decimal average rating and the
// reviews themselves for proName. Zero reviews is a valid state.
func (s *Service) StatsFor(ctx context.Context, proName string) (*Stats, error) {
	reviews, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := Stats{Reviews: []model.Review{}}
	total := 0
	for _, r := range reviews {
		if r.ProfessionalName == proName {
			out.Reviews = append(out.Reviews, r)
			total += r.Rating
		}
	}
	out.Count = len(out.Reviews)
	if out.Count > 0 {
		out.Rating = math.Round(float64(total)/float64(out.Count)*10) / 10
	}
	return &out, nil
}

func (s *Service) all(ctx context.Context) ([]model.Review, error) {
	recs, err := s.store.GetAll(ctx, store.TableReviews)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[model.Review](recs)
}

func (s *Service) findReviewableJob(ctx context.Context, clientName, proName string) (*model.Job, error) {
	if clientName == "" || proName == "" {
		return nil, fmt.Errorf("%w: client and professional names required", ErrInvalidInput)
	}
	recs, err := s.store.GetAll(ctx, store.TableJobs)
	if err != nil {
		return nil, err
	}
	jobs, err := store.DecodeAll[model.Job](recs)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		j := &jobs[i]
		if j.ClientName == clientName && j.ProfessionalName == proName &&
			j.Status == model.JobCompleted && !j.ClientReviewed {
			return j, nil
		}
	}
	return nil, nil
}
