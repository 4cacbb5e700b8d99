package srs

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/samber/lo"
)

// Service defines the interface for scheduling operations
type Service interface {
	// InitializeItem creates the review item for newly learned content. The
	// first review falls one day after now.
	InitializeItem(contentRef string, now time.Time) (domain.ReviewItem, error)

	// Schedule applies a rating to an item and computes its next review.
	// An invalid rating returns domain.ErrInvalidRating and the item unchanged.
	Schedule(item domain.ReviewItem, rating domain.Rating, now time.Time) (domain.ReviewItem, error)

	// DueItems returns the items due at now, most overdue first.
	DueItems(items []domain.ReviewItem, now time.Time) []domain.ReviewItem

	// Retrievability estimates the probability of recalling item at now.
	Retrievability(item domain.ReviewItem, now time.Time) float64
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// InitializeItem implements the Service interface
func (s *defaultService) InitializeItem(contentRef string, now time.Time) (domain.ReviewItem, error) {
	if strings.TrimSpace(contentRef) == "" {
		return domain.ReviewItem{}, domain.ErrEmptyContentRef
	}

	return domain.ReviewItem{
		ID:                uuid.New(),
		ContentRef:        contentRef,
		State:             domain.ItemStateNew,
		Difficulty:        0.3,
		Stability:         1,
		ScheduledInterval: 1,
		LastReviewedAt:    now,
		NextReviewAt:      now.Add(day),
	}, nil
}

// Schedule implements the Service interface
func (s *defaultService) Schedule(
	item domain.ReviewItem,
	rating domain.Rating,
	now time.Time,
) (domain.ReviewItem, error) {
	if !rating.IsValid() {
		return item, domain.ErrInvalidRating
	}

	clean, _ := item.Sanitize()
	return calculateNextItem(clean, rating, now, s.params), nil
}

// DueItems implements the Service interface
func (s *defaultService) DueItems(items []domain.ReviewItem, now time.Time) []domain.ReviewItem {
	due := lo.Filter(items, func(item domain.ReviewItem, _ int) bool {
		return item.IsDue(now)
	})

	slices.SortStableFunc(due, func(a, b domain.ReviewItem) int {
		if c := a.NextReviewAt.Compare(b.NextReviewAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return due
}

// Retrievability implements the Service interface
func (s *defaultService) Retrievability(item domain.ReviewItem, now time.Time) float64 {
	clean, _ := item.Sanitize()
	return retrievability(elapsedDays(clean.LastReviewedAt, now), clean.Stability, s.params)
}
