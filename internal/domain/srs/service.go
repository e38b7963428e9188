package srs

import (
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Schedule computes the item's next scheduling state from a recall quality.
	// The returned item is a copy; the argument is not modified.
	Schedule(item domain.QuizItem, quality Quality, now time.Time) domain.QuizItem

	// IsDue reports whether the item should be reviewed at now.
	IsDue(item domain.QuizItem, now time.Time) bool
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
// A nil params falls back to the defaults.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Schedule implements the Service interface
func (s *defaultService) Schedule(item domain.QuizItem, quality Quality, now time.Time) domain.QuizItem {
	return calculateNextItem(item, quality, now, s.params)
}

// IsDue implements the Service interface
func (s *defaultService) IsDue(item domain.QuizItem, now time.Time) bool {
	return !item.NextReviewAt.After(now)
}

// DueItems returns the items of items that are due at now, in their original order.
func DueItems(svc Service, items []domain.QuizItem, now time.Time) []domain.QuizItem {
	due := make([]domain.QuizItem, 0, len(items))
	for _, item := range items {
		if svc.IsDue(item, now) {
			due = append(due, item)
		}
	}
	return due
}
