package session

import (
	"fmt"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
)

// Outcome describes the result of rating the item that was under the cursor.
type Outcome struct {
	Item      domain.QuizItem `json:"item"`
	Quality   srs.Quality     `json:"quality"`
	Correct   bool            `json:"correct"`
	Completed bool            `json:"completed"`
}

// Engine applies answer operations to sessions and schedules rated items.
type Engine struct {
	scheduler srs.Service
	now       func() time.Time
}

// NewEngine creates an Engine. A nil scheduler uses the default SM-2 service
// and a nil clock uses time.Now.
func NewEngine(scheduler srs.Service, clock func() time.Time) *Engine {
	if scheduler == nil {
		scheduler = srs.NewDefaultService()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Engine{scheduler: scheduler, now: clock}
}

// Reveal shows the answer of the current item. Choice items need a selection first.
func (e *Engine) Reveal(s Session) (Session, error) {
	item, err := s.Current()
	if err != nil {
		return s, err
	}
	if s.Phase == PhaseRevealed {
		return s, nil
	}

	switch item.Kind {
	case domain.KindMultipleChoice:
		if s.Selection == nil || s.Selection.Option == "" {
			return s, ErrInvalidSelection
		}
	case domain.KindTrueFalse:
		if s.Selection == nil || s.Selection.Truth == nil {
			return s, ErrInvalidSelection
		}
	}

	s.Phase = PhaseRevealed
	return s, nil
}

// SelectOption records the chosen option of a multiple-choice item.
// The selection can change until the answer is revealed.
func (e *Engine) SelectOption(s Session, option string) (Session, error) {
	item, err := s.Current()
	if err != nil {
		return s, err
	}
	if item.Kind != domain.KindMultipleChoice {
		return s, fmt.Errorf("%w: select option on %s", ErrWrongKind, item.Kind)
	}
	if s.Phase == PhaseRevealed {
		return s, ErrAlreadyRevealed
	}
	if !item.HasOption(option) {
		return s, fmt.Errorf("%w: %q is not an option", ErrInvalidSelection, option)
	}

	s.Selection = &Selection{Option: option}
	return s, nil
}

// SelectTruth records the answer to a true/false item and reveals it.
func (e *Engine) SelectTruth(s Session, value bool) (Session, error) {
	item, err := s.Current()
	if err != nil {
		return s, err
	}
	if item.Kind != domain.KindTrueFalse {
		return s, fmt.Errorf("%w: select truth on %s", ErrWrongKind, item.Kind)
	}
	if s.Phase == PhaseRevealed {
		return s, ErrAlreadyRevealed
	}

	s.Selection = &Selection{Truth: &value}
	s.Phase = PhaseRevealed
	return s, nil
}

// Rate applies the learner's self-assessment to a revealed flashcard.
func (e *Engine) Rate(s Session, stats domain.SessionStats, rating srs.Rating) (Session, domain.SessionStats, Outcome, error) {
	item, err := s.Current()
	if err != nil {
		return s, stats, Outcome{}, err
	}
	if item.Kind != domain.KindFlashcard {
		return s, stats, Outcome{}, fmt.Errorf("%w: rate on %s", ErrWrongKind, item.Kind)
	}
	if s.Phase != PhaseRevealed {
		return s, stats, Outcome{}, ErrNotRevealed
	}

	quality, err := rating.Quality()
	if err != nil {
		return s, stats, Outcome{}, err
	}

	correct := quality.Passed()
	return e.advance(s, stats, item, quality, correct)
}

// Continue scores a revealed multiple-choice or true/false item against its
// correct answer and moves on.
func (e *Engine) Continue(s Session, stats domain.SessionStats) (Session, domain.SessionStats, Outcome, error) {
	item, err := s.Current()
	if err != nil {
		return s, stats, Outcome{}, err
	}
	if item.Kind == domain.KindFlashcard {
		return s, stats, Outcome{}, fmt.Errorf("%w: continue on %s", ErrWrongKind, item.Kind)
	}
	if s.Phase != PhaseRevealed {
		return s, stats, Outcome{}, ErrNotRevealed
	}

	var correct bool
	switch item.Kind {
	case domain.KindMultipleChoice:
		if s.Selection == nil {
			return s, stats, Outcome{}, ErrInvalidSelection
		}
		correct = item.IsCorrectOption(s.Selection.Option)
	case domain.KindTrueFalse:
		if s.Selection == nil || s.Selection.Truth == nil {
			return s, stats, Outcome{}, ErrInvalidSelection
		}
		correct = item.IsCorrectTruth(*s.Selection.Truth)
	}

	return e.advance(s, stats, item, srs.ChoiceQuality(correct), correct)
}

// advance schedules the current item, records the answer and moves the cursor.
func (e *Engine) advance(
	s Session,
	stats domain.SessionStats,
	item domain.QuizItem,
	quality srs.Quality,
	correct bool,
) (Session, domain.SessionStats, Outcome, error) {
	scheduled := e.scheduler.Schedule(item, quality, e.now())

	next := s.withItem(s.Cursor, scheduled)
	next.Phase = PhaseUnanswered
	next.Selection = nil
	if next.Cursor+1 < len(next.Items) {
		next.Cursor++
	} else {
		next.Complete = true
	}

	return next, stats.Record(correct), Outcome{
		Item:      scheduled,
		Quality:   quality,
		Correct:   correct,
		Completed: next.Complete,
	}, nil
}
