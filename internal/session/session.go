package session

import (
	"slices"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Phase is the answer state of the current item.
type Phase string

const (
	PhaseUnanswered Phase = "unanswered"
	PhaseRevealed   Phase = "revealed"
)

// Selection is the learner's tentative answer to a choice item.
type Selection struct {
	Option string `json:"option,omitempty"`
	Truth  *bool  `json:"truth,omitempty"`
}

// Session is the ordered walk over a learner's items.
//
// Cursor always indexes Items unless Items is empty, in which case it is 0.
// Complete is set once the last item has been rated and cleared by Restart,
// Clear or Append.
type Session struct {
	Items     []domain.QuizItem `json:"items"`
	Cursor    int               `json:"cursor"`
	Phase     Phase             `json:"phase"`
	Selection *Selection        `json:"selection,omitempty"`
	Complete  bool              `json:"complete"`
}

// New starts a session over items at the first item.
func New(items []domain.QuizItem) Session {
	return Session{
		Items: slices.Clone(items),
		Phase: PhaseUnanswered,
	}
}

// Current returns the item under the cursor.
func (s Session) Current() (domain.QuizItem, error) {
	if len(s.Items) == 0 {
		return domain.QuizItem{}, ErrNoItems
	}
	if s.Complete {
		return domain.QuizItem{}, ErrSessionComplete
	}
	return s.Items[s.Cursor], nil
}

// Remaining is the number of items not yet rated in this pass.
func (s Session) Remaining() int {
	if s.Complete || len(s.Items) == 0 {
		return 0
	}
	return len(s.Items) - s.Cursor
}

// Restart moves the cursor back to the first item so the items can be studied again.
func (s Session) Restart() Session {
	s.Cursor = 0
	s.Phase = PhaseUnanswered
	s.Selection = nil
	s.Complete = false
	return s
}

// Clear removes every item and resets the cursor. Statistics live outside the
// session and are not affected.
func (s Session) Clear() Session {
	return New(nil)
}

// Append adds a generated batch to the end of the session. A completed session
// resumes at the first appended item.
func (s Session) Append(items []domain.QuizItem) Session {
	if len(items) == 0 {
		return s
	}
	resumeAt := len(s.Items)
	s.Items = append(slices.Clone(s.Items), items...)
	if s.Complete {
		s.Cursor = resumeAt
		s.Phase = PhaseUnanswered
		s.Selection = nil
		s.Complete = false
	}
	return s
}

func (s Session) withItem(i int, item domain.QuizItem) Session {
	s.Items = slices.Clone(s.Items)
	s.Items[i] = item
	return s
}
