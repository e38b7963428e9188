package session

import (
	"testing"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestart(t *testing.T) {
	t.Parallel()

	s := Session{
		Items:    []domain.QuizItem{flashcard(t), flashcard(t)},
		Cursor:   1,
		Phase:    PhaseRevealed,
		Complete: true,
	}

	r := s.Restart()
	assert.Equal(t, 0, r.Cursor)
	assert.Equal(t, PhaseUnanswered, r.Phase)
	assert.False(t, r.Complete)
	assert.Equal(t, 2, r.Remaining())
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := New([]domain.QuizItem{flashcard(t)})
	s.Cursor = 0
	s.Phase = PhaseRevealed

	c := s.Clear()
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Cursor)
	assert.Len(t, s.Items, 1, "original session keeps its items")

	_, err := c.Current()
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestAppend(t *testing.T) {
	t.Parallel()

	t.Run("keeps cursor of an active session", func(t *testing.T) {
		t.Parallel()
		s := New([]domain.QuizItem{flashcard(t), flashcard(t)})
		s.Cursor = 1

		a := s.Append([]domain.QuizItem{multipleChoice(t)})
		assert.Len(t, a.Items, 3)
		assert.Equal(t, 1, a.Cursor)
		assert.Len(t, s.Items, 2)
	})

	t.Run("resumes a completed session at the new batch", func(t *testing.T) {
		t.Parallel()
		s := New([]domain.QuizItem{flashcard(t)})
		s.Complete = true

		batch := []domain.QuizItem{trueFalse(t, true)}
		a := s.Append(batch)
		assert.False(t, a.Complete)
		assert.Equal(t, 1, a.Cursor)

		item, err := a.Current()
		require.NoError(t, err)
		assert.Equal(t, batch[0].ID, item.ID)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		t.Parallel()
		s := New([]domain.QuizItem{flashcard(t)})
		assert.Equal(t, s, s.Append(nil))
	})
}
