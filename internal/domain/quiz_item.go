package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults applied to every freshly generated item.
const (
	// InitialIntervalDays is the interval assigned to a new item.
	InitialIntervalDays = 1

	// DefaultEaseFactor is the ease factor assigned to a new item.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor the ease factor can never drop below.
	MinEaseFactor = 1.3

	// MultipleChoiceOptionCount is the number of options every multiple-choice item carries.
	MultipleChoiceOptionCount = 4
)

// Quiz item validation errors
var (
	// ErrItemIDEmpty is returned when a quiz item ID is nil.
	ErrItemIDEmpty = errors.New("item ID cannot be empty")

	// ErrItemBatchIDEmpty is returned when a quiz item does not belong to a generation batch.
	ErrItemBatchIDEmpty = errors.New("item batch ID cannot be empty")

	// ErrItemPromptEmpty is returned when a quiz item has no prompt.
	ErrItemPromptEmpty = errors.New("item prompt cannot be empty")

	// ErrItemPayloadMismatch is returned when the payload does not match the item kind.
	ErrItemPayloadMismatch = errors.New("item payload does not match its kind")
)

// ItemKind identifies one of the closed set of quiz item variants.
type ItemKind string

const (
	KindFlashcard      ItemKind = "flashcard"
	KindMultipleChoice ItemKind = "mcq"
	KindTrueFalse      ItemKind = "truefalse"
)

// AllItemKinds lists the kinds in their canonical order.
var AllItemKinds = []ItemKind{KindFlashcard, KindMultipleChoice, KindTrueFalse}

// IsValid reports whether k is a known item kind.
func (k ItemKind) IsValid() bool {
	switch k {
	case KindFlashcard, KindMultipleChoice, KindTrueFalse:
		return true
	}
	return false
}

// ParseItemKind converts a string into an ItemKind.
func ParseItemKind(s string) (ItemKind, error) {
	k := ItemKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidItemKind, s)
	}
	return k, nil
}

// Difficulty is a cosmetic label attached to generated items.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties lists the difficulty labels in ascending order.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValid reports whether d is a known difficulty label.
func (d Difficulty) IsValid() bool {
	return slices.Contains(AllDifficulties, d)
}

// FlashcardContent is the payload of a flashcard: the answer revealed after the prompt.
type FlashcardContent struct {
	Answer string `json:"answer"`
}

// MultipleChoiceContent holds the shuffled options and the one that is correct.
type MultipleChoiceContent struct {
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// TrueFalseContent holds the truth value of the statement in the prompt.
type TrueFalseContent struct {
	CorrectAnswer bool   `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// QuizItem is a single reviewable unit generated from a document.
//
// Exactly one of Flashcard, MultipleChoice and TrueFalse is set, matching Kind.
// The scheduling fields are only ever changed through the srs package.
type QuizItem struct {
	ID         uuid.UUID  `json:"id"`
	BatchID    uuid.UUID  `json:"batch_id"`
	DocumentID uuid.UUID  `json:"document_id"`
	Kind       ItemKind   `json:"kind"`
	Prompt     string     `json:"prompt"`
	Difficulty Difficulty `json:"difficulty"`

	Flashcard      *FlashcardContent      `json:"flashcard,omitempty"`
	MultipleChoice *MultipleChoiceContent `json:"multiple_choice,omitempty"`
	TrueFalse      *TrueFalseContent      `json:"true_false,omitempty"`

	NextReviewAt    time.Time `json:"next_review_at"`
	IntervalDays    int       `json:"interval_days"`
	EaseFactor      float64   `json:"ease_factor"`
	RepetitionCount int       `json:"repetition_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func newQuizItem(batchID, documentID uuid.UUID, kind ItemKind, prompt string, difficulty Difficulty, now time.Time) QuizItem {
	now = now.UTC()
	return QuizItem{
		ID:              uuid.New(),
		BatchID:         batchID,
		DocumentID:      documentID,
		Kind:            kind,
		Prompt:          prompt,
		Difficulty:      difficulty,
		NextReviewAt:    now,
		IntervalDays:    InitialIntervalDays,
		EaseFactor:      DefaultEaseFactor,
		RepetitionCount: 0,
		CreatedAt:       now,
	}
}

// NewFlashcard creates a flashcard item that is due immediately.
func NewFlashcard(batchID, documentID uuid.UUID, prompt, answer string, difficulty Difficulty, now time.Time) (QuizItem, error) {
	item := newQuizItem(batchID, documentID, KindFlashcard, prompt, difficulty, now)
	item.Flashcard = &FlashcardContent{Answer: answer}
	if err := item.Validate(); err != nil {
		return QuizItem{}, err
	}
	return item, nil
}

// NewMultipleChoice creates a multiple-choice item that is due immediately.
// The options are stored in the order given.
func NewMultipleChoice(
	batchID, documentID uuid.UUID,
	prompt string,
	options []string,
	correct string,
	difficulty Difficulty,
	now time.Time,
) (QuizItem, error) {
	item := newQuizItem(batchID, documentID, KindMultipleChoice, prompt, difficulty, now)
	item.MultipleChoice = &MultipleChoiceContent{
		Options:       slices.Clone(options),
		CorrectAnswer: correct,
	}
	if err := item.Validate(); err != nil {
		return QuizItem{}, err
	}
	return item, nil
}

// NewTrueFalse creates a true/false item that is due immediately.
func NewTrueFalse(
	batchID, documentID uuid.UUID,
	statement string,
	truth bool,
	explanation string,
	difficulty Difficulty,
	now time.Time,
) (QuizItem, error) {
	item := newQuizItem(batchID, documentID, KindTrueFalse, statement, difficulty, now)
	item.TrueFalse = &TrueFalseContent{CorrectAnswer: truth, Explanation: explanation}
	if err := item.Validate(); err != nil {
		return QuizItem{}, err
	}
	return item, nil
}

// Validate checks the identity, payload and scheduling state of the item.
func (q QuizItem) Validate() error {
	if q.ID == uuid.Nil {
		return ErrItemIDEmpty
	}
	if q.BatchID == uuid.Nil {
		return ErrItemBatchIDEmpty
	}
	if !q.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidItemKind, q.Kind)
	}
	if q.Prompt == "" {
		return ErrItemPromptEmpty
	}
	if !q.Difficulty.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, q.Difficulty)
	}
	if err := q.validatePayload(); err != nil {
		return err
	}
	if q.IntervalDays < 1 {
		return fmt.Errorf("%w: interval must be at least 1 day, got %d", ErrInvalidSchedule, q.IntervalDays)
	}
	if q.EaseFactor < MinEaseFactor {
		return fmt.Errorf("%w: ease factor %.2f below %.2f", ErrInvalidSchedule, q.EaseFactor, MinEaseFactor)
	}
	if q.RepetitionCount < 0 {
		return fmt.Errorf("%w: negative repetition count", ErrInvalidSchedule)
	}
	return nil
}

func (q QuizItem) validatePayload() error {
	set := 0
	for _, present := range []bool{q.Flashcard != nil, q.MultipleChoice != nil, q.TrueFalse != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return ErrItemPayloadMismatch
	}

	switch q.Kind {
	case KindFlashcard:
		if q.Flashcard == nil {
			return ErrItemPayloadMismatch
		}
		if q.Flashcard.Answer == "" {
			return fmt.Errorf("%w: flashcard answer", ErrEmptyContent)
		}
	case KindMultipleChoice:
		mc := q.MultipleChoice
		if mc == nil {
			return ErrItemPayloadMismatch
		}
		if len(mc.Options) != MultipleChoiceOptionCount {
			return fmt.Errorf("%w: expected %d options, got %d",
				ErrValidation, MultipleChoiceOptionCount, len(mc.Options))
		}
		if !slices.Contains(mc.Options, mc.CorrectAnswer) {
			return fmt.Errorf("%w: correct answer is not among the options", ErrValidation)
		}
	case KindTrueFalse:
		if q.TrueFalse == nil {
			return ErrItemPayloadMismatch
		}
	}
	return nil
}

// Clone returns a deep copy of the item so that callers can modify the copy
// without touching payload slices shared with the original.
func (q QuizItem) Clone() QuizItem {
	c := q
	if q.Flashcard != nil {
		fc := *q.Flashcard
		c.Flashcard = &fc
	}
	if q.MultipleChoice != nil {
		mc := *q.MultipleChoice
		mc.Options = slices.Clone(q.MultipleChoice.Options)
		c.MultipleChoice = &mc
	}
	if q.TrueFalse != nil {
		tf := *q.TrueFalse
		c.TrueFalse = &tf
	}
	return c
}

// IsCorrectOption reports whether option is the correct answer of a multiple-choice item.
func (q QuizItem) IsCorrectOption(option string) bool {
	return q.MultipleChoice != nil && q.MultipleChoice.CorrectAnswer == option
}

// HasOption reports whether option is one of the item's multiple-choice options.
func (q QuizItem) HasOption(option string) bool {
	return q.MultipleChoice != nil && slices.Contains(q.MultipleChoice.Options, option)
}

// IsCorrectTruth reports whether value matches the truth of a true/false item.
func (q QuizItem) IsCorrectTruth(value bool) bool {
	return q.TrueFalse != nil && q.TrueFalse.CorrectAnswer == value
}
