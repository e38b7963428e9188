package srs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRating is returned when a rating label is not Hard, Good or Easy.
var ErrInvalidRating = errors.New("invalid rating")

// Quality is a recall quality on the SM-2 scale, 0 (blackout) to 5 (perfect).
type Quality int

// PassingQuality is the lowest quality that counts as a successful recall.
const PassingQuality Quality = 3

// Passed reports whether q counts as a correct answer.
func (q Quality) Passed() bool {
	return q >= PassingQuality
}

// Qualities derived from choice answers.
const (
	QualityCorrectChoice   Quality = 4
	QualityIncorrectChoice Quality = 2
)

// ChoiceQuality derives the quality of a multiple-choice or true/false answer.
func ChoiceQuality(correct bool) Quality {
	if correct {
		return QualityCorrectChoice
	}
	return QualityIncorrectChoice
}

// Rating is the self-assessment a learner gives after revealing a flashcard.
type Rating int

const (
	RatingHard Rating = iota + 1
	RatingGood
	RatingEasy
)

var ratingNames = map[Rating]string{
	RatingHard: "hard",
	RatingGood: "good",
	RatingEasy: "easy",
}

var ratingQualities = map[Rating]Quality{
	RatingHard: 2,
	RatingGood: 3,
	RatingEasy: 4,
}

// IsValid reports whether r is one of the three ratings.
func (r Rating) IsValid() bool {
	_, ok := ratingNames[r]
	return ok
}

// String returns the lowercase label of the rating.
func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// Quality maps the rating onto the SM-2 quality scale.
func (r Rating) Quality() (Quality, error) {
	q, ok := ratingQualities[r]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return q, nil
}

// ParseRating converts a case-insensitive label into a Rating.
func ParseRating(s string) (Rating, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for r, name := range ratingNames {
		if name == needle {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	parsed, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON encodes the rating as its label.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON accepts the label of a rating.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRating, string(data))
	}
	return r.UnmarshalText([]byte(s))
}
