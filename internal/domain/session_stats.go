package domain

import "math"

// SessionStats holds the cumulative review statistics of a learner.
// Only the streak is ever reset, and only by an incorrect answer.
type SessionStats struct {
	ItemsStudied   int `json:"items_studied"`
	CorrectAnswers int `json:"correct_answers"`
	CurrentStreak  int `json:"current_streak"`
}

// Record returns the statistics after one more answered item.
func (s SessionStats) Record(correct bool) SessionStats {
	s.ItemsStudied++
	if correct {
		s.CorrectAnswers++
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 0
	}
	return s
}

// Accuracy is the rounded percentage of correct answers, 0 when nothing was studied.
func (s SessionStats) Accuracy() int {
	if s.ItemsStudied == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectAnswers) / float64(s.ItemsStudied) * 100))
}
