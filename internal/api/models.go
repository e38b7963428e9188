package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/session"
)

// GenerateRequest defines the optional payload of the generate endpoint.
// Omitted fields fall back to the configured defaults.
type GenerateRequest struct {
	Kinds []string `json:"kinds" validate:"omitempty,dive,oneof=flashcard mcq truefalse"`
	Count int      `json:"count" validate:"gte=0,lte=100"`
}

// SelectOptionRequest defines the payload for choosing a multiple-choice option.
type SelectOptionRequest struct {
	Option string `json:"option" validate:"required"`
}

// SelectTruthRequest defines the payload for answering a true/false item.
type SelectTruthRequest struct {
	Value *bool `json:"value" validate:"required"`
}

// RateRequest defines the payload for rating a revealed flashcard.
type RateRequest struct {
	Rating string `json:"rating" validate:"required,oneof=hard good easy"`
}

// ChatRequest defines the payload of the chat stream endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// DocumentResponse represents an uploaded document. The extracted text is
// not returned.
type DocumentResponse struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	Kind             domain.DocumentKind `json:"kind"`
	PageCount        int                 `json:"page_count"`
	CharacterCount   int                 `json:"character_count"`
	UploadedAt       time.Time           `json:"uploaded_at"`
	DerivedItemCount int                 `json:"derived_item_count"`
}

// DocumentListResponse is the body of GET /api/documents.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// UploadResponse is the body of POST /api/documents.
type UploadResponse struct {
	Document DocumentResponse `json:"document"`
	Synced   bool             `json:"synced"`
}

// GenerateResponse is the body of POST /api/documents/{id}/generate.
type GenerateResponse struct {
	Document DocumentResponse  `json:"document"`
	Items    []domain.QuizItem `json:"items"`
	Synced   bool              `json:"synced"`
}

// MaterialsResponse lists study materials with their answers and schedule.
type MaterialsResponse struct {
	Items []domain.QuizItem `json:"items"`
	Count int               `json:"count"`
}

// SyncResponse reports whether a change reached storage.
type SyncResponse struct {
	Synced bool `json:"synced"`
}

// StudyItemResponse is the current item as the learner sees it. Answers are
// only present once the item has been revealed.
type StudyItemResponse struct {
	ID         uuid.UUID         `json:"id"`
	Kind       domain.ItemKind   `json:"kind"`
	Prompt     string            `json:"prompt"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Options    []string          `json:"options,omitempty"`

	Answer        string `json:"answer,omitempty"`
	CorrectOption string `json:"correct_option,omitempty"`
	CorrectTruth  *bool  `json:"correct_truth,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// StatsResponse is the running session tally.
type StatsResponse struct {
	ItemsStudied   int `json:"items_studied"`
	CorrectAnswers int `json:"correct_answers"`
	CurrentStreak  int `json:"current_streak"`
	Accuracy       int `json:"accuracy"`
}

// OutcomeResponse describes the item that was just answered.
type OutcomeResponse struct {
	ItemID       uuid.UUID `json:"item_id"`
	Quality      int       `json:"quality"`
	Correct      bool      `json:"correct"`
	Completed    bool      `json:"completed"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// StudyResponse is the body of every /api/study endpoint.
type StudyResponse struct {
	Current   *StudyItemResponse `json:"current"`
	Position  int                `json:"position"`
	Total     int                `json:"total"`
	Remaining int                `json:"remaining"`
	Phase     session.Phase      `json:"phase"`
	Selection *session.Selection `json:"selection,omitempty"`
	Complete  bool               `json:"complete"`
	Stats     StatsResponse      `json:"stats"`
	Outcome   *OutcomeResponse   `json:"outcome,omitempty"`
	Synced    bool               `json:"synced"`
}

// ProgressResponse is the body of GET /api/progress.
type ProgressResponse struct {
	ItemsStudied   int `json:"items_studied"`
	CorrectAnswers int `json:"correct_answers"`
	Accuracy       int `json:"accuracy"`
	CurrentStreak  int `json:"current_streak"`
	TotalMaterials int `json:"total_materials"`
	DueMaterials   int `json:"due_materials"`
	Documents      int `json:"documents"`
}

func documentToResponse(doc domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:               doc.ID,
		Name:             doc.Name,
		Kind:             doc.Kind,
		PageCount:        doc.PageCount,
		CharacterCount:   len([]rune(doc.RawText)),
		UploadedAt:       doc.UploadedAt,
		DerivedItemCount: doc.DerivedItemCount,
	}
}

func studyItemToResponse(item domain.QuizItem, revealed bool) *StudyItemResponse {
	resp := &StudyItemResponse{
		ID:         item.ID,
		Kind:       item.Kind,
		Prompt:     item.Prompt,
		Difficulty: item.Difficulty,
	}

	switch item.Kind {
	case domain.KindFlashcard:
		if revealed && item.Flashcard != nil {
			resp.Answer = item.Flashcard.Answer
		}
	case domain.KindMultipleChoice:
		if item.MultipleChoice != nil {
			resp.Options = item.MultipleChoice.Options
			if revealed {
				resp.CorrectOption = item.MultipleChoice.CorrectAnswer
			}
		}
	case domain.KindTrueFalse:
		if revealed && item.TrueFalse != nil {
			truth := item.TrueFalse.CorrectAnswer
			resp.CorrectTruth = &truth
			resp.Explanation = item.TrueFalse.Explanation
		}
	}
	return resp
}

func studyStateToResponse(st service.StudyState) StudyResponse {
	resp := StudyResponse{
		Position:  st.Position,
		Total:     st.Total,
		Remaining: st.Remaining,
		Phase:     st.Phase,
		Selection: st.Selection,
		Complete:  st.Complete,
		Stats: StatsResponse{
			ItemsStudied:   st.Stats.ItemsStudied,
			CorrectAnswers: st.Stats.CorrectAnswers,
			CurrentStreak:  st.Stats.CurrentStreak,
			Accuracy:       st.Stats.Accuracy(),
		},
		Synced: st.Synced,
	}
	if st.Current != nil {
		resp.Current = studyItemToResponse(*st.Current, st.Phase == session.PhaseRevealed)
	}
	if st.Outcome != nil {
		resp.Outcome = &OutcomeResponse{
			ItemID:       st.Outcome.Item.ID,
			Quality:      int(st.Outcome.Quality),
			Correct:      st.Outcome.Correct,
			Completed:    st.Outcome.Completed,
			IntervalDays: st.Outcome.Item.IntervalDays,
			EaseFactor:   st.Outcome.Item.EaseFactor,
			NextReviewAt: st.Outcome.Item.NextReviewAt,
		}
	}
	return resp
}
