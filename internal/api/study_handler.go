package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
)

// StudyHandler drives the review session and reports progress.
type StudyHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService service.StudyService, logger *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil for StudyHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for StudyHandler")
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

type studyOp func(ctx context.Context, learnerID uuid.UUID) (service.StudyState, error)

// respond runs op for the authenticated learner and writes the session state.
func (h *StudyHandler) respond(w http.ResponseWriter, r *http.Request, op studyOp, failMsg string) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	st, err := op(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, failMsg)
		return
	}

	if st.Outcome != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("item answered",
			slog.String("item_id", st.Outcome.Item.ID.String()),
			slog.Bool("correct", st.Outcome.Correct),
			slog.Int("interval_days", st.Outcome.Item.IntervalDays),
			slog.Bool("synced", st.Synced))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, studyStateToResponse(st))
}

// GetStudy handles GET /api/study.
func (h *StudyHandler) GetStudy(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.studyService.Study, "Failed to load study session")
}

// Reveal handles POST /api/study/reveal.
func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.studyService.Reveal, "Failed to reveal answer")
}

// SelectOption handles POST /api/study/select.
func (h *StudyHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	var req SelectOptionRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	h.respond(w, r, func(ctx context.Context, learnerID uuid.UUID) (service.StudyState, error) {
		return h.studyService.SelectOption(ctx, learnerID, req.Option)
	}, "Failed to select option")
}

// SelectTruth handles POST /api/study/truth.
func (h *StudyHandler) SelectTruth(w http.ResponseWriter, r *http.Request) {
	var req SelectTruthRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	h.respond(w, r, func(ctx context.Context, learnerID uuid.UUID) (service.StudyState, error) {
		return h.studyService.SelectTruth(ctx, learnerID, *req.Value)
	}, "Failed to record answer")
}

// Rate handles POST /api/study/rate.
func (h *StudyHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	rating, err := srs.ParseRating(req.Rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respond(w, r, func(ctx context.Context, learnerID uuid.UUID) (service.StudyState, error) {
		return h.studyService.Rate(ctx, learnerID, rating)
	}, "Failed to submit rating")
}

// Continue handles POST /api/study/continue.
func (h *StudyHandler) Continue(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.studyService.Continue, "Failed to submit answer")
}

// Restart handles POST /api/study/restart.
func (h *StudyHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.studyService.Restart, "Failed to restart session")
}

// GetProgress handles GET /api/progress.
func (h *StudyHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	p, err := h.studyService.Progress(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{
		ItemsStudied:   p.ItemsStudied,
		CorrectAnswers: p.CorrectAnswers,
		Accuracy:       p.Accuracy,
		CurrentStreak:  p.CurrentStreak,
		TotalMaterials: p.TotalMaterials,
		DueMaterials:   p.DueMaterials,
		Documents:      p.Documents,
	})
}
