package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
)

// MaterialHandler exposes the learner's generated study materials.
type MaterialHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(studyService service.StudyService, logger *slog.Logger) *MaterialHandler {
	if studyService == nil {
		panic("studyService cannot be nil for MaterialHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for MaterialHandler")
	}
	return &MaterialHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "material_handler")),
	}
}

// ListMaterials handles GET /api/materials.
func (h *MaterialHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	items, err := h.studyService.ListMaterials(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list study materials")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, materialsResponse(items))
}

// DueMaterials handles GET /api/materials/due.
func (h *MaterialHandler) DueMaterials(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	items, err := h.studyService.DueMaterials(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due materials")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, materialsResponse(items))
}

// ClearMaterials handles DELETE /api/materials. Statistics are kept.
func (h *MaterialHandler) ClearMaterials(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	synced, err := h.studyService.ClearMaterials(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to clear study materials")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SyncResponse{Synced: synced})
}

func materialsResponse(items []domain.QuizItem) MaterialsResponse {
	if items == nil {
		items = []domain.QuizItem{}
	}
	return MaterialsResponse{Items: items, Count: len(items)}
}
