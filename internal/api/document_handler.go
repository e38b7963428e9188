package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
)

// DocumentHandler handles document upload, listing, deletion and generation.
type DocumentHandler struct {
	studyService   service.StudyService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler. Uploads larger than
// maxUploadBytes are rejected with 413.
func NewDocumentHandler(studyService service.StudyService, maxUploadBytes int64, logger *slog.Logger) *DocumentHandler {
	if studyService == nil {
		panic("studyService cannot be nil for DocumentHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for DocumentHandler")
	}
	return &DocumentHandler{
		studyService:   studyService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "document_handler")),
	}
}

// ListDocuments handles GET /api/documents.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	docs, err := h.studyService.ListDocuments(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list documents")
		return
	}

	resp := DocumentListResponse{Documents: make([]DocumentResponse, 0, len(docs))}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, documentToResponse(doc))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// UploadDocument handles POST /api/documents with a multipart "file" field.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Document exceeds the upload limit", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "File is required", err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	res, err := h.studyService.UploadDocument(r.Context(), learnerID, header.Filename, data)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload document")
		return
	}

	log.Info("document uploaded",
		slog.String("document_id", res.Document.ID.String()),
		slog.String("kind", string(res.Document.Kind)),
		slog.Int("page_count", res.Document.PageCount),
		slog.Bool("synced", res.Synced))
	shared.RespondWithJSON(w, r, http.StatusCreated, UploadResponse{
		Document: documentToResponse(res.Document),
		Synced:   res.Synced,
	})
}

// DeleteDocument handles DELETE /api/documents/{id}.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	learnerID, documentID, ok := requireLearnerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	synced, err := h.studyService.DeleteDocument(r.Context(), learnerID, documentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete document")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SyncResponse{Synced: synced})
}

// Generate handles POST /api/documents/{id}/generate.
func (h *DocumentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, documentID, ok := requireLearnerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req GenerateRequest
	if !decodeAndValidate(w, r, &req, true) {
		return
	}

	kinds := make([]domain.ItemKind, 0, len(req.Kinds))
	for _, raw := range req.Kinds {
		kind, err := domain.ParseItemKind(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		kinds = append(kinds, kind)
	}

	res, err := h.studyService.Generate(r.Context(), learnerID, documentID, kinds, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate study materials")
		return
	}

	log.Info("study materials generated",
		slog.String("document_id", documentID.String()),
		slog.Int("items", len(res.Items)),
		slog.Bool("synced", res.Synced))
	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateResponse{
		Document: documentToResponse(res.Document),
		Items:    res.Items,
		Synced:   res.Synced,
	})
}
