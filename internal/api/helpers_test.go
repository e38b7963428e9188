package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/require"
)

const studyNotes = "Photosynthesis converts light energy into chemical energy inside plant cells. " +
	"Chlorophyll absorbs mostly blue and red wavelengths of visible light. " +
	"The Calvin cycle fixes carbon dioxide into sugars using ATP and NADPH. " +
	"Stomata regulate the exchange of gases between the leaf and the air."

const testUploadLimit = 64 << 10

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// testAPI is a router wired to a real study service over an in-memory store.
type testAPI struct {
	router    http.Handler
	learnerID uuid.UUID
}

// withLearner stands in for the auth middleware.
func withLearner(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id != uuid.Nil {
				r = r.WithContext(shared.WithLearnerID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newStudyRouter(t *testing.T, svc service.StudyService, learnerID uuid.UUID) http.Handler {
	t.Helper()
	_, log := logger.NewTestLogger(t)

	docs := NewDocumentHandler(svc, testUploadLimit, log)
	materials := NewMaterialHandler(svc, log)
	study := NewStudyHandler(svc, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(withLearner(learnerID))
		r.Get("/documents", docs.ListDocuments)
		r.Post("/documents", docs.UploadDocument)
		r.Delete("/documents/{id}", docs.DeleteDocument)
		r.Post("/documents/{id}/generate", docs.Generate)

		r.Get("/materials", materials.ListMaterials)
		r.Get("/materials/due", materials.DueMaterials)
		r.Delete("/materials", materials.ClearMaterials)

		r.Get("/study", study.GetStudy)
		r.Post("/study/reveal", study.Reveal)
		r.Post("/study/select", study.SelectOption)
		r.Post("/study/truth", study.SelectTruth)
		r.Post("/study/rate", study.Rate)
		r.Post("/study/continue", study.Continue)
		r.Post("/study/restart", study.Restart)
		r.Get("/progress", study.GetProgress)
	})
	return r
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIAs(t, uuid.New())
}

// newTestAPIAs builds a testAPI whose requests carry learnerID. uuid.Nil
// simulates a request that bypassed authentication.
func newTestAPIAs(t *testing.T, learnerID uuid.UUID) *testAPI {
	t.Helper()
	_, log := logger.NewTestLogger(t)
	clock := func() time.Time { return testNow }

	scheduler := srs.NewDefaultService()
	svc, err := service.NewStudyService(
		store.NewSnapshotStore(store.NewMemoryBlobStore(), log),
		generation.NewHeuristicGenerator(log, nil, clock),
		session.NewEngine(scheduler, clock),
		scheduler,
		service.StudyOptions{
			DefaultKinds:       []domain.ItemKind{domain.KindFlashcard},
			ItemsPerGeneration: 2,
			Clock:              clock,
		},
		log,
	)
	require.NoError(t, err)

	return &testAPI{router: newStudyRouter(t, svc, learnerID), learnerID: learnerID}
}

func (a *testAPI) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, body)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func (a *testAPI) doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	return a.do(t, method, path, reader, "application/json")
}

func (a *testAPI) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "file", filename, content)
	return a.do(t, http.MethodPost, "/api/documents", body, contentType)
}

// uploadNotes uploads studyNotes and returns the new document ID.
func (a *testAPI) uploadNotes(t *testing.T) string {
	t.Helper()
	w := a.upload(t, "notes.txt", []byte(studyNotes))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[UploadResponse](t, w)
	return resp.Document.ID.String()
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
