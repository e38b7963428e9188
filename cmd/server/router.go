package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-study/internal/api"
	apiMiddleware "github.com/phrazzld/scry-study/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	documentHandler := api.NewDocumentHandler(app.studyService, app.config.Upload.MaxBytes, app.logger)
	materialHandler := api.NewMaterialHandler(app.studyService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	chatHandler := api.NewChatHandler(app.relay, app.logger)

	// a nil *sql.DB must not reach the handler as a non-nil Pinger
	var healthHandler *api.HealthHandler
	if app.db != nil {
		healthHandler = api.NewHealthHandler(app.db, app.logger)
	} else {
		healthHandler = api.NewHealthHandler(nil, app.logger)
	}

	r.Route("/api", func(r chi.Router) {
		// the chat relay keeps no learner state
		r.Post("/chat-stream", chatHandler.ChatStream)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/documents", documentHandler.ListDocuments)
			r.Post("/documents", documentHandler.UploadDocument)
			r.Delete("/documents/{id}", documentHandler.DeleteDocument)
			r.Post("/documents/{id}/generate", documentHandler.Generate)

			r.Get("/materials", materialHandler.ListMaterials)
			r.Get("/materials/due", materialHandler.DueMaterials)
			r.Delete("/materials", materialHandler.ClearMaterials)

			r.Get("/study", studyHandler.GetStudy)
			r.Post("/study/reveal", studyHandler.Reveal)
			r.Post("/study/select", studyHandler.SelectOption)
			r.Post("/study/truth", studyHandler.SelectTruth)
			r.Post("/study/rate", studyHandler.Rate)
			r.Post("/study/continue", studyHandler.Continue)
			r.Post("/study/restart", studyHandler.Restart)
			r.Get("/progress", studyHandler.GetProgress)
		})
	})

	r.Get("/health", healthHandler.Health)

	return r
}
