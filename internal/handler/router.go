package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	interviewHandler "github.com/crackgpt/backend/internal/handler/interview"
	bankHandler "github.com/crackgpt/backend/internal/handler/questionbank"
	"github.com/crackgpt/backend/internal/handler/video"
	middlewarePkg "github.com/crackgpt/backend/internal/middleware"
	bankModel "github.com/crackgpt/backend/internal/model/questionbank"
	interviewService "github.com/crackgpt/backend/internal/service/interview"
)

// NewRouter wires HTTP routes to core services. bank and synthesizer
// may be nil when the corresponding feature is not configured.
func NewRouter(interviewSvc *interviewService.Service, bank bankModel.Store, synthesizer interviewHandler.Synthesizer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	ivHandler := interviewHandler.New(interviewSvc, synthesizer)
	videoHandler := video.NewWebSocketHandler(interviewSvc)

	r.Route("/api", func(api chi.Router) {
		ivHandler.RegisterRoutes(api)

		if bank != nil {
			bankHandler.New(bank).RegisterRoutes(api)
		}

		videoHandler.RegisterWebSocketRoutes(api)
	})

	return r
}
