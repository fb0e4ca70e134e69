package wire

import (
	"net/http"

	"mining-chatbot/internal/adaptor"
	"mining-chatbot/internal/data/repository"
	"mining-chatbot/internal/usecase"
	"mining-chatbot/pkg/middleware"
	"mining-chatbot/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired HTTP router.
type App struct {
	Router *chi.Mux
}

// Wiring builds services and handlers and mounts every route.
func Wiring(repo *repository.Repository, deps usecase.Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, config.Redis.SessionTTL, logger)

	return &App{
		Router: setupRouter(handler, config, logger),
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS))
	r.Use(middleware.Metrics())
	r.Use(middleware.ChatSession())

	wireAuth(r, handler.Auth)
	wireChat(r, handler.Chat)
	wireVoice(r, handler.Voice)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseMethodNotAllowed(w)
	})

	return r
}
