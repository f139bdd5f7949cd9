package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/kevinmathew47/typing-tug-backend/internal/config"
	"github.com/kevinmathew47/typing-tug-backend/internal/hub"
	"github.com/kevinmathew47/typing-tug-backend/internal/ws"
	"go.uber.org/zap"
)

func SetupRoutes(h *hub.Hub, cfg config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Public routes
	r.With(httprate.LimitByIP(cfg.CreateRatePerMinute, time.Minute)).
		Post("/rounds", CreateRound(h, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log, cfg.AllowedOrigins))
	return r
}
