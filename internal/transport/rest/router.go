package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/innerlight-app/otp-service/internal/metrics"
)

type RouterDeps struct {
	Handler *Handler
	// Metrics exposes /metrics when true.
	Metrics bool
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Handler == nil {
		panic("rest.NewRouter: nil handler")
	}

	r := chi.NewRouter()

	// Request ID + structured access log
	r.Use(RequestID)
	r.Use(HTTPLogger)

	// Panic recovery
	r.Use(middleware.Recoverer)

	r.Use(SecurityHeaders)

	r.Route("/api", func(r chi.Router) {
		r.Post("/send-otp", d.Handler.SendOTP)
		r.Post("/verify-otp", d.Handler.VerifyOTP)
		r.Get("/health", d.Handler.Health)
	})

	if d.Metrics {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r
}
