// Package server wires the route table. Every handler gets its
// dependencies through the constructor; there is no ambient global state.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/auth"
	"github.com/heartbridge/server/internal/handlers"
	"github.com/heartbridge/server/internal/httpx"
	"github.com/heartbridge/server/internal/payments"
	"github.com/heartbridge/server/internal/services"
)

// New constructs the root http.Handler with all routes and middleware.
func New(db *gorm.DB, verifier auth.TokenVerifier, intents payments.IntentCreator, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(log))
	r.Use(recoverer(log))

	protected := auth.RequireAuth(verifier)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte("heartBridge Server is running")); err != nil {
			_ = err
		}
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	bh := handlers.NewBiodataHandler(db, services.NewBiodataService(db), log)
	r.With(protected).Post("/biodatas", bh.Upsert)
	r.Get("/biodatas", bh.List)
	r.Get("/biodata/by-id/{biodataId}", bh.GetByID)
	r.With(protected).Patch("/biodata/request-premium/{id}", bh.RequestPremium)
	// shares the /biodata/{email} wildcard segment; the value is an id here
	r.Patch("/biodata/{email}/make-premium", bh.MakePremium)
	r.Get("/biodata/{email}", bh.GetByEmail)
	r.Put("/biodata/{email}", bh.UpdateByEmail)
	r.Get("/premium-members", bh.PremiumMembers)

	sh := handlers.NewStatsHandler(db, log)
	r.Get("/biodata-stats", sh.Stats)
	r.Get("/api/biodata-insights", sh.Insights)

	uh := handlers.NewUserHandler(db, log)
	r.Post("/users", uh.Create)
	r.With(protected).Get("/users", uh.List)
	r.Get("/users/search", uh.Search)
	r.Get("/users/role/{email}", uh.GetRole)
	r.Patch("/users/update-role/{email}", uh.UpdateRole)
	r.Get("/users/{email}", uh.GetByEmail)

	ch := handlers.NewContactRequestHandler(db, services.NewContactRequestService(db), log)
	r.Post("/contact-requests", ch.Create)
	r.With(protected).Get("/contact-requests", ch.List)
	r.Patch("/contact-requests/{id}", ch.Approve)
	r.Delete("/contact-requests/{id}", ch.Delete)

	fh := handlers.NewFavouriteHandler(db, log)
	r.Post("/favourites", fh.Create)
	r.Get("/favourites", fh.List)
	r.Delete("/favourites/{id}", fh.Delete)

	ph := handlers.NewPaymentHandler(intents, log)
	r.With(protected).Post("/create-payment-intent", ph.CreateIntent)

	sth := handlers.NewSuccessStoryHandler(db, log)
	r.Post("/api/success-stories", sth.Create)
	r.Get("/success-stories", sth.List)

	return r
}

// statusWriter records the status code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

func recoverer(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Any("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
					httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
