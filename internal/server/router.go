package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/foncier-app/internal/auth"
	"github.com/diewo77/foncier-app/internal/handlers"
	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/services"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Perform a lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Header().Set("Content-Type", "application/json")
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(http.HandlerFunc(h))
	}
	listCreate := func(list, create http.HandlerFunc) http.Handler {
		return requireAuth(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		})
	}

	// Lotissements & ilots
	lh := handlers.NewLotissementHandler(db)
	mux.Handle("/lotissements", listCreate(lh.List, lh.Create))
	ih := handlers.NewIlotHandler(db)
	mux.Handle("/ilots", listCreate(ih.List, ih.Create))

	// Parcelles. List/Create via /parcelles. Update/Delete via /parcelles/update & /parcelles/delete for simplicity.
	parcelleSvc := services.NewParcelleService(db)
	ph := handlers.NewParcelleHandler(db, parcelleSvc)
	mux.Handle("/parcelles", listCreate(ph.List, ph.Create))
	mux.Handle("/parcelles/update", requireAuth(ph.Update))
	mux.Handle("/parcelles/delete", requireAuth(ph.Delete))

	// Reservations
	resSvc := services.NewReservationService(db)
	rh := handlers.NewReservationHandler(db, resSvc)
	mux.Handle("/reservations", listCreate(rh.List, rh.Create))
	mux.Handle("/reservations/cancel", requireAuth(rh.Cancel))

	// Ventes
	venteSvc := services.NewVenteService(db)
	vh := handlers.NewVenteHandler(db, venteSvc)
	mux.Handle("/ventes", listCreate(vh.List, vh.Create))

	// Commissions (read-only report)
	ch := handlers.NewCommissionHandler(db)
	mux.Handle("/commissions", requireAuth(ch.Report))

	// Dashboard
	dh := handlers.NewDashboardHandler(db)
	mux.Handle("/dashboard/stats", requireAuth(dh.Stats))

	// Root placeholder
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Foncier App API")); werr != nil {
			_ = werr
		}
	})
	//revive:enable:unused-parameter

	return auth.Middleware(withRecover(withLogging(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "path", r.URL.Path, "panic", rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
