// internal/wire/wire.go
package wire

import (
	"net/http"

	"dormitory-backend/internal/adaptor"
	"dormitory-backend/internal/data/repository"
	"dormitory-backend/internal/usecase"
	"dormitory-backend/pkg/metrics"
	"dormitory-backend/pkg/middleware"
	"dormitory-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, m, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, m, gatherer, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics(m))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if config.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Every /api route acts on behalf of a staff session.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, logger))

		wireBooking(r, handler.Booking)
		wirePayment(r, handler.Payment)
		wireReport(r, handler.Report)
		wireStaff(r, handler.Staff, logger)
	})

	return r
}
