package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cleanmatch/cleanmatch/internal/auth"
	"github.com/cleanmatch/cleanmatch/internal/config"
	handlers "github.com/cleanmatch/cleanmatch/internal/handlers/v1"
	"github.com/cleanmatch/cleanmatch/internal/service"
	"github.com/cleanmatch/cleanmatch/internal/store"
	"github.com/cleanmatch/cleanmatch/pkg/metrics"
	"github.com/cleanmatch/cleanmatch/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the cleanmatch booking server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	sweeperService := service.NewSweeperService(s.store)
	h := handlers.NewServiceHandler(
		service.NewBookingService(s.store, sweeperService),
		service.NewOfferService(s.store, sweeperService),
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Authenticator)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleClient))
			r.Post("/jobs", h.CreateJob)
			r.Put("/jobs/{id}/rate", h.RateJob)
			r.Post("/offers/{id}/select/{applicationId}", h.SelectApplicant)
			r.Get("/offers/pending", h.ListPendingOffers)
			r.Get("/clients/{id}/jobs/completed", h.ListClientCompletedJobs)
			r.Get("/clients/{id}/jobs/pending", h.ListClientPendingJobs)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleCleaner))
			r.Put("/jobs/{id}/status", h.UpdateJobStatus)
			r.Get("/offers", h.ListOpenOffers)
			r.Post("/offers/{id}/applications", h.ApplyToOffer)
			r.Get("/cleaners/{id}/jobs", h.ListCleanerJobs)
			r.Get("/cleaners/{id}/jobs/completed", h.ListCleanerCompletedJobs)
		})

		r.Get("/jobs/{id}", h.GetJob)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
