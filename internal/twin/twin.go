// Package twin serves an in-memory stand-in for the todo HTTP API.
package twin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"todocheck/internal/logging"
)

// shutdownTimeout bounds graceful shutdown in ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Handler holds all API handler state.
type Handler struct {
	store *Store
	log   *slog.Logger
}

// NewHandler creates a handler over s. A nil logger discards output.
func NewHandler(s *Store, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{store: s, log: log.With("component", "twin")}
}

// Routes mounts the todo API and admin routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Root)
	r.Put("/create-task", h.CreateTask)
	r.Get("/get-task/{task_id}", h.GetTask)
	r.Put("/update-task", h.UpdateTask)
	r.Get("/list-tasks/{user_id}", h.ListTasks)
	r.Delete("/delete-task/{task_id}", h.DeleteTask)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/reset", h.AdminReset)
		r.Get("/state", h.AdminState)
		r.Post("/state", h.AdminLoadState)
	})
}

// NewRouter returns a router serving the twin API over s.
func NewRouter(s *Store, log *slog.Logger) chi.Router {
	h := NewHandler(s, log)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	h.Routes(r)
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves the twin on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, s *Store, log *slog.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(s, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("twin listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("twin stopped")
	return nil
}
