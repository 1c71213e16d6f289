package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"signup/internal/registration/models"
	"signup/pkg/platform/httputil"
	"signup/pkg/platform/middleware/cors"
	"signup/pkg/requestcontext"
)

// Service runs the registration workflow.
type Service interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResult, error)
}

// Handler exposes the registration endpoint.
type Handler struct {
	service Service
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Handler)

// WithTimeout bounds the whole workflow of one request. Compensation runs on
// its own deadline and is not cut short by this one.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the registration routes. Every response carries the CORS
// headers.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(cors.Middleware)
		r.Post("/register", h.HandleRegister)
		r.Options("/register", h.HandlePreflight)
	})
}

// HandlePreflight answers CORS preflight requests.
func (h *Handler) HandlePreflight(w http.ResponseWriter, _ *http.Request) {
	cors.SetHeaders(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleRegister handles POST /register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Register(ctx, req.ToDomain())
	if err != nil {
		h.logger.InfoContext(ctx, "registration failed",
			"request_id", requestID,
			"username", req.Username,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "registration succeeded",
		"request_id", requestID,
		"identity_id", result.IdentityID,
		"username", result.Username,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, NewRegisterResponse())
}
