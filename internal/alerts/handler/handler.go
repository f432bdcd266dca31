// Package handler exposes the compliance alert endpoints. Listing is open
// to any authenticated user; creating and resolving are admin-only.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"complio/internal/alerts"
	"complio/internal/platform/middleware"
	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/platform/httputil"
	"complio/pkg/requestcontext"
)

// Service defines the alert operations the handler depends on.
type Service interface {
	Create(ctx context.Context, input alerts.Input) (*alerts.Alert, error)
	List(ctx context.Context, state string, resolved *bool) ([]*alerts.Alert, error)
	Resolve(ctx context.Context, alertID id.AlertID) (*alerts.Alert, error)
}

// Handler handles compliance alert endpoints.
type Handler struct {
	logger *slog.Logger
	svc    Service
}

// New creates an alerts Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// Register mounts the alert routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.handleCreate)
			r.Put("/{id}/resolve", h.handleResolve)
		})
	})
}

type alertRequest struct {
	State          string     `json:"state"`
	Type           string     `json:"type"`
	Message        string     `json:"message"`
	Priority       string     `json:"priority"`
	Date           time.Time  `json:"date"`
	RuleID         string     `json:"ruleId"`
	ActionRequired bool       `json:"actionRequired"`
	Deadline       *time.Time `json:"deadline"`
}

func (r *alertRequest) Validate() error { return nil }

func (r *alertRequest) input() alerts.Input {
	return alerts.Input{
		State:          r.State,
		Type:           alerts.Type(r.Type),
		Message:        r.Message,
		Priority:       alerts.Priority(r.Priority),
		Date:           r.Date,
		RuleID:         r.RuleID,
		ActionRequired: r.ActionRequired,
		Deadline:       r.Deadline,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resolved *bool
	if raw := r.URL.Query().Get("resolved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "resolved must be true or false"))
			return
		}
		resolved = &parsed
	}
	out, err := h.svc.List(ctx, r.URL.Query().Get("state"), resolved)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[alertRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	alert, err := h.svc.Create(ctx, req.input())
	if err != nil {
		h.logger.WarnContext(ctx, "alert create rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, alert)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alertID, err := id.ParseAlertID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	alert, err := h.svc.Resolve(ctx, alertID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alert)
}
