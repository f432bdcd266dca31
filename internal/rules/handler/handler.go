// Package handler exposes the state regulation endpoints. Reads are open to
// any authenticated user; writes are admin-only.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"complio/internal/platform/middleware"
	"complio/internal/rules"
	id "complio/pkg/domain"
	"complio/pkg/platform/httputil"
	"complio/pkg/requestcontext"
)

// Service defines the rule operations the handler depends on.
type Service interface {
	Create(ctx context.Context, input rules.Input) (*rules.StateRule, error)
	ByState(ctx context.Context, state string) ([]*rules.StateRule, error)
	Update(ctx context.Context, ruleID id.RuleID, input rules.Input) (*rules.StateRule, error)
	Delete(ctx context.Context, ruleID id.RuleID) error
}

// Handler handles state rule endpoints.
type Handler struct {
	logger *slog.Logger
	svc    Service
}

// New creates a rules Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// Register mounts the rule routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/rules", func(r chi.Router) {
		r.Get("/by-state/{state}", h.handleByState)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.handleCreate)
			r.Put("/{id}", h.handleUpdate)
			r.Delete("/{id}", h.handleDelete)
		})
	})
}

type ruleRequest struct {
	RuleID         string   `json:"ruleId"`
	State          string   `json:"state"`
	Category       string   `json:"category"`
	Subcategory    string   `json:"subcategory"`
	AuthorityLevel string   `json:"authorityLevel"`
	Confidence     string   `json:"confidence"`
	Text           string   `json:"text"`
	Sources        []string `json:"sources"`
	Version        string   `json:"version"`
	Active         *bool    `json:"active"`
}

// Validate defers field checks to the domain model; decode-level validation
// only needs to succeed.
func (r *ruleRequest) Validate() error { return nil }

func (r *ruleRequest) input() rules.Input {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return rules.Input{
		RuleID:         r.RuleID,
		State:          r.State,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		AuthorityLevel: rules.AuthorityLevel(r.AuthorityLevel),
		Confidence:     rules.Confidence(r.Confidence),
		Text:           r.Text,
		Sources:        r.Sources,
		Version:        r.Version,
		Active:         active,
	}
}

func (h *Handler) handleByState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.ByState(ctx, chi.URLParam(r, "state"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ruleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rule, err := h.svc.Create(ctx, req.input())
	if err != nil {
		h.logger.WarnContext(ctx, "rule create rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rule)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ruleID, err := id.ParseRuleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ruleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rule, err := h.svc.Update(ctx, ruleID, req.input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rule)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ruleID, err := id.ParseRuleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.Delete(ctx, ruleID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
