// Package handler exposes the credential REST surface. One handler serves
// both kinds: routes are registered twice, under /licenses and /bonds, with
// the kind captured per route. The talent views are license-route-only.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"complio/internal/credential/models"
	"complio/internal/credential/service"
	"complio/internal/platform/middleware"
	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/platform/httputil"
	"complio/pkg/requestcontext"
)

// Service defines the credential operations the handler depends on.
type Service interface {
	Submit(ctx context.Context, kind models.Kind, sub service.Submission) (*models.CredentialRecord, error)
	ListMine(ctx context.Context, kind models.Kind) ([]*models.CredentialRecord, error)
	Get(ctx context.Context, kind models.Kind, recordID id.RecordID) (*models.CredentialRecord, error)
	Update(ctx context.Context, kind models.Kind, recordID id.RecordID, patch models.Patch) (*models.CredentialRecord, error)
	Delete(ctx context.Context, kind models.Kind, recordID id.RecordID) error
	Approve(ctx context.Context, kind models.Kind, recordID id.RecordID) (*models.CredentialRecord, error)
	Reject(ctx context.Context, kind models.Kind, recordID id.RecordID, notes *string) (*models.CredentialRecord, error)
	TalentByState(ctx context.Context, state string) (*service.StateTalent, error)
	SearchTalent(ctx context.Context, query string) ([]service.TalentEntry, error)
}

// Handler handles credential record endpoints.
type Handler struct {
	logger *slog.Logger
	svc    Service
}

// New creates a credential Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, svc: svc}
}

// Register mounts the credential routes. The router passed in must already
// carry the authentication middleware; admin-only routes add RequireAdmin on
// top.
func (h *Handler) Register(r chi.Router) {
	r.Route("/licenses", func(r chi.Router) {
		h.registerKind(r, models.KindLicense)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.logger))
			r.Get("/by-state/{state}", h.handleTalentByState)
			r.Get("/search-talent", h.handleSearchTalent)
		})
	})
	r.Route("/bonds", func(r chi.Router) {
		h.registerKind(r, models.KindBond)
	})
}

func (h *Handler) registerKind(r chi.Router, kind models.Kind) {
	r.Get("/my", h.handleListMine(kind))
	r.Post("/", h.handleCreate(kind))
	r.Get("/{id}", h.handleGet(kind))
	r.Put("/{id}", h.handleUpdate(kind))
	r.Delete("/{id}", h.handleDelete(kind))
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.logger))
		r.Put("/{id}/approve", h.handleApprove(kind))
		r.Put("/{id}/reject", h.handleReject(kind))
	})
}

func (h *Handler) handleCreate(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, ok := httputil.DecodeAndPrepare[createRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		rec, err := h.svc.Submit(ctx, kind, req.submission())
		if err != nil {
			h.writeError(ctx, w, err, "submit credential")
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, newRecordResponse(rec, requestcontext.Now(ctx)))
	}
}

func (h *Handler) handleListMine(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		recs, err := h.svc.ListMine(ctx, kind)
		if err != nil {
			h.writeError(ctx, w, err, "list credentials")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, newRecordResponses(recs, requestcontext.Now(ctx)))
	}
}

func (h *Handler) handleGet(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		recordID, ok := h.recordID(w, r)
		if !ok {
			return
		}
		rec, err := h.svc.Get(ctx, kind, recordID)
		if err != nil {
			h.writeError(ctx, w, err, "get credential")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, newRecordResponse(rec, requestcontext.Now(ctx)))
	}
}

func (h *Handler) handleUpdate(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		recordID, ok := h.recordID(w, r)
		if !ok {
			return
		}
		req, ok := httputil.DecodeAndPrepare[updateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		rec, err := h.svc.Update(ctx, kind, recordID, req.patch())
		if err != nil {
			h.writeError(ctx, w, err, "update credential")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, newRecordResponse(rec, requestcontext.Now(ctx)))
	}
}

func (h *Handler) handleDelete(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		recordID, ok := h.recordID(w, r)
		if !ok {
			return
		}
		if err := h.svc.Delete(ctx, kind, recordID); err != nil {
			h.writeError(ctx, w, err, "delete credential")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleApprove(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		recordID, ok := h.recordID(w, r)
		if !ok {
			return
		}
		rec, err := h.svc.Approve(ctx, kind, recordID)
		if err != nil {
			h.writeError(ctx, w, err, "approve credential")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, newRecordResponse(rec, requestcontext.Now(ctx)))
	}
}

func (h *Handler) handleReject(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		recordID, ok := h.recordID(w, r)
		if !ok {
			return
		}
		req, ok := httputil.DecodeAndPrepare[rejectRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		rec, err := h.svc.Reject(ctx, kind, recordID, req.ReviewNotes)
		if err != nil {
			h.writeError(ctx, w, err, "reject credential")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, newRecordResponse(rec, requestcontext.Now(ctx)))
	}
}

func (h *Handler) handleTalentByState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	talent, err := h.svc.TalentByState(ctx, chi.URLParam(r, "state"))
	if err != nil {
		h.writeError(ctx, w, err, "talent by state")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, talent)
}

func (h *Handler) handleSearchTalent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.svc.SearchTalent(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(ctx, w, err, "search talent")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (id.RecordID, bool) {
	recordID, err := id.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.RecordID{}, false
	}
	return recordID, true
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, op string) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, "credential operation failed",
			"op", op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "credential operation rejected",
			"op", op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
