// Package service orchestrates the credential record lifecycle: submission,
// review decisions, partial updates, deletion, and the talent aggregation
// views. Handlers stay thin; all authorization and invariant enforcement
// lives here.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"complio/internal/audit"
	"complio/internal/credential/expiry"
	"complio/internal/credential/metrics"
	"complio/internal/credential/models"
	"complio/internal/credential/store"
	"complio/internal/directory"
	id "complio/pkg/domain"
	dErrors "complio/pkg/domain-errors"
	"complio/pkg/platform/sentinel"
	strutil "complio/pkg/platform/strings"
	"complio/pkg/requestcontext"
)

// Service coordinates credential records with the user directory, audit sink,
// and metrics. One instance serves both kinds; every operation takes the kind
// explicitly so licenses and bonds share the full lifecycle.
type Service struct {
	records store.Store
	users   directory.Store
	audit   audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures optional collaborators.
type Option func(*Service)

// WithMetrics attaches the credential metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher attaches an audit event sink. Publishing is best-effort;
// failures are logged and never fail the request.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// New constructs the credential service.
func New(records store.Store, users directory.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		records: records,
		users:   users,
		logger:  logger,
		tracer:  otel.Tracer("complio/credential"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submission carries the caller-supplied fields of a new credential record.
// A zero AssignedTo means the actor is submitting for themselves.
type Submission struct {
	Name        string
	Type        string
	Number      string
	State       string
	Amount      *float64
	IssuedDate  *time.Time
	ExpiresDate time.Time
	AssignedTo  id.UserID
	Attachments []string
	DocumentURL string
}

// Submit creates a new credential record. Admins create records in approved
// state for any user; non-admins may only submit for themselves, landing in
// pending review. A non-admin submitting for someone else is rejected before
// anything is persisted.
func (s *Service) Submit(ctx context.Context, kind models.Kind, sub Submission) (*models.CredentialRecord, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Submit")
	defer span.End()

	actor := requestcontext.UserID(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	assignee := sub.AssignedTo
	if assignee.IsZero() {
		assignee = actor
	}
	isAdmin := requestcontext.Role(ctx).IsAdmin()
	if assignee != actor && !isAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only admins may submit credentials for another user")
	}

	now := requestcontext.Now(ctx)
	rec := &models.CredentialRecord{
		ID:          id.NewRecordID(),
		Kind:        kind,
		Name:        sub.Name,
		Type:        sub.Type,
		Number:      sub.Number,
		State:       sub.State,
		Amount:      sub.Amount,
		IssuedDate:  sub.IssuedDate,
		ExpiresDate: sub.ExpiresDate,
		AssignedTo:  assignee,
		CreatedBy:   actor,
		Attachments: strutil.DedupeAndTrim(sub.Attachments),
		Status:      models.StatusPending,
		DocumentURL: sub.DocumentURL,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if isAdmin {
		rec.ApplyDecision(models.StatusApproved, actor, now, nil)
		rec.IsActive = true
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, s.translate(err, kind)
	}

	s.metrics.IncrementSubmission(string(kind), string(rec.Status))
	s.publish(ctx, audit.Event{
		Action:    audit.ActionCreated,
		ActorID:   actor,
		SubjectID: assignee,
		RecordID:  rec.ID.String(),
		Kind:      string(kind),
		State:     rec.State,
	})
	return rec, nil
}

// ListMine returns the actor's records of the given kind, ascending by
// expiration date.
func (s *Service) ListMine(ctx context.Context, kind models.Kind) ([]*models.CredentialRecord, error) {
	ctx, span := s.tracer.Start(ctx, "credential.ListMine")
	defer span.End()

	actor := requestcontext.UserID(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	recs, err := s.records.ListByAssignee(ctx, kind, actor)
	if err != nil {
		return nil, s.translate(err, kind)
	}
	now := requestcontext.Now(ctx)
	for _, rec := range recs {
		s.metrics.ObserveExpiryBucket(string(kind), string(expiry.Classify(rec.ExpiresDate, now)))
	}
	return recs, nil
}

// Get loads one record the actor is allowed to see.
func (s *Service) Get(ctx context.Context, kind models.Kind, recordID id.RecordID) (*models.CredentialRecord, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Get")
	defer span.End()

	rec, err := s.load(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update applies a partial update to descriptive fields. Status, assignee,
// creator, and review fields are never touched by this path.
func (s *Service) Update(ctx context.Context, kind models.Kind, recordID id.RecordID, patch models.Patch) (*models.CredentialRecord, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Update")
	defer span.End()

	rec, err := s.load(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, rec); err != nil {
		return nil, err
	}
	if patch.IsZero() {
		return rec, nil
	}
	if err := rec.ApplyPatch(patch, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, s.translate(err, kind)
	}
	return rec, nil
}

// Delete removes a record permanently.
func (s *Service) Delete(ctx context.Context, kind models.Kind, recordID id.RecordID) error {
	ctx, span := s.tracer.Start(ctx, "credential.Delete")
	defer span.End()

	rec, err := s.load(ctx, kind, recordID)
	if err != nil {
		return err
	}
	if err := authorize(ctx, rec); err != nil {
		return err
	}
	if err := s.records.Delete(ctx, recordID); err != nil {
		return s.translate(err, kind)
	}
	s.publish(ctx, audit.Event{
		Action:    audit.ActionDeleted,
		ActorID:   requestcontext.UserID(ctx),
		SubjectID: rec.AssignedTo,
		RecordID:  rec.ID.String(),
		Kind:      string(kind),
		State:     rec.State,
	})
	return nil
}

// Approve marks a record approved. Admin-only; a previously decided record
// may be re-decided, the newest reviewer wins.
func (s *Service) Approve(ctx context.Context, kind models.Kind, recordID id.RecordID) (*models.CredentialRecord, error) {
	return s.decide(ctx, kind, recordID, models.StatusApproved, nil)
}

// Reject marks a record rejected, recording review notes when provided.
func (s *Service) Reject(ctx context.Context, kind models.Kind, recordID id.RecordID, notes *string) (*models.CredentialRecord, error) {
	return s.decide(ctx, kind, recordID, models.StatusRejected, notes)
}

func (s *Service) decide(ctx context.Context, kind models.Kind, recordID id.RecordID, status models.Status, notes *string) (*models.CredentialRecord, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Decide")
	defer span.End()

	actor := requestcontext.UserID(ctx)
	if !requestcontext.Role(ctx).IsAdmin() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only admins may review credentials")
	}
	rec, err := s.load(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}
	rec.ApplyDecision(status, actor, requestcontext.Now(ctx), notes)
	rec.IsActive = status == models.StatusApproved
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, s.translate(err, kind)
	}

	action := audit.ActionApproved
	if status == models.StatusRejected {
		action = audit.ActionRejected
	}
	s.metrics.IncrementDecision(string(kind), string(status))
	s.publish(ctx, audit.Event{
		Action:    action,
		ActorID:   actor,
		SubjectID: rec.AssignedTo,
		RecordID:  rec.ID.String(),
		Kind:      string(kind),
		State:     rec.State,
		Notes:     rec.ReviewNotes,
	})
	return rec, nil
}

// load fetches a record and hides kind mismatches as not-found so a bond id
// can never be addressed through the license routes.
func (s *Service) load(ctx context.Context, kind models.Kind, recordID id.RecordID) (*models.CredentialRecord, error) {
	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, s.translate(err, kind)
	}
	if rec.Kind != kind {
		return nil, dErrors.New(dErrors.CodeNotFound, string(kind)+" not found")
	}
	return rec, nil
}

// authorize allows owners and admins through; everyone else is forbidden.
func authorize(ctx context.Context, rec *models.CredentialRecord) error {
	if requestcontext.Role(ctx).IsAdmin() {
		return nil
	}
	if rec.AssignedTo == requestcontext.UserID(ctx) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "not allowed to access this record")
}

func (s *Service) translate(err error, kind models.Kind) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, string(kind)+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Newf(dErrors.CodeConflict, "a %s with this number already exists for the state", kind)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "credential storage failure")
	}
}

func (s *Service) publish(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.ClientUA = requestcontext.UserAgent(ctx)
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit publish failed",
			"action", event.Action,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}
