package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"complio/internal/credential/models"
	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
	strutil "complio/pkg/platform/strings"
)

// Postgres persists credential records in PostgreSQL. The
// (kind, number, lower(state)) unique index enforces the number/state
// constraint; 23505 violations surface as sentinel.ErrConflict.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const recordColumns = `id, kind, name, credential_type, number, state, amount,
	issued_date, expires_date, is_active, assigned_to, created_by, attachments,
	status, submitted_at, reviewed_at, reviewed_by, review_notes, document_url,
	created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, rec *models.CredentialRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credential_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21)`,
		recordArgs(rec)...,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create credential record: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, recordID id.RecordID) (*models.CredentialRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM credential_records WHERE id = $1`,
		uuid.UUID(recordID))
	return scanRecord(row)
}

func (s *Postgres) ListByAssignee(ctx context.Context, kind models.Kind, userID id.UserID) ([]*models.CredentialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM credential_records
		WHERE kind = $1 AND assigned_to = $2
		ORDER BY expires_date ASC`,
		string(kind), uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list records by assignee: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Postgres) ListApprovedByStates(ctx context.Context, kind models.Kind, stateTerms []string) ([]*models.CredentialRecord, error) {
	lowered := strutil.DedupeAndTrimLower(stateTerms)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM credential_records
		WHERE kind = $1
		  AND lower(state) = ANY($2)
		  AND (status = 'approved' OR (status = '' AND is_active))
		ORDER BY expires_date ASC`,
		string(kind), pq.Array(lowered))
	if err != nil {
		return nil, fmt.Errorf("list records by state: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Postgres) ListApprovedByAssignees(ctx context.Context, kind models.Kind, userIDs []id.UserID) ([]*models.CredentialRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	raw := make([]string, len(userIDs))
	for i, userID := range userIDs {
		raw[i] = userID.String()
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM credential_records
		WHERE kind = $1 AND status = 'approved' AND assigned_to = ANY($2::uuid[])
		ORDER BY expires_date ASC`,
		string(kind), pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list records by assignees: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Postgres) Update(ctx context.Context, rec *models.CredentialRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE credential_records SET
			name = $2, credential_type = $3, number = $4, state = $5, amount = $6,
			issued_date = $7, expires_date = $8, is_active = $9, attachments = $10,
			status = $11, reviewed_at = $12, reviewed_by = $13, review_notes = $14,
			document_url = $15, updated_at = $16
		WHERE id = $1`,
		uuid.UUID(rec.ID), rec.Name, rec.Type, rec.Number, rec.State,
		nullFloat(rec.Amount), nullTime(rec.IssuedDate), rec.ExpiresDate,
		rec.IsActive, pq.Array(rec.Attachments), string(rec.Status),
		nullTime(rec.ReviewedAt), nullUserID(rec.ReviewedBy), rec.ReviewNotes,
		rec.DocumentURL, rec.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update credential record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update credential record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, recordID id.RecordID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM credential_records WHERE id = $1`, uuid.UUID(recordID))
	if err != nil {
		return fmt.Errorf("delete credential record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credential record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func recordArgs(rec *models.CredentialRecord) []any {
	return []any{
		uuid.UUID(rec.ID), string(rec.Kind), rec.Name, rec.Type, rec.Number,
		rec.State, nullFloat(rec.Amount), nullTime(rec.IssuedDate),
		rec.ExpiresDate, rec.IsActive, uuid.UUID(rec.AssignedTo),
		uuid.UUID(rec.CreatedBy), pq.Array(rec.Attachments), string(rec.Status),
		rec.SubmittedAt, nullTime(rec.ReviewedAt), nullUserID(rec.ReviewedBy),
		rec.ReviewNotes, rec.DocumentURL, rec.CreatedAt, rec.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.CredentialRecord, error) {
	var (
		rec        models.CredentialRecord
		rawID      uuid.UUID
		rawAssign  uuid.UUID
		rawCreator uuid.UUID
		kind       string
		status     string
		amount     sql.NullFloat64
		issued     sql.NullTime
		reviewedAt sql.NullTime
		reviewedBy uuid.NullUUID
	)
	err := row.Scan(&rawID, &kind, &rec.Name, &rec.Type, &rec.Number, &rec.State,
		&amount, &issued, &rec.ExpiresDate, &rec.IsActive, &rawAssign, &rawCreator,
		pq.Array(&rec.Attachments), &status, &rec.SubmittedAt, &reviewedAt,
		&reviewedBy, &rec.ReviewNotes, &rec.DocumentURL, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan credential record: %w", err)
	}
	rec.ID = id.RecordID(rawID)
	rec.Kind = models.Kind(kind)
	rec.Status = models.Status(status)
	rec.AssignedTo = id.UserID(rawAssign)
	rec.CreatedBy = id.UserID(rawCreator)
	if amount.Valid {
		rec.Amount = &amount.Float64
	}
	if issued.Valid {
		rec.IssuedDate = &issued.Time
	}
	if reviewedAt.Valid {
		rec.ReviewedAt = &reviewedAt.Time
	}
	if reviewedBy.Valid {
		reviewer := id.UserID(reviewedBy.UUID)
		rec.ReviewedBy = &reviewer
	}
	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]*models.CredentialRecord, error) {
	var out []*models.CredentialRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credential records: %w", err)
	}
	return out, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func nullUserID(value *id.UserID) uuid.NullUUID {
	if value == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*value), Valid: true}
}
