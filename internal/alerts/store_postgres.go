package alerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
	strutil "complio/pkg/platform/strings"
)

// PostgresStore persists compliance alerts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const alertColumns = `id, state, alert_type, message, priority, alert_date,
	resolved, rule_id, action_required, deadline, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, alert *Alert) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compliance_alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(alert.ID), alert.State, string(alert.Type), alert.Message,
		string(alert.Priority), alert.Date, alert.Resolved, alert.RuleID,
		alert.ActionRequired, nullTime(alert.Deadline), alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, alertID id.AlertID) (*Alert, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM compliance_alerts WHERE id = $1`,
		uuid.UUID(alertID))
	return scanAlert(row)
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM compliance_alerts`
	var (
		clauses []string
		args    []any
	)
	if len(filter.StateTerms) > 0 {
		args = append(args, pq.Array(strutil.DedupeAndTrimLower(filter.StateTerms)))
		clauses = append(clauses, fmt.Sprintf("lower(state) = ANY($%d)", len(args)))
	}
	if filter.Resolved != nil {
		args = append(args, *filter.Resolved)
		clauses = append(clauses, fmt.Sprintf("resolved = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY alert_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []*Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, alert *Alert) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE compliance_alerts SET
			state = $2, alert_type = $3, message = $4, priority = $5,
			alert_date = $6, resolved = $7, rule_id = $8, action_required = $9,
			deadline = $10, updated_at = $11
		WHERE id = $1`,
		uuid.UUID(alert.ID), alert.State, string(alert.Type), alert.Message,
		string(alert.Priority), alert.Date, alert.Resolved, alert.RuleID,
		alert.ActionRequired, nullTime(alert.Deadline), alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*Alert, error) {
	var (
		alert     Alert
		rawID     uuid.UUID
		alertType string
		priority  string
		deadline  sql.NullTime
	)
	err := row.Scan(&rawID, &alert.State, &alertType, &alert.Message, &priority,
		&alert.Date, &alert.Resolved, &alert.RuleID, &alert.ActionRequired,
		&deadline, &alert.CreatedAt, &alert.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	alert.ID = id.AlertID(rawID)
	alert.Type = Type(alertType)
	alert.Priority = Priority(priority)
	if deadline.Valid {
		alert.Deadline = &deadline.Time
	}
	return &alert, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
