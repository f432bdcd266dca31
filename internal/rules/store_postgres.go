package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
	strutil "complio/pkg/platform/strings"
)

// PostgresStore persists rules in PostgreSQL. The unique index on rule_id
// enforces RuleID uniqueness; 23505 violations surface as
// sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const ruleColumns = `id, rule_id, state, category, subcategory, authority_level,
	confidence, rule_text, sources, version, active, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, rule *StateRule) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO state_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.UUID(rule.ID), rule.RuleID, rule.State, rule.Category,
		rule.Subcategory, string(rule.AuthorityLevel), string(rule.Confidence),
		rule.Text, pq.Array(rule.Sources), rule.Version, rule.Active,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save rule: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, ruleID id.RuleID) (*StateRule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM state_rules WHERE id = $1`, uuid.UUID(ruleID))
	return scanRule(row)
}

func (s *PostgresStore) ListByState(ctx context.Context, stateTerms []string) ([]*StateRule, error) {
	lowered := strutil.DedupeAndTrimLower(stateTerms)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ruleColumns+` FROM state_rules
		WHERE lower(state) = ANY($1) AND active
		ORDER BY rule_id`,
		pq.Array(lowered))
	if err != nil {
		return nil, fmt.Errorf("list rules by state: %w", err)
	}
	defer rows.Close()

	var out []*StateRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, rule *StateRule) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE state_rules SET
			rule_id = $2, state = $3, category = $4, subcategory = $5,
			authority_level = $6, confidence = $7, rule_text = $8, sources = $9,
			version = $10, active = $11, updated_at = $12
		WHERE id = $1`,
		uuid.UUID(rule.ID), rule.RuleID, rule.State, rule.Category,
		rule.Subcategory, string(rule.AuthorityLevel), string(rule.Confidence),
		rule.Text, pq.Array(rule.Sources), rule.Version, rule.Active,
		rule.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update rule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, ruleID id.RuleID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM state_rules WHERE id = $1`, uuid.UUID(ruleID))
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM state_rules`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rules: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*StateRule, error) {
	var (
		rule      StateRule
		rawID     uuid.UUID
		authority string
		conf      string
	)
	err := row.Scan(&rawID, &rule.RuleID, &rule.State, &rule.Category,
		&rule.Subcategory, &authority, &conf, &rule.Text,
		pq.Array(&rule.Sources), &rule.Version, &rule.Active,
		&rule.CreatedAt, &rule.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan rule: %w", err)
	}
	rule.ID = id.RuleID(rawID)
	rule.AuthorityLevel = AuthorityLevel(authority)
	rule.Confidence = Confidence(conf)
	return &rule, nil
}
