package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "complio/pkg/domain"
	"complio/pkg/platform/sentinel"
)

// PostgresStore persists directory users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, first_name, last_name, email, phone, position, location,
	employee_id, profile_picture, role, status, password_hash, created_at, updated_at`

func (s *PostgresStore) Save(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			position = EXCLUDED.position,
			location = EXCLUDED.location,
			employee_id = EXCLUDED.employee_id,
			profile_picture = EXCLUDED.profile_picture,
			role = EXCLUDED.role,
			status = EXCLUDED.status,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(user.ID), user.FirstName, user.LastName, user.Email, user.Phone,
		user.Position, user.Location, user.EmployeeID, user.ProfilePicture,
		string(user.Role), string(user.Status), user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	return scanUser(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email))
	return scanUser(row)
}

func (s *PostgresStore) ListByIDs(ctx context.Context, userIDs []id.UserID) ([]*User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	raw := make([]string, len(userIDs))
	for i, userID := range userIDs {
		raw[i] = userID.String()
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *PostgresStore) Search(ctx context.Context, term string) ([]*User, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(term)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE status = 'active'
		  AND (first_name ILIKE $1 OR last_name ILIKE $1
		       OR (first_name || ' ' || last_name) ILIKE $1)
		ORDER BY last_name, first_name
		LIMIT $2`, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		user    User
		rawID   uuid.UUID
		role    string
		status  string
		created sql.NullTime
		updated sql.NullTime
	)
	err := row.Scan(&rawID, &user.FirstName, &user.LastName, &user.Email, &user.Phone,
		&user.Position, &user.Location, &user.EmployeeID, &user.ProfilePicture,
		&role, &status, &user.PasswordHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.ID = id.UserID(rawID)
	user.Role = id.Role(role)
	user.Status = Status(status)
	if created.Valid {
		user.CreatedAt = created.Time
	}
	if updated.Valid {
		user.UpdatedAt = updated.Time
	}
	return &user, nil
}

func collectUsers(rows *sql.Rows) ([]*User, error) {
	var out []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
