// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var userColumns = []string{"id", "email", "name", "role", "department", "created_at", "updated_at"}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	Department   string    `db:"department"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// GetByID returns a user by ID or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row, err := r.getOne(ctx, squirrel.Eq{"id": id}, userColumns, "user "+id.String())
	if err != nil {
		return nil, err
	}
	u := toDomain(row)
	return &u, nil
}

// GetCredentials returns the user and its bcrypt password hash by email.
func (r *Repo) GetCredentials(ctx context.Context, email string) (*domain.User, string, error) {
	cols := append([]string{"password_hash"}, userColumns...)
	row, err := r.getOne(ctx, squirrel.Eq{"email": email}, cols, "user "+email)
	if err != nil {
		return nil, "", err
	}
	u := toDomain(row)
	return &u, row.PasswordHash, nil
}

// Create inserts a user with the given password hash and returns the stored row.
// Returns domain.ErrAlreadyExists when the email is taken.
func (r *Repo) Create(ctx context.Context, u *domain.User, passwordHash string) (*domain.User, error) {
	query, args, err := psql.Insert("users").
		Columns("id", "email", "name", "role", "department", "password_hash", "created_at", "updated_at").
		Values(u.ID, u.Email, u.Name, string(u.Role), u.Department, passwordHash, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("user.Create build query: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "user "+u.Email)
	}
	created := toDomain(row)
	return &created, nil
}

// List returns all users ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("user.List build query: %w", err)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "users")
	}

	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

// SetRole changes the role of the user with the given email. It returns
// domain.ErrNotFound when no user has that email.
func (r *Repo) SetRole(ctx context.Context, email string, role domain.Role) error {
	query, args, err := psql.Update("users").
		Set("role", string(role)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		ToSql()
	if err != nil {
		return fmt.Errorf("user.SetRole build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "user "+email)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) getOne(ctx context.Context, where squirrel.Eq, columns []string, entity string) (userRow, error) {
	var row userRow
	query, args, err := psql.Select(columns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return row, fmt.Errorf("user.get build query: %w", err)
	}
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return row, postgres.MapError(err, entity)
	}
	return row, nil
}

func toDomain(row userRow) domain.User {
	dept := row.Department
	if dept == "" {
		dept = domain.DefaultDepartment
	}
	return domain.User{
		ID:         row.ID,
		Email:      row.Email,
		Name:       row.Name,
		Role:       domain.ParseRole(row.Role),
		Department: dept,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
