package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with the given role and a throwaway password hash.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:         uuid.New(),
		Email:      "testuser-" + suffix + "@example.com",
		Name:       "Test User " + suffix,
		Role:       role,
		Department: domain.DefaultDepartment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, department, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, 'seed', $6, $7)`,
		user.ID, user.Email, user.Name, string(user.Role), user.Department, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedPlatform inserts a platform_data row entered by name and returns its id.
func SeedPlatform(t *testing.T, pool *pgxpool.Pool, name, platform string, followers int) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO platform_data (platform, metrics, month, year, entered_by)
		 VALUES ($1, jsonb_build_object('followers', $2::int), 'July', 2024, $3)
		 RETURNING id`,
		platform, followers, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedPlatform: %v", err)
	}
	return id
}
