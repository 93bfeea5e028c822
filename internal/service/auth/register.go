package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// Register creates a new user with email + password authentication.
// Returns ErrAlreadyExists if the email is already taken and ErrForbidden
// when an admin account is requested while admin sign-up is disabled.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Normalize input before validation.
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	input.Department = strings.TrimSpace(input.Department)

	// Step 1: Validate input
	if err := input.Validate(); err != nil {
		return nil, err
	}

	role := domain.ParseRole(input.Role)
	if role == domain.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, fmt.Errorf("auth.Register admin sign-up: %w", domain.ErrForbidden)
	}

	department := input.Department
	if department == "" {
		department = s.cfg.DefaultDepartment
	}
	if department == "" {
		department = domain.DefaultDepartment
	}

	// Step 2: Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	// Step 3: Create the user and its first refresh token in one transaction.
	// Email uniqueness is enforced by a DB constraint.
	var result *AuthResult

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := time.Now()
		newUser := &domain.User{
			ID:         uuid.New(),
			Email:      input.Email,
			Name:       input.Name,
			Role:       role,
			Department: department,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		user, err := s.users.Create(txCtx, newUser, string(hash))
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		result, err = s.issueTokens(txCtx, user)
		if err != nil {
			return fmt.Errorf("issue tokens: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	s.log.InfoContext(ctx, "user registered via password",
		slog.String("user_id", result.User.ID.String()),
		slog.String("role", result.User.Role.String()))

	s.bindSession(ctx, result.User, result.AccessToken)

	return result, nil
}
