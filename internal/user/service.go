// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Carlos130395/grow-analytics-backend/internal/auth"
	"github.com/Carlos130395/grow-analytics-backend/internal/core"
)

// TokenIssuer is the slice of the JWT manager the service needs.
type TokenIssuer interface {
	CreateSessionToken(claims auth.Claims) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// List returns one page of users plus the total count of records matching
// the filter regardless of pagination. Params must already be normalized by
// the caller.
func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	email := strings.ToLower(req.Email)

	// Fast-path duplicate check; the unique index on email closes the
	// remaining race between concurrent creates.
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &User{
		Username:      req.Username,
		Email:         email,
		FirstName:     req.FirstName,
		LastSurname:   req.LastSurname,
		SecondSurname: req.SecondSurname,
		PasswordHash:  passwordHash,
		Role:          role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update applies partial field replacement. A supplied password goes
// through the hasher before it is written; it is never persisted plain.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastSurname != nil {
		user.LastSurname = *req.LastSurname
	}
	if req.SecondSurname != nil {
		user.SecondSurname = *req.SecondSurname
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		passwordHash, hashErr := core.HashPassword(*req.Password)
		if hashErr != nil {
			return nil, fmt.Errorf("hash password: %w", hashErr)
		}
		user.PasswordHash = passwordHash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the record permanently and returns it as confirmation.
func (s *Service) Delete(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials and issues a session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (string, *User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention, result discarded
			_, _ = core.VerifyPasswordTimingSafe(password, nil)
			return "", nil, fmt.Errorf(
				"authenticate: %w",
				core.ErrUnauthorized,
			)
		}
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(password, &user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return "", nil, fmt.Errorf("authenticate: %w", core.ErrUnauthorized)
	}

	token, err := s.tokens.CreateSessionToken(auth.Claims{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return "", nil, fmt.Errorf("create session token: %w", err)
	}

	return token, user, nil
}
