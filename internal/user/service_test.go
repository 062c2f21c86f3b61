// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carlos130395/grow-analytics-backend/internal/auth"
	"github.com/Carlos130395/grow-analytics-backend/internal/core"
)

type fakeRepo struct {
	mu     sync.Mutex
	users  map[int64]User
	nextID int64

	listCalls  int
	lastParams ListUsersParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]User), nextID: 1}
}

func (f *fakeRepo) seed(u User) User {
	f.mu.Lock()
	defer f.mu.Unlock()

	u.ID = f.nextID
	f.nextID++
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) List(
	_ context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	f.lastParams = params

	var matched []User
	for _, u := range f.users {
		if params.Filter == "" || matchesFilter(&u, params.Filter) {
			matched = append(matched, u)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch params.SortBy {
		case "firstName":
			less = matched[i].FirstName < matched[j].FirstName
		case "email":
			less = matched[i].Email < matched[j].Email
		case "username":
			less = matched[i].Username < matched[j].Username
		default:
			less = matched[i].ID < matched[j].ID
		}
		if params.Order == "desc" {
			return !less
		}
		return less
	})

	total := len(matched)

	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func matchesFilter(u *User, filter string) bool {
	for _, field := range []string{
		u.Username,
		u.Email,
		u.FirstName,
		u.LastSurname,
		u.SecondSurname,
	} {
		if strings.Contains(field, filter) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) Create(_ context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	user.ID = f.nextID
	f.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = *user
	return nil
}

func (f *fakeRepo) Update(_ context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	user.UpdatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeIssuer struct {
	token      string
	err        error
	lastClaims auth.Claims
}

func (f *fakeIssuer) CreateSessionToken(claims auth.Claims) (string, error) {
	f.lastClaims = claims
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := core.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func seedUser(t *testing.T, repo *fakeRepo, firstName, email, password string) User {
	t.Helper()
	return repo.seed(User{
		Username:      strings.ToLower(firstName),
		Email:         email,
		FirstName:     firstName,
		LastSurname:   "Pérez",
		SecondSurname: "Gómez",
		PasswordHash:  mustHash(t, password),
		Role:          RoleUser,
	})
}

func validCreateRequest() CreateUserRequest {
	return CreateUserRequest{
		Username:      "jperez",
		Email:         "juan@example.com",
		Password:      "secreto1",
		FirstName:     "Juan",
		LastSurname:   "Pérez",
		SecondSurname: "Gómez",
	}
}

func TestServiceCreateHashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEqual(t, "secreto1", created.PasswordHash)

	valid, err := core.VerifyPassword("secreto1", created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)

	stored, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", stored.PasswordHash)
}

func TestServiceCreateDefaultsRole(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, RoleUser, created.Role)
	assert.NotZero(t, created.ID)
}

func TestServiceCreateDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	req := validCreateRequest()
	req.Username = "otro"
	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	_, total, err := svc.List(context.Background(), ListUsersParams{
		Page:     1,
		PageSize: 10,
		SortBy:   "id",
		Order:    "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestServiceCreateLowercasesEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	req := validCreateRequest()
	req.Email = "Juan@Example.COM"

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "juan@example.com", created.Email)
}

func TestServiceUpdatePartialFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	seeded := seedUser(t, repo, "Juan", "juan@example.com", "secreto1")

	newName := "Carlos"
	updated, err := svc.Update(context.Background(), seeded.ID, UpdateUserRequest{
		FirstName: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Carlos", updated.FirstName)
	assert.Equal(t, seeded.Email, updated.Email)
	assert.Equal(t, seeded.Username, updated.Username)
	assert.Equal(t, seeded.PasswordHash, updated.PasswordHash)
}

func TestServiceUpdateRehashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	seeded := seedUser(t, repo, "Juan", "juan@example.com", "secreto1")

	newPassword := "nuevo123"
	updated, err := svc.Update(context.Background(), seeded.ID, UpdateUserRequest{
		Password: &newPassword,
	})
	require.NoError(t, err)

	assert.NotEqual(t, newPassword, updated.PasswordHash)
	assert.NotEqual(t, seeded.PasswordHash, updated.PasswordHash)

	valid, err := core.VerifyPassword(newPassword, updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestServiceUpdateNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	name := "Carlos"
	_, err := svc.Update(context.Background(), 404, UpdateUserRequest{
		FirstName: &name,
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestServiceDeleteReturnsRecordThenNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	seeded := seedUser(t, repo, "Juan", "juan@example.com", "secreto1")

	deleted, err := svc.Delete(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, deleted.ID)
	assert.Equal(t, seeded.Email, deleted.Email)

	_, err = svc.GetByID(context.Background(), seeded.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Delete(context.Background(), seeded.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestServiceListPassesParamsThrough(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	params := ListUsersParams{
		Page:     3,
		PageSize: 25,
		SortBy:   "email",
		Order:    "desc",
		Filter:   "Juan",
	}

	_, _, err := svc.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, params, repo.lastParams)
}

func TestServiceAuthenticateSuccess(t *testing.T) {
	repo := newFakeRepo()
	issuer := &fakeIssuer{token: "signed-token"}
	svc := NewService(repo, issuer)

	seeded := seedUser(t, repo, "Juan", "juan@example.com", "secreto1")

	token, user, err := svc.Authenticate(
		context.Background(),
		"juan@example.com",
		"secreto1",
	)
	require.NoError(t, err)

	assert.Equal(t, "signed-token", token)
	assert.Equal(t, seeded.ID, user.ID)
	assert.Equal(t, auth.Claims{UserID: seeded.ID, Role: RoleUser}, issuer.lastClaims)
}

func TestServiceAuthenticateWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	seedUser(t, repo, "Juan", "juan@example.com", "secreto1")

	_, _, err := svc.Authenticate(
		context.Background(),
		"juan@example.com",
		"incorrecta9",
	)
	require.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestServiceAuthenticateUnknownEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{token: "tok"})

	_, _, err := svc.Authenticate(
		context.Background(),
		"nadie@example.com",
		"loquesea1",
	)
	require.ErrorIs(t, err, core.ErrUnauthorized)
}
