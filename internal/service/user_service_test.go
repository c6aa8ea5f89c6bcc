package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/MarioTomas0209/system-order/internal/apperr"
	"github.com/MarioTomas0209/system-order/internal/model"
	"github.com/MarioTomas0209/system-order/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users         map[string]model.User // keyed by ID
	refreshTokens map[string]model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[string]model.User),
		refreshTokens: make(map[string]model.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID.String()] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := u
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UIDTaken(_ context.Context, uid string) (bool, error) {
	for _, u := range r.users {
		if u.UID == uid {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListVisible(_ context.Context, page, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range r.users {
		if u.IsVisible {
			result = append(result, u)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := r.users[user.ID.String()]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID.String()] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(_ context.Context, token *model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.refreshTokens[token.Token] = *token
	return nil
}

func (r *fakeUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	t, ok := r.refreshTokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	stored := t
	return &stored, nil
}

func (r *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(r.refreshTokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteExpiredRefreshTokens(_ context.Context, now time.Time) error {
	for k, t := range r.refreshTokens {
		if now.After(t.ExpiresAt) {
			delete(r.refreshTokens, k)
		}
	}
	return nil
}

func newUserService(repo *fakeUserRepo, store *memStore) service.UserService {
	return service.NewUserService(repo, &fakeOrderRepo{store: store})
}

func seedUser(repo *fakeUserRepo, email, password string, active bool) model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := model.User{
		ID:        uuid.New(),
		Name:      "Test User",
		Email:     email,
		Password:  string(hash),
		UID:       "abcDEF1234",
		IsActive:  active,
		IsVisible: true,
	}
	repo.users[user.ID.String()] = user
	return user
}

func TestCreateUser_HashesPasswordAndAssignsUID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	resp, err := svc.CreateUser(context.Background(), service.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.Len(t, resp.UID, 10)
	assert.True(t, resp.IsActive)

	stored := repo.users[resp.ID]
	assert.NotEqual(t, "supersecret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersecret")))
	assert.True(t, stored.IsVisible)
}

func TestCreateUser_DuplicateEmailConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	seedUser(repo, "ana@example.com", "password123", true)

	_, err := svc.CreateUser(context.Background(), service.CreateUserRequest{
		Name:     "Ana Again",
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	seedUser(repo, "ana@example.com", "password123", true)

	_, err := svc.Login(context.Background(), service.LoginUserRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	assert.Error(t, err)
}

func TestLogin_DeactivatedAccountRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	seedUser(repo, "ana@example.com", "password123", false)

	_, err := svc.Login(context.Background(), service.LoginUserRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deactivated")
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	seedUser(repo, "ana@example.com", "password123", true)

	tokens, err := svc.Login(context.Background(), service.LoginUserRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Contains(t, repo.refreshTokens, tokens.RefreshToken)
}

func TestRefreshToken_RotatesOldToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	seedUser(repo, "ana@example.com", "password123", true)

	tokens, err := svc.Login(context.Background(), service.LoginUserRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), service.RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.NoError(t, err)

	assert.NotEqual(t, tokens.RefreshToken, refreshed.RefreshToken)
	assert.NotContains(t, repo.refreshTokens, tokens.RefreshToken, "old refresh token must be consumed")
	assert.Contains(t, repo.refreshTokens, refreshed.RefreshToken)
}

func TestRefreshToken_ExpiredTokenRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	user := seedUser(repo, "ana@example.com", "password123", true)
	repo.refreshTokens["stale"] = model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := svc.RefreshToken(context.Background(), service.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.NotContains(t, repo.refreshTokens, "stale")
}

func TestDeleteUser_RefusedWhileOrdersExist(t *testing.T) {
	repo := newFakeUserRepo()
	store := newMemStore()
	svc := newUserService(repo, store)

	user := seedUser(repo, "ana@example.com", "password123", true)

	orderID := uuid.New()
	store.orders[orderID] = model.Order{ID: orderID, OrderCode: "ORD-100", CreatedBy: user.ID}

	err := svc.DeleteUser(context.Background(), user.ID.String())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, repo.users, user.ID.String())
}

func TestDeleteUser_SucceedsWithoutOrders(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	user := seedUser(repo, "ana@example.com", "password123", true)

	err := svc.DeleteUser(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.NotContains(t, repo.users, user.ID.String())
}

func TestUpdateUser_PasswordOnlyChangedWhenProvided(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	user := seedUser(repo, "ana@example.com", "password123", true)
	originalHash := user.Password

	_, err := svc.UpdateUser(context.Background(), user.ID.String(), service.UpdateUserRequest{
		Name:  "Ana Maria",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, originalHash, repo.users[user.ID.String()].Password)

	_, err = svc.UpdateUser(context.Background(), user.ID.String(), service.UpdateUserRequest{
		Name:     "Ana Maria",
		Email:    "ana@example.com",
		Password: "newpassword",
	})
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, repo.users[user.ID.String()].Password)
}

func TestListUsers_OnlyVisible(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, newMemStore())

	seedUser(repo, "ana@example.com", "password123", true)

	hidden := seedUser(repo, "system@example.com", "password123", true)
	hidden.IsVisible = false
	repo.users[hidden.ID.String()] = hidden

	users, total, err := svc.ListUsers(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "ana@example.com", users[0].Email)
}
