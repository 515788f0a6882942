package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/gravity-notes/gravity/errors"
	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/infrastructure/cache"
	"github.com/gravity-notes/gravity/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail map[string]*entities.User
	byID    map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*entities.User),
		byID:    make(map[uuid.UUID]*entities.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if user, ok := r.byID[id]; ok {
		user.MarkLogin()
	}
	return nil
}

func newTestService(repo *fakeUserRepo) *Service {
	manager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(repo, cache.NewMemoryStore(), manager, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "ana@example.com", "secret-password", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int((15 * time.Minute).Seconds()), pair.ExpiresIn)
	// never store the plain password
	assert.NotEqual(t, "secret-password", user.PasswordHash)

	loggedIn, pair2, err := svc.Login(ctx, "ana@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair2.AccessToken)
	assert.NotNil(t, loggedIn.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "ana@example.com", "secret-password", "Ana")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "ana@example.com", "other-password", "Ana2")
	require.Error(t, err)
	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_AUTH_USER_ALREADY_EXISTS, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "ana@example.com", "secret-password", "Ana")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ana@example.com", "wrong")
	require.Error(t, err)
	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_AUTH_INVALID_CREDENTIALS, appErr.Code)
}

func TestRefreshRotatesAccessToken(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "ana@example.com", "secret-password", "Ana")
	require.NoError(t, err)

	access, expiresIn, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.Equal(t, int((15 * time.Minute).Seconds()), expiresIn)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "ana@example.com", "secret-password", "Ana")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
}

func TestValidateSession(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "ana@example.com", "secret-password", "Ana")
	require.NoError(t, err)

	got, err := svc.ValidateSession(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// a deleted user invalidates otherwise valid tokens
	delete(repo.byID, user.ID)
	_, err = svc.ValidateSession(ctx, pair.AccessToken)
	require.Error(t, err)
}

func TestValidateSessionRejectsGarbage(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	_, err := svc.ValidateSession(context.Background(), "not-a-token")
	require.Error(t, err)
}
