package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

type mockUserRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[int64]*models.User
	nextID       int64
	createErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[int64]*models.User),
		nextID:       1,
	}
}

func (m *mockUserRepo) add(user *models.User) {
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.nextID
	m.nextID++
	m.add(user)
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.usersByEmail[email]
	return ok, nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessSecret:  "access_secret",
		RefreshSecret: "refresh_secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
	}
}

func newTestAuthService(repo authUserRepository) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())
}

func parseClaims(t *testing.T, token, secret string) *models.JWTClaims {
	t.Helper()
	parsed, err := jwt.ParseWithClaims(token, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*models.JWTClaims)
	require.True(t, ok)
	return claims
}

func TestAuthServiceSignup(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)

	res, err := svc.Signup(context.Background(), models.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)

	stored := repo.usersByEmail["alice@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

	assert.Equal(t, stored.ID, res.User.ID)
	assert.Equal(t, models.RoleTeacher, res.User.Role)

	claims := parseClaims(t, res.AccessToken, "access_secret")
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(&models.User{ID: 1, Email: "taken@example.com", Role: models.RoleAdmin})
	svc := newTestAuthService(repo)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Name:     "Bob",
		Email:    "taken@example.com",
		Password: "password123",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestAuthServiceSignupInvalidRole(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "password123",
		Role:     "principal",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.NotEmpty(t, appErr.Details)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := newMockUserRepo()
	repo.add(&models.User{ID: 7, Name: "User", Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleAdmin})
	svc := newTestAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	accessClaims := parseClaims(t, res.AccessToken, "access_secret")
	assert.Equal(t, int64(7), accessClaims.UserID)
	assert.Equal(t, models.RoleAdmin, accessClaims.Role)

	refreshClaims := parseClaims(t, res.RefreshToken, "refresh_secret")
	assert.Equal(t, int64(7), refreshClaims.UserID)

	validated, err := svc.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), validated.UserID)
}

func TestAuthServiceLoginGenericFailure(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := newMockUserRepo()
	repo.add(&models.User{ID: 1, Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleAdmin})
	svc := newTestAuthService(repo)

	_, wrongPassword := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "nope"})
	require.Error(t, wrongPassword)
	_, unknownEmail := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	require.Error(t, unknownEmail)

	// Unknown email and wrong password must be indistinguishable.
	assert.Equal(t, appErrors.FromError(wrongPassword).Message, appErrors.FromError(unknownEmail).Message)
	assert.Equal(t, appErrors.FromError(wrongPassword).Status, appErrors.FromError(unknownEmail).Status)
}

func TestAuthServiceRefresh(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := newMockUserRepo()
	repo.add(&models.User{ID: 3, Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleTeacher})
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims := parseClaims(t, pair.AccessToken, "access_secret")
	assert.Equal(t, int64(3), claims.UserID)
}

func TestAuthServiceRefreshRejectsAccessToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := newMockUserRepo()
	repo.add(&models.User{ID: 3, Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleTeacher})
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)

	// An access token is signed with a different secret and must not be
	// usable to mint a new pair.
	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.AccessToken})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceRefreshDeletedAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := newMockUserRepo()
	user := &models.User{ID: 9, Email: "user@example.com", PasswordHash: string(hash), Role: models.RoleStudent}
	repo.add(user)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)

	delete(repo.usersByID, user.ID)
	delete(repo.usersByEmail, user.Email)

	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateExpiredToken(t *testing.T) {
	repo := newMockUserRepo()
	cfg := testAuthConfig()
	cfg.AccessExpiry = -time.Minute
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), cfg)

	user := &models.User{ID: 1, Email: "user@example.com", Role: models.RoleAdmin}
	pair, err := svc.issueTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
	assert.NotEqual(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestAuthServiceValidateWrongSecret(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())
	user := &models.User{ID: 1, Email: "user@example.com", Role: models.RoleAdmin}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("not_the_secret"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())
	user := &models.User{ID: 42, Email: "round@example.com", Role: models.RoleTeacher}

	pair, err := svc.issueTokenPair(user)
	require.NoError(t, err)

	claims, err := svc.verifyToken(pair.AccessToken, "access_secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)

	_, err = svc.verifyToken(pair.AccessToken, "wrong_secret")
	require.Error(t, err)
}
