package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"social_games_backend/middleware"
	"social_games_backend/models"
	"social_games_backend/repository"
	"social_games_backend/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type memoryTokens struct {
	mu     sync.Mutex
	tokens map[string]int
}

func (m *memoryTokens) Store(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = userID
	return nil
}

func (m *memoryTokens) UserIDForToken(ctx context.Context, token string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[token]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (m *memoryTokens) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func (m *memoryTokens) DeleteForUser(ctx context.Context, userID int, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens[token] == userID {
		delete(m.tokens, token)
	}
	return nil
}

func setupAuthRouter(users *MockUserRepository) (*gin.Engine, *middleware.TokenService) {
	gin.SetMode(gin.TestMode)
	validation.RegisterGin()

	tokens := middleware.NewTokenService(&memoryTokens{tokens: map[string]int{}}, []byte("test-secret"), time.Hour)
	h := NewAuthHandler(users, tokens, Responder{ExposeErrors: true})
	u := NewUserHandler(Responder{})

	r := gin.New()
	r.POST("/register-user", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh", h.RefreshToken)
	r.POST("/logout", middleware.AuthMiddleware(users, tokens), h.Logout)
	r.GET("/me", middleware.AuthMiddleware(users, tokens), u.GetUserInfo)
	return r, tokens
}

func loginData(t *testing.T, env envelope) models.LoginResponse {
	t.Helper()
	var data models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestRegister(t *testing.T) {
	users := new(MockUserRepository)
	r, _ := setupAuthRouter(users)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ana@example.com" && u.PasswordHash != "" && u.PasswordHash != "password123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 5
	}).Return(nil)

	w := perform(r, http.MethodPost, "/register-user", `{"username":"ana","email":"Ana@Example.com","password":"password123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	data := loginData(t, decode(t, w))
	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.RefreshToken)
	assert.Equal(t, 5, data.User.ID)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	r, _ := setupAuthRouter(users)

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	w := perform(r, http.MethodPost, "/register-user", `{"username":"ana","email":"ana@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decode(t, w).Message)
}

func TestRegisterShortPassword(t *testing.T) {
	users := new(MockUserRepository)
	r, _ := setupAuthRouter(users)

	w := perform(r, http.MethodPost, "/register-user", `{"username":"ana","email":"ana@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	users := new(MockUserRepository)
	r, _ := setupAuthRouter(users)

	hash, err := middleware.HashPassword("password123")
	require.NoError(t, err)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(&models.User{ID: 5, Email: "ana@example.com", PasswordHash: hash}, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)

	w := perform(r, http.MethodPost, "/login", `{"email":"ana@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, loginData(t, decode(t, w)).User.ID)

	w = perform(r, http.MethodPost, "/login", `{"email":"ana@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodPost, "/login", `{"email":"nobody@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	users := new(MockUserRepository)
	r, tokens := setupAuthRouter(users)

	pair, err := tokens.GenerateTokens(context.Background(), 5)
	require.NoError(t, err)
	users.On("GetByID", mock.Anything, 5).Return(&models.User{ID: 5}, nil)

	body := map[string]string{"refresh_token": pair.RefreshToken}
	w := perform(r, http.MethodPost, "/refresh", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, pair.RefreshToken, loginData(t, decode(t, w)).RefreshToken)

	w = perform(r, http.MethodPost, "/refresh", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutAndMe(t *testing.T) {
	users := new(MockUserRepository)
	r, tokens := setupAuthRouter(users)

	pair, err := tokens.GenerateTokens(context.Background(), 5)
	require.NoError(t, err)
	users.On("GetByID", mock.Anything, 5).Return(&models.User{ID: 5, Username: "ana"}, nil)

	req := func(method, path, body string) *http.Request {
		rq := newJSONRequest(method, path, body)
		rq.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		return rq
	}

	w := serve(r, req(http.MethodGet, "/me", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &me))
	assert.Equal(t, "ana", me.Username)

	w = serve(r, req(http.MethodPost, "/logout", `{"refresh_token":"`+pair.RefreshToken+`"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out", decode(t, w).Message)

	_, err = tokens.ValidateRefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, middleware.ErrInvalidRefreshToken)
}

func TestLogoutLeavesOtherUsersTokens(t *testing.T) {
	users := new(MockUserRepository)
	r, tokens := setupAuthRouter(users)
	ctx := context.Background()

	mine, err := tokens.GenerateTokens(ctx, 5)
	require.NoError(t, err)
	theirs, err := tokens.GenerateTokens(ctx, 6)
	require.NoError(t, err)
	users.On("GetByID", mock.Anything, 5).Return(&models.User{ID: 5, Username: "ana"}, nil)

	rq := newJSONRequest(http.MethodPost, "/logout", `{"refresh_token":"`+theirs.RefreshToken+`"}`)
	rq.Header.Set("Authorization", "Bearer "+mine.AccessToken)
	w := serve(r, rq)
	assert.Equal(t, http.StatusOK, w.Code)

	owner, err := tokens.ValidateRefreshToken(ctx, theirs.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 6, owner)
}
