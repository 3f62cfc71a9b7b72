package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"social_games_backend/logging"
	"social_games_backend/models"
	"social_games_backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenTTL = 365 * 24 * time.Hour

// ErrInvalidRefreshToken is returned for unknown or expired refresh tokens.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// AuthMiddleware creates a gin middleware for JWT authentication
func AuthMiddleware(users repository.UserRepository, tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Authorization header must be in the format: Bearer {token}")
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			logging.FromContext(c).Warn("token validation failed", "error", err)
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			abort(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			logging.FromContext(c).LogError(err, "failed to load user", "user_id", claims.UserID)
			abort(c, http.StatusInternalServerError, "Failed to load user")
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "0", "message": message, "error": ""})
}

// TokenService handles token generation and validation
type TokenService struct {
	tokens    repository.TokenRepository
	jwtSecret []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(tokens repository.TokenRepository, jwtSecret []byte, accessTTL time.Duration) *TokenService {
	return &TokenService{
		tokens:    tokens,
		jwtSecret: jwtSecret,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// GenerateTokens creates a new access and refresh token pair
func (s *TokenService) GenerateTokens(ctx context.Context, userID int) (*models.TokenPair, error) {
	now := s.now()
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	refreshToken := hex.EncodeToString(bytes)

	if err := s.tokens.Store(ctx, userID, refreshToken, now.Add(refreshTokenTTL)); err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: accessTokenString, RefreshToken: refreshToken}, nil
}

// ParseAccessToken verifies an HS256 access token and returns its claims.
func (s *TokenService) ParseAccessToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ValidateRefreshToken checks if a refresh token is valid and returns the user ID
func (s *TokenService) ValidateRefreshToken(ctx context.Context, refreshToken string) (int, error) {
	userID, err := s.tokens.UserIDForToken(ctx, refreshToken)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrInvalidRefreshToken
	}
	return userID, err
}

// InvalidateRefreshToken invalidates a refresh token
func (s *TokenService) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	return s.tokens.Delete(ctx, refreshToken)
}

// RevokeRefreshToken deletes a refresh token owned by userID. Tokens issued to
// other users are left untouched.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, userID int, refreshToken string) error {
	return s.tokens.DeleteForUser(ctx, userID, refreshToken)
}

// VerifyPassword checks if a password matches the hashed version
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
