package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"renttracker/internal/caching"
	"renttracker/internal/models"
	"renttracker/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const sessionIssuer = "renttracker"

var ErrInvalidSession = errors.New("invalid or expired session")

// AuthService signs users in and out and resolves session tokens to principals.
type AuthService interface {
	Login(ctx context.Context, username, password, clientIP string) (*Session, error)
	ParseSession(ctx context.Context, token string) (*models.Principal, error)
	Logout(ctx context.Context, token string) error
}

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal *models.Principal
}

// SessionClaims are the JWT claims of a session cookie.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthConfig holds the session and rate limit settings.
type AuthConfig struct {
	Secret          string
	SessionTTL      time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type authService struct {
	users       repositories.UserRepository
	permissions repositories.PermissionRepository
	cacheSvc    caching.CacheService
	cfg         AuthConfig
	now         func() time.Time
}

func NewAuthService(users repositories.UserRepository, permissions repositories.PermissionRepository, cacheSvc caching.CacheService, cfg AuthConfig) AuthService {
	return &authService{
		users:       users,
		permissions: permissions,
		cacheSvc:    cacheSvc,
		cfg:         cfg,
		now:         time.Now,
	}
}

func loginAttemptsKey(clientIP string) string {
	return "login_attempts:" + clientIP
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

func (s *authService) Login(ctx context.Context, username, password, clientIP string) (*Session, error) {
	username = strings.TrimSpace(username)
	attemptsKey := loginAttemptsKey(clientIP)

	limited, err := s.cacheSvc.IsRateLimited(ctx, attemptsKey, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow)
	if err != nil {
		// a cache outage must not lock everyone out
		slog.Warn("login rate limit check failed", "err", err)
	}
	if limited {
		return nil, ErrRateLimited
	}

	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if incErr := s.cacheSvc.IncrementRateLimit(ctx, attemptsKey, s.cfg.LoginRateWindow); incErr != nil {
				slog.Warn("failed to count login attempt", "err", incErr)
			}
		}
		return nil, err
	}

	if err := s.cacheSvc.ResetRateLimit(ctx, attemptsKey); err != nil {
		slog.Warn("failed to reset login attempts", "err", err)
	}

	codenames, err := s.permissions.ListCodenamesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tokenID := uuid.NewString()
	claims := SessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign session")
	}

	principal := models.NewPrincipal(user, codenames)
	principal.TokenID = tokenID
	slog.Info("user signed in", "username", user.Username)

	return &Session{Token: signed, ExpiresAt: claims.ExpiresAt.Time, Principal: principal}, nil
}

// authenticate checks the password. Unknown users still pay for a bcrypt
// comparison so response time does not reveal which usernames exist.
func (s *authService) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("renttracker-dummy-password"), bcrypt.DefaultCost)
	return h
})

func (s *authService) parseClaims(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

func (s *authService) ParseSession(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.cacheSvc.Exists(ctx, revokedKey(claims.ID))
	if err != nil {
		slog.Warn("session revocation check failed", "err", err)
	}
	if revoked {
		return nil, ErrInvalidSession
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidSession
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidSession
	}

	// permissions are read per request so role changes apply immediately
	codenames, err := s.permissions.ListCodenamesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	principal := models.NewPrincipal(user, codenames)
	principal.TokenID = claims.ID
	return principal, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseClaims(token)
	if err != nil {
		// nothing to revoke
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cacheSvc.SetString(ctx, revokedKey(claims.ID), "1", ttl); err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}
	slog.Info("user signed out", "username", claims.Username)
	return nil
}

// HashPassword returns the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(h), nil
}
