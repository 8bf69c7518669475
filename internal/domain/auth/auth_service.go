package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/config"
)

const tokenIssuer = "citytemp-api"

var _ Service = (*ServiceImpl)(nil)

// Token is an issued admin access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Service interface {
	Login(ctx context.Context, username, password string) (*Token, error)
}

// ServiceImpl checks the single configured admin account.
type ServiceImpl struct {
	logger       *slog.Logger
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(cfg config.AuthConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:       logger,
		username:     cfg.AdminUsername,
		passwordHash: []byte(cfg.AdminPasswordHash),
		secret:       []byte(cfg.JWTSecret),
		ttl:          cfg.TokenTTL,
		now:          time.Now,
	}
}

// HashPassword returns the bcrypt hash to put in auth.admin_password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *ServiceImpl) Login(ctx context.Context, username, password string) (*Token, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"))

	if len(s.secret) == 0 || len(s.passwordHash) == 0 {
		span.SetStatus(codes.Error, "Admin login disabled")
		l.WarnContext(ctx, "Admin login attempted but no credentials are configured")
		return nil, fmt.Errorf("%w: admin login is not configured", types.ErrForbidden)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// always pay for the hash comparison so timing does not reveal the username
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		if passErr != nil && !errors.Is(passErr, bcrypt.ErrMismatchedHashAndPassword) {
			l.ErrorContext(ctx, "Stored admin password hash is invalid", slog.Any("error", passErr))
		}
		l.InfoContext(ctx, "Admin login rejected", slog.String("username", username))
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, fmt.Errorf("%w: invalid username or password", types.ErrUnauthenticated)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   s.username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token signing failed")
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	l.InfoContext(ctx, "Admin logged in", slog.String("username", username))
	span.SetStatus(codes.Ok, "Token issued")
	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
