package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned when a presented token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = time.Hour

// resetTokenType marks reset tokens so they cannot double as bearer
// tokens, and vice versa.
const resetTokenType = "password-reset"

// tokenClaims extends the registered claims with the token's purpose.
// Bearer tokens leave Type empty.
type tokenClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, creds domain.Credentials) (*domain.User, string, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, string, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)

	// VerifyToken checks a bearer token and returns the user ID it carries.
	VerifyToken(token string) (string, error)

	// RequestPasswordReset issues a short-lived reset token for the
	// account behind email. There is no mailer, so the token is handed
	// back to the caller.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type authService struct {
	repo   repository.UserRepository
	secret []byte
	logger hclog.Logger
}

func NewAuthService(repo repository.UserRepository, secret []byte, logger hclog.Logger) AuthService {
	return &authService{
		repo:   repo,
		secret: secret,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, creds domain.Credentials) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("unable to hash password: %w", err)
	}

	user := &domain.User{
		Email:        creds.Email,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := s.repo.Add(ctx, user); err != nil {
		s.logger.Error("Unable to register user", "email", creds.Email, "error", err)
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", "email", user.Email)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, creds.Email)
	if err != nil {
		// Same failure for unknown email and bad password.
		return nil, "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Debug("User logged in", "email", user.Email)
	return user, token, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *authService) VerifyToken(tokenString string) (string, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil || claims.Type != "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := s.signToken(user.ID, resetTokenType, ResetTokenTTL)
	if err != nil {
		return "", err
	}

	s.logger.Info("Password reset requested", "email", user.Email)
	return token, nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.parseToken(token)
	if err != nil || claims.Type != resetTokenType {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, claims.Subject, hash); err != nil {
		return err
	}

	s.logger.Info("Password reset", "userID", claims.Subject)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(currentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("Password changed", "email", user.Email)
	return nil
}

func (s *authService) parseToken(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) issueToken(userID string) (string, error) {
	return s.signToken(userID, "", TokenTTL)
}

func (s *authService) signToken(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: tokenType,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("unable to sign token: %w", err)
	}
	return token, nil
}
