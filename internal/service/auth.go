package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/hash"
	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/mykafka"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/tokens"
	"github.com/vmkazarin/online_store/internal/transport"
)

const minPasswordLen = 8

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Manager
	Producer *mykafka.Producer
}

// TokenPair is what Login and Refresh hand back to the transport layer.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: pwHash,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("user_registered", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.Repo.UserByCredentials(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		l.Warn("login_refused", "reason", "account deactivated", "user_id", user.ID)
		return nil, fmt.Errorf("%w: account deactivated", ErrUnauthorized)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})

	l.Info("login_success", "user_id", user.ID)
	return pair, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a fresh
// pair is issued. A token that is expired, revoked or already rotated is
// refused, so a stolen token can be used at most once.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.ParseRefresh(rawRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account deactivated", ErrUnauthorized)
	}

	nextRefresh, nextClaims, err := s.Tokens.NewRefreshToken(user.ID)
	if err != nil {
		l.Error("refresh_error", "reason", "cannot mint refresh token", "error", err)
		return nil, err
	}
	stored := models.RefreshToken{
		Token:     tokens.Sha256Hex(nextRefresh),
		UserID:    user.ID,
		JTI:       nextClaims.ID,
		ExpiresAt: nextClaims.ExpiresAt.Unix(),
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, stored); err != nil {
		if errors.Is(err, repo.ErrRefreshUnusable) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refresh token expired or revoked", ErrUnauthorized)
		}
		return nil, err
	}

	accessToken, accessExp, err := s.Tokens.NewAccessToken(user.ID, user.Role)
	if err != nil {
		l.Error("refresh_error", "reason", "cannot mint access token", "error", err)
		return nil, err
	}

	l.Info("refresh_success", "user_id", user.ID)
	return &TokenPair{AccessToken: accessToken, RefreshToken: nextRefresh, AccessExp: accessExp}, nil
}

// LogOut revokes the presented refresh token. Access tokens stay valid until
// they expire; only the ability to mint new pairs is withdrawn.
func (s *AuthService) LogOut(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return fmt.Errorf("%w: refresh token required", ErrValidation)
	}
	return s.Repo.RevokeRefreshByHash(ctx, tokens.Sha256Hex(rawRefresh))
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, accessExp, err := s.Tokens.NewAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, claims, err := s.Tokens.NewRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	stored := models.RefreshToken{
		Token:     tokens.Sha256Hex(refreshToken),
		UserID:    user.ID,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	if err := s.Repo.AddRefreshToken(ctx, &stored); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, AccessExp: accessExp}, nil
}
