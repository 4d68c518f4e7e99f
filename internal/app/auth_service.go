package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/auth"
	"itboard/internal/domain/user"
	"itboard/internal/security"
)

type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type AuthService struct {
	users         user.Repository
	refreshTokens auth.RefreshTokenRepository
	analytics     analytics.Repository
	jwtProvider   *security.JWTProvider
	logger        Logger
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(users user.Repository, refreshTokens auth.RefreshTokenRepository, analytics analytics.Repository, jwtProvider *security.JWTProvider, logger Logger, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		analytics:     analytics,
		jwtProvider:   jwtProvider,
		logger:        logger,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type RegistrationResult struct {
	User   *user.User      `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (*RegistrationResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fields := map[string]string{}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "a valid email is required"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	normalizedRole, err := normalizeRoleValue(role)
	if err != nil {
		fields["role"] = "role must be engineer or company"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid registration", fields)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	hashed, err := security.HashPassword(password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	account, err := s.users.Create(ctx, user.User{Email: email, PasswordHash: hashed, Role: normalizedRole})
	if err != nil {
		return nil, err
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logInfo("user registered", "role", string(account.Role))
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.registered", UserID: &account.ID, Payload: analyticsPayload(ctx, map[string]string{"role": string(account.Role)})})
	return &RegistrationResult{User: account, Tokens: pair}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
		}
		return nil, nil, err
	}
	if !security.CheckPassword(account.PasswordHash, password) {
		return nil, nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.logged_in", UserID: &account.ID, Payload: analyticsPayload(ctx, nil)})
	return pair, account, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, token string) (*auth.TokenPair, *user.User, error) {
	stored, err := s.refreshTokens.GetByToken(ctx, token)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil, common.NewError(common.CodeUnauthorized, "refresh token unknown", nil)
		}
		return nil, nil, err
	}
	if stored.RevokedAt != nil {
		// A revoked token being presented again means it leaked; cut off
		// every session for the account.
		if err := s.refreshTokens.RevokeAll(ctx, stored.UserID, time.Now().UTC().Unix()); err != nil {
			return nil, nil, err
		}
		s.logInfo("refresh token reuse detected", "user_id", stored.UserID.String())
		return nil, nil, common.NewError(common.CodeUnauthorized, "refresh token revoked", nil)
	}
	if stored.ExpiresAt.Before(time.Now().UTC()) {
		return nil, nil, common.NewError(common.CodeUnauthorized, "refresh token expired", nil)
	}
	account, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.refreshTokens.Revoke(ctx, token, time.Now().UTC().Unix()); err != nil {
		return nil, nil, err
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.token_refreshed", UserID: &account.ID, Payload: analyticsPayload(ctx, nil)})
	return pair, account, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.refreshTokens.Revoke(ctx, token, time.Now().UTC().Unix())
	if err == nil {
		s.logInfo("user logged out")
		_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.logged_out", Payload: analyticsPayload(ctx, nil)})
	}
	return err
}

func (s *AuthService) issueTokens(ctx context.Context, account *user.User) (*auth.TokenPair, error) {
	accessToken, expiresAt, err := s.jwtProvider.Generate(account.ID, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate access token", err)
	}
	refreshValue, err := generateRefreshToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	refresh := auth.RefreshToken{
		ID:        common.NewUUID(),
		UserID:    account.ID,
		Token:     refreshValue,
		Role:      string(account.Role),
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.refreshTokens.Store(ctx, refresh); err != nil {
		return nil, err
	}
	return &auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshValue, ExpiresAt: expiresAt}, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}

func normalizeRoleValue(value string) (user.Role, error) {
	normalized := user.Role(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case user.RoleEngineer, user.RoleCompany:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid role", map[string]string{"role": "role must be engineer or company"})
	}
}

func (s *AuthService) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
