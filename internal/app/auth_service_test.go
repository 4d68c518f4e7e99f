package app

import (
	"context"
	"testing"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/user"
	"itboard/internal/security"
)

func newAuthService(users *fakeUserRepo, refresh *fakeRefreshTokenRepo) *AuthService {
	jwtProvider := security.NewJWTProvider("secret")
	return NewAuthService(users, refresh, noopAnalyticsRepo{}, jwtProvider, nil, time.Minute, time.Hour)
}

func TestAuthServiceRegister_Success(t *testing.T) {
	userRepo := newFakeUserRepo()
	refreshRepo := newFakeRefreshTokenRepo()
	service := newAuthService(userRepo, refreshRepo)

	result, err := service.Register(context.Background(), "dev@example.com", "supersecret", "engineer")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.User == nil || result.User.Email != "dev@example.com" {
		t.Fatalf("expected created user, got %+v", result.User)
	}
	if result.User.Role != user.RoleEngineer {
		t.Fatalf("expected engineer role, got %q", result.User.Role)
	}
	if result.User.PasswordHash == "supersecret" {
		t.Fatal("password stored in plaintext")
	}
	if result.Tokens == nil || result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected token pair to be issued")
	}
	if _, err := refreshRepo.GetByToken(context.Background(), result.Tokens.RefreshToken); err != nil {
		t.Fatalf("expected refresh token to be stored, got %v", err)
	}
}

func TestAuthServiceRegister_NormalizesEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newAuthService(userRepo, newFakeRefreshTokenRepo())

	result, err := service.Register(context.Background(), "  Dev@Example.COM ", "supersecret", "company")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.User.Email != "dev@example.com" {
		t.Fatalf("expected lowercased email, got %q", result.User.Email)
	}
}

func TestAuthServiceRegister_DuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newAuthService(userRepo, newFakeRefreshTokenRepo())

	if _, err := service.Register(context.Background(), "dev@example.com", "supersecret", "engineer"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	_, err := service.Register(context.Background(), "dev@example.com", "othersecret", "company")
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAuthServiceRegister_Validation(t *testing.T) {
	service := newAuthService(newFakeUserRepo(), newFakeRefreshTokenRepo())

	_, err := service.Register(context.Background(), "not-an-email", "short", "admin")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthServiceLogin_WrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newAuthService(userRepo, newFakeRefreshTokenRepo())

	if _, err := service.Register(context.Background(), "dev@example.com", "supersecret", "engineer"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	_, _, err := service.Login(context.Background(), "dev@example.com", "wrong-password")
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestAuthServiceLogin_UnknownEmail(t *testing.T) {
	service := newAuthService(newFakeUserRepo(), newFakeRefreshTokenRepo())

	_, _, err := service.Login(context.Background(), "nobody@example.com", "supersecret")
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestAuthServiceRefresh_RotatesToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	refreshRepo := newFakeRefreshTokenRepo()
	service := newAuthService(userRepo, refreshRepo)

	result, err := service.Register(context.Background(), "dev@example.com", "supersecret", "engineer")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	oldToken := result.Tokens.RefreshToken

	pair, account, err := service.Refresh(context.Background(), oldToken)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if account.ID != result.User.ID {
		t.Fatalf("expected same user, got %s", account.ID)
	}
	if pair.RefreshToken == oldToken {
		t.Fatal("expected a fresh refresh token")
	}

	_, _, err = service.Refresh(context.Background(), oldToken)
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected rotated token to be rejected, got %v", err)
	}
}

func TestAuthServiceRefresh_ReuseRevokesAllSessions(t *testing.T) {
	userRepo := newFakeUserRepo()
	refreshRepo := newFakeRefreshTokenRepo()
	service := newAuthService(userRepo, refreshRepo)

	result, err := service.Register(context.Background(), "dev@example.com", "supersecret", "engineer")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	oldToken := result.Tokens.RefreshToken

	pair, _, err := service.Refresh(context.Background(), oldToken)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	// presenting the rotated-out token again must kill the live session too
	if _, _, err := service.Refresh(context.Background(), oldToken); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	_, _, err = service.Refresh(context.Background(), pair.RefreshToken)
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected the current token to be revoked as well, got %v", err)
	}
}

func TestAuthServiceLogout_RevokesToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	refreshRepo := newFakeRefreshTokenRepo()
	service := newAuthService(userRepo, refreshRepo)

	result, err := service.Register(context.Background(), "dev@example.com", "supersecret", "engineer")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.Logout(context.Background(), result.Tokens.RefreshToken); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	_, _, err = service.Refresh(context.Background(), result.Tokens.RefreshToken)
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}
