package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newAuthServiceFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()

	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	service := NewAuthService(
		zerolog.Nop(),
		users,
		sessions,
		"go-task-tracker-test",
		[]byte("test-signing-key"),
		15*time.Minute,
		24*time.Hour,
	)
	return service, users, sessions
}

func registerParams(username string) RegisterParams {
	return RegisterParams{
		Username:    username,
		Password:    "secret-password",
		Email:       username + "@example.com",
		Fingerprint: "fp-1",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)

	result, err := service.Register(context.Background(), registerParams("alice"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if users.count() != 1 {
		t.Fatalf("expected 1 stored user, got %d", users.count())
	}

	stored, err := users.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get stored user: %v", err)
	}
	if stored.PasswordHash == "secret-password" {
		t.Fatal("plaintext password stored")
	}

	login, err := service.Login(context.Background(), LoginParams{
		Username:    "alice",
		Password:    "secret-password",
		Fingerprint: "fp-1",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.UserID != result.UserID {
		t.Fatalf("login user %q, want %q", login.UserID, result.UserID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, users, _ := newAuthServiceFixture(t)

	if _, err := service.Register(context.Background(), registerParams("alice")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	params := registerParams("alice")
	params.Email = "other@example.com"
	_, err := service.Register(context.Background(), params)
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
	if users.count() != 1 {
		t.Fatalf("expected exactly 1 user after the conflict, got %d", users.count())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	if _, err := service.Register(context.Background(), registerParams("alice")); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := service.Login(context.Background(), LoginParams{
		Username:    "alice",
		Password:    "not-the-password",
		Fingerprint: "fp-1",
	})
	if !errors.Is(err, ErrUserPasswordMismatch) {
		t.Fatalf("expected ErrUserPasswordMismatch, got %v", err)
	}
}

func TestLoginUnknownUsername(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	_, err := service.Login(context.Background(), LoginParams{
		Username:    "nobody",
		Password:    "whatever-pass",
		Fingerprint: "fp-1",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLoginIsCaseSensitive(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	if _, err := service.Register(context.Background(), registerParams("alice")); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := service.Login(context.Background(), LoginParams{
		Username:    "Alice",
		Password:    "secret-password",
		Fingerprint: "fp-1",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for case-differing username, got %v", err)
	}
}

func TestLogoutInvalidatesSessions(t *testing.T) {
	service, _, sessions := newAuthServiceFixture(t)

	result, err := service.Register(context.Background(), registerParams("alice"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sessions.count() != 1 {
		t.Fatalf("expected 1 session after register, got %d", sessions.count())
	}

	if err := service.Logout(context.Background(), result.UserID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.count() != 0 {
		t.Fatalf("expected no sessions after logout, got %d", sessions.count())
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	result, err := service.Register(context.Background(), registerParams("alice"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := service.Refresh(context.Background(), RefreshParams{
		RefreshToken: result.RefreshToken,
		Fingerprint:  "fp-1",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == result.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The old token is gone after rotation.
	_, err = service.Refresh(context.Background(), RefreshParams{
		RefreshToken: result.RefreshToken,
		Fingerprint:  "fp-1",
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for stale token, got %v", err)
	}
}

func TestRefreshWrongFingerprint(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	result, err := service.Register(context.Background(), registerParams("alice"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = service.Refresh(context.Background(), RefreshParams{
		RefreshToken: result.RefreshToken,
		Fingerprint:  "fp-other",
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestParseJWTTokenRoundTrip(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	result, err := service.Register(context.Background(), registerParams("alice"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := service.ParseJWTToken(result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != result.SessionID {
		t.Fatalf("token subject %q, want session %q", claims.Subject, result.SessionID)
	}
}
