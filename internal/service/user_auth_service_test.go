package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/models"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	cfg := &config.Config{
		UserJWT: config.JWTConfig{
			SecretKey:   "user-auth-test-secret-0123456789abcdef",
			ExpireHours: 2,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterNormalizesAndSignsIn(t *testing.T) {
	authService, _ := setupUserAuthServiceTest(t)

	user, token, expiresAt, err := authService.Register("  Shopper@Example.COM ", "Sup3rSafe", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "shopper@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.DisplayName != "shopper" {
		t.Fatalf("expected display name derived from email, got %s", user.DisplayName)
	}
	if user.Status != constants.UserStatusActive {
		t.Fatalf("expected active status, got %s", user.Status)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected a live token, got expiry %v", expiresAt)
	}

	claims, err := authService.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.TokenVersion != user.TokenVersion {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, _, err := authService.Register("shopper@example.com", "An0therPass", "x"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	authService, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := authService.Register("not-an-email", "Sup3rSafe", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad email, got %v", err)
	}
	if _, _, _, err := authService.Register("a@b.test", "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for short password, got %v", err)
	}
	if _, _, _, err := authService.Register("a@b.test", "alllowercase1", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword without uppercase, got %v", err)
	}
	if _, _, _, err := authService.Register("a@b.test", "NoNumbersHere", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword without number, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	authService, db := setupUserAuthServiceTest(t)
	if _, _, _, err := authService.Register("login@example.com", "Sup3rSafe", "Login Tester"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := authService.Login("login@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := authService.Login("unknown@example.com", "Sup3rSafe"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	user, token, _, err := authService.Login("Login@Example.com", "Sup3rSafe")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user.LastLoginAt == nil {
		t.Fatalf("expected token and last login stamp")
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := authService.Login("login@example.com", "Sup3rSafe"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestChangePasswordRevokesOutstandingTokens(t *testing.T) {
	authService, _ := setupUserAuthServiceTest(t)
	user, token, _, err := authService.Register("rotate@example.com", "Sup3rSafe", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	oldClaims, err := authService.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}

	if err := authService.ChangePassword(user.ID, "wrong-old", "N3wPassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := authService.ChangePassword(user.ID, "Sup3rSafe", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := authService.ChangePassword(9999, "Sup3rSafe", "N3wPassword"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := authService.ChangePassword(user.ID, "Sup3rSafe", "N3wPassword"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	reloaded, err := authService.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if reloaded.TokenVersion != oldClaims.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", reloaded.TokenVersion)
	}
	if reloaded.TokenInvalidBefore == nil {
		t.Fatalf("expected token_invalid_before to be set")
	}

	if _, _, _, err := authService.Login("rotate@example.com", "Sup3rSafe"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, _, _, err := authService.Login("rotate@example.com", "N3wPassword"); err != nil {
		t.Fatalf("new password login failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	authService, _ := setupUserAuthServiceTest(t)
	user, _, _, err := authService.Register("profile@example.com", "Sup3rSafe", "Before")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := authService.UpdateProfile(user.ID, "   "); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}
	if _, err := authService.UpdateProfile(9999, "After"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	updated, err := authService.UpdateProfile(user.ID, "  After  ")
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "After" {
		t.Fatalf("expected trimmed display name, got %q", updated.DisplayName)
	}
}
