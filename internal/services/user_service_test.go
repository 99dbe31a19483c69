package services

import (
	"errors"
	"testing"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	auth.InitJWT("test-secret")
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewUserService(db, mediaService)

	user, err := service.Register(RegisterInput{
		Username: "ama",
		Email:    "Ama@Campus.Test",
		Password: "correct horse",
		Role:     models.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "ama@campus.test" {
		t.Errorf("expected the email lowercased, got %q", user.Email)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("expected the password hashed")
	}

	logged, token, err := service.Login("ama", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.ID != user.ID || token == "" {
		t.Error("expected a session token for the registered user")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.UserID != user.ID || claims.IsStaff {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, _, err := service.Login("ama", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := service.Login("nobody", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for an unknown user, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewUserService(db, mediaService)

	_, err := service.Register(RegisterInput{
		Username: "",
		Email:    "not-an-email",
		Password: "short",
	})
	for _, field := range []string{"username", "email", "password"} {
		assertValidationField(t, err, field)
	}

	// Staff accounts cannot be self-assigned
	_, err = service.Register(RegisterInput{
		Username: "sneaky",
		Email:    "sneaky@campus.test",
		Password: "long enough",
		Role:     models.RoleStaff,
	})
	assertValidationField(t, err, "role")
}

func TestRegisterUniqueness(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewUserService(db, mediaService)

	base := RegisterInput{
		Username: "kwame",
		Email:    "kwame@campus.test",
		Password: "long enough",
	}
	if _, err := service.Register(base); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var cerr *ConflictError
	dup := base
	dup.Email = "other@campus.test"
	if _, err := service.Register(dup); !errors.As(err, &cerr) {
		t.Errorf("expected ConflictError for a duplicate username, got %v", err)
	}

	dup = base
	dup.Username = "kwame2"
	if _, err := service.Register(dup); !errors.As(err, &cerr) {
		t.Errorf("expected ConflictError for a duplicate email, got %v", err)
	}
}

func TestProfileUpdateAndDeactivate(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewUserService(db, mediaService)

	user := createUser(t, db, "ama", models.RoleStudent)
	stranger := createUser(t, db, "esi", models.RoleStudent)

	var perr *PermissionError
	if _, err := service.UpdateProfile(actorFor(stranger), user.ID, ProfileInput{Bio: "hacked"}); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError for another user's profile, got %v", err)
	}

	updated, err := service.UpdateProfile(actorFor(user), user.ID, ProfileInput{
		StudentID: "10234567",
		Bio:       "third-year physics",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Bio == nil || *updated.Bio != "third-year physics" {
		t.Error("expected the bio stored")
	}
	if updated.PhoneNumber != nil {
		t.Error("expected the blank phone stored as null")
	}

	if err := service.Deactivate(actorFor(user), user.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	// Deactivation keeps the row so owned listings resolve
	got, err := service.Get(user.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected the account deactivated")
	}
	// Repeating is a no-op
	if err := service.Deactivate(actorFor(user), user.ID); err != nil {
		t.Errorf("repeated Deactivate failed: %v", err)
	}
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	auth.InitJWT("test-secret")
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewUserService(db, mediaService)

	user, err := service.Register(RegisterInput{
		Username: "ghost",
		Email:    "ghost@campus.test",
		Password: "long enough",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := service.Deactivate(actorFor(user), user.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	if _, _, err := service.Login("ghost", "long enough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for a deactivated account, got %v", err)
	}
}

func TestUserListIsStaffOnly(t *testing.T) {
	db := setupTestDB(t)
	mediaService, _ := newTestMedia()
	service := NewUserService(db, mediaService)

	user := createUser(t, db, "ama", models.RoleStudent)
	staff := createUser(t, db, "mod", models.RoleStaff)

	var perr *PermissionError
	if _, err := service.List(actorFor(user)); !errors.As(err, &perr) {
		t.Errorf("expected PermissionError for non-staff, got %v", err)
	}

	users, err := service.List(actorFor(staff))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected both accounts, got %d", len(users))
	}
}
