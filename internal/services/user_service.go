package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/models"
)

// UserService handles registration, login and profiles
type UserService struct {
	db    *gorm.DB
	media *media.Service
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, mediaService *media.Service) *UserService {
	return &UserService{db: db, media: mediaService}
}

// RegisterInput carries a registration submission
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Role      string
	StudentID string
	Phone     string
}

// Register creates a new account. Staff accounts cannot be self-assigned.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	v := &validator{}

	username := v.require("username", in.Username)
	v.maxLen("username", username, 150)
	email := strings.ToLower(v.require("email", in.Email))
	if email != "" && !strings.Contains(email, "@") {
		v.add("email", "must be a valid email address")
	}
	if len(in.Password) < 8 {
		v.add("password", "must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	v.oneOf("role", role, []string{models.RoleStudent, models.RoleVendor})
	if err := v.err(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "username is already taken"}
	}
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "email is already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if in.StudentID != "" {
		user.StudentID = &in.StudentID
	}
	if in.Phone != "" {
		user.PhoneNumber = &in.Phone
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a JWT for the session
func (s *UserService) Login(username, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, wrapNotFound(err, "user", id)
	}
	return &user, nil
}

// ProfileInput carries the editable profile fields
type ProfileInput struct {
	StudentID string
	Phone     string
	Bio       string
}

// UpdateProfile edits a profile. Users edit their own; staff can edit any.
func (s *UserService) UpdateProfile(actor auth.Actor, userID uint, in ProfileInput) (*models.User, error) {
	if !actor.CanMutate(userID) {
		return nil, &PermissionError{Op: "update profile"}
	}

	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	v := &validator{}
	v.maxLen("student_id", in.StudentID, 20)
	v.maxLen("phone", in.Phone, 15)
	if err := v.err(); err != nil {
		return nil, err
	}

	user.StudentID = optional(in.StudentID)
	user.PhoneNumber = optional(in.Phone)
	user.Bio = optional(in.Bio)

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar swaps the profile picture, scheduling deletion of the old one
func (s *UserService) SetAvatar(actor auth.Actor, userID uint, avatarID string) (*models.User, error) {
	if !actor.CanMutate(userID) {
		return nil, &PermissionError{Op: "update avatar"}
	}

	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	oldAvatar := user.AvatarID
	user.AvatarID = avatarID
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	if avatarID != oldAvatar {
		s.media.Replace(oldAvatar, avatarID)
	}
	return user, nil
}

// Deactivate disables an account instead of deleting it, so owned listings
// keep a resolvable owner.
func (s *UserService) Deactivate(actor auth.Actor, userID uint) error {
	if !actor.CanMutate(userID) {
		return &PermissionError{Op: "deactivate account"}
	}

	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	return s.db.Save(user).Error
}

// List returns every account for the moderation backend. Staff only.
func (s *UserService) List(actor auth.Actor) ([]models.User, error) {
	if !actor.CanReviewReports() {
		return nil, &PermissionError{Op: "list users"}
	}

	var users []models.User
	err := s.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
