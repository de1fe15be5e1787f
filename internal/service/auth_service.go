package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"todolist/api/internal/config"
	"todolist/api/internal/ids"
	"todolist/api/internal/models"
	"todolist/api/internal/repository"
	"todolist/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserSuspended      = errors.New("account suspended")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// ValidationError carries the field it belongs to so handlers can
// surface field-level messages the way the registration form expects.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	IPAddress   string
	UserAgent   string
}

type AuthResult struct {
	Token string
	User  models.User
}

func ValidateRegistration(input RegisterInput) error {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return ValidationError{Field: "name", Message: "Name is required"}
	case len(name) < 2:
		return ValidationError{Field: "name", Message: "Name must be at least 2 characters"}
	}

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		return ValidationError{Field: "email", Message: "Email is required"}
	case !emailPattern.MatchString(email):
		return ValidationError{Field: "email", Message: "Please enter a valid email"}
	}

	switch {
	case input.Password == "":
		return ValidationError{Field: "password", Message: "Password is required"}
	case len(input.Password) < 6:
		return ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}

	phone := strings.TrimSpace(input.PhoneNumber)
	switch {
	case phone == "":
		return ValidationError{Field: "phone_number", Message: "Phone number is required"}
	case !phonePattern.MatchString(phone):
		return ValidationError{Field: "phone_number", Message: "Please enter a valid phone number"}
	}

	return nil
}

// Register always creates a regular user. The wire request carries a
// role field for compatibility but it is never honored; admins are
// provisioned out of band.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if err := ValidateRegistration(input); err != nil {
		return AuthResult{}, err
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	return s.createSession(ctx, user, input.IPAddress, input.UserAgent)
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if user.Status != models.UserStatusActive {
		return AuthResult{}, ErrUserSuspended
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.createSession(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) createSession(ctx context.Context, user models.User, ipAddress, userAgent string) (AuthResult, error) {
	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.cfg.Security.TokenTTL),
	}

	token, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		session.ID,
		user.Role,
		s.cfg.Security.TokenTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	if err := s.enforceSessionLimit(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("enforce session limit failed")
	}

	return AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) enforceSessionLimit(ctx context.Context, userID string) error {
	count, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= s.cfg.Security.MaxSessions {
		return nil
	}
	return s.sessions.DeleteOldest(ctx, userID, s.cfg.Security.MaxSessions)
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return nil
}

type UpdateProfileInput struct {
	Name        string
	Email       string
	PhoneNumber string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (models.User, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return models.User{}, ValidationError{Field: "name", Message: "Name must be at least 2 characters"}
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if !emailPattern.MatchString(email) {
		return models.User{}, ValidationError{Field: "email", Message: "Please enter a valid email"}
	}

	phone := strings.TrimSpace(input.PhoneNumber)
	if phone != "" && !phonePattern.MatchString(phone) {
		return models.User{}, ValidationError{Field: "phone_number", Message: "Please enter a valid phone number"}
	}

	if other, err := s.users.FindByEmail(ctx, email); err == nil && other.ID != userID {
		return models.User{}, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	if err := s.users.UpdateProfile(ctx, userID, name, email, phone); err != nil {
		return models.User{}, err
	}

	return s.users.GetByID(ctx, userID)
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	SessionID       string
}

// ChangePassword verifies the current password, rotates the hash and
// revokes every other session of the user.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if input.CurrentPassword == "" {
		return ValidationError{Field: "currentPassword", Message: "Current password is required"}
	}
	if len(input.NewPassword) < 6 {
		return ValidationError{Field: "newPassword", Message: "New password must be at least 6 characters"}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}

	hash, err := security.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.sessions.DeleteOthers(ctx, userID, input.SessionID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("revoke other sessions failed")
	}

	return nil
}
