package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"absensi/constants"
	"absensi/dto"
	apperrors "absensi/errors"
	"absensi/models"
	"absensi/services/logger"
	"absensi/validator"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates a Google ID token for the given audience.
type GoogleVerifier func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type AuthServiceOptions struct {
	Users          UserStore
	Tokens         *TokenManager
	Logger         logger.Logger
	GoogleClientID string
	GoogleVerifier GoogleVerifier
}

type AuthService struct {
	users          UserStore
	tokens         *TokenManager
	logger         logger.Logger
	googleClientID string
	verifyGoogle   GoogleVerifier
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		users:          opts.Users,
		tokens:         opts.Tokens,
		logger:         opts.Logger,
		googleClientID: opts.GoogleClientID,
		verifyGoogle:   opts.GoogleVerifier,
	}
	if s.logger == nil {
		s.logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if s.verifyGoogle == nil {
		s.verifyGoogle = idtoken.Validate
	}
	return s
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a USER account. Duplicate emails fail with ErrUserExists.
func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*models.User, error) {
	if err := validator.ValidateRegister(&input); err != nil {
		return nil, err
	}
	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal("Gagal memproses password", err)
	}
	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     constants.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			return nil, apperrors.ErrUserExists
		}
		s.logger.Error("register failed email=%s: %v", input.Email, err)
		return nil, apperrors.Internal("Gagal mendaftarkan user", err)
	}
	s.logger.Info("registered user_id=%d", user.ID)
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Internal("Gagal membaca user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

// LoginWithGoogle signs in (creating the account on first use) from a Google ID token.
func (s *AuthService) LoginWithGoogle(ctx context.Context, rawToken string) (*models.User, string, error) {
	payload, err := s.verifyGoogle(ctx, rawToken, s.googleClientID)
	if err != nil {
		return nil, "", apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token Google tidak valid", err)
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, "", apperrors.ErrInvalidToken
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		user, err = s.createGoogleUser(ctx, name, email, picture)
	}
	if err != nil {
		s.logger.Error("google login failed email=%s: %v", email, err)
		return nil, "", apperrors.Internal("Gagal login dengan Google", err)
	}
	return s.issue(user)
}

func (s *AuthService) createGoogleUser(ctx context.Context, name, email, avatar string) (*models.User, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	hashed, err := HashPassword(hex.EncodeToString(buf))
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Avatar:   avatar,
		Role:     constants.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates an ADMIN account for email unless one is registered.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return false, err
	}
	if name == "" {
		name = "Administrator"
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     constants.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("created admin user_id=%d", admin.ID)
	return true, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, apperrors.Internal("Gagal membaca user", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*models.User, string, error) {
	token, err := s.tokens.GenerateToken(UserInfo{UserId: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", apperrors.Internal("Gagal membuat token", err)
	}
	return user, token, nil
}
