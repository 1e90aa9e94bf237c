package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aradsms/contactbook/internal/auth_service/domain"
	"github.com/aradsms/contactbook/internal/platform/apperror"
)

const tokenIssuer = "contactbook-auth"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type AuthConfig struct {
	JWTSecret      string
	JWTExpiryHours int
}

// Claims is the access token payload. Subject carries the username.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo domain.UserRepository
	config   AuthConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthService(userRepo domain.UserRepository, config AuthConfig, logger *slog.Logger) *AuthService {
	if config.JWTExpiryHours <= 0 {
		config.JWTExpiryHours = 1
	}
	return &AuthService{
		userRepo: userRepo,
		config:   config,
		logger:   logger.With("service_component", "AuthService"),
		now:      time.Now,
	}
}

func credentialsError(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return apperror.NewValidationError("credentials", "Please enter username and password")
	}
	return nil
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if err := credentialsError(username, password); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", "error", err, "username", username)
		return nil, errors.New("failed to process registration")
	}

	u := &domain.User{Username: username, PasswordHash: hashedPassword, CreatedAt: s.now().UTC()}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrUsernameExists) {
			s.logger.WarnContext(ctx, "Registration for taken username", "username", username)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "User registered", "user_id", u.ID, "username", username)
	return u, nil
}

// Login checks the credentials and returns a signed access token.
// Empty input is rejected before storage is touched.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if err := credentialsError(username, password); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "Login for unknown user", "username", username)
			return "", nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "Error fetching user by username", "error", err, "username", username)
		return "", nil, err
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		s.logger.InfoContext(ctx, "Login with wrong password", "user_id", user.ID)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sign access token", "error", err, "user_id", user.ID)
		return "", nil, errors.New("token generation error")
	}
	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour * time.Duration(s.config.JWTExpiryHours))),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
}

// ValidateToken parses an access token issued by Login.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
