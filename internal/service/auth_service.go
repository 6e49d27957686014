package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"sownmark/internal/config"
	"sownmark/internal/models"
	"sownmark/internal/repository"
)

const RoleAdmin = "admin"

// AdminClaims is the bearer token payload issued at login.
type AdminClaims struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type SignupRequest struct {
	Username string
	Password string
	Email    string
}

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*models.Admin, error)
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(tokenString string) (*AdminClaims, error)
}

type authService struct {
	adminRepo repository.AdminRepository
	cfg       *config.Config
	log       *logrus.Logger
	now       func() time.Time
}

func NewAuthService(adminRepo repository.AdminRepository, cfg *config.Config, log *logrus.Logger) AuthService {
	return &authService{
		adminRepo: adminRepo,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*models.Admin, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" || req.Password == "" || email == "" {
		return nil, Validation("Username, password, and email are required")
	}
	if !validEmail(email) {
		return nil, Validation("Invalid email format")
	}

	// check username
	_, err := s.adminRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, Conflict("Username already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal("Internal server error", err)
	}

	// check email
	_, err = s.adminRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, Conflict("Email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, Internal("Internal server error", err)
	}

	admin := &models.Admin{Username: username, Email: email}
	err = s.adminRepo.CreateAdmin(ctx, admin, req.Password)
	switch {
	case err == nil:
	case repository.IsDuplicate(err, repository.AdminUsernameConstraint):
		return nil, Conflict("Username already exists")
	case repository.IsDuplicate(err, repository.AdminEmailConstraint):
		return nil, Conflict("Email already exists")
	default:
		return nil, Internal("Internal server error", err)
	}

	s.log.WithField("admin_id", admin.ID).Info("admin account created")
	return admin, nil
}

// Login answers "Invalid credentials" for both unknown users and wrong passwords.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", Validation("Username and password are required")
	}

	admin, err := s.adminRepo.VerifyPassword(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidPassword) {
			s.log.Warn("admin login rejected")
			return "", InvalidCredentials("Invalid credentials")
		}
		return "", Internal("Internal server error", err)
	}

	token, err := s.generateAccessToken(admin)
	if err != nil {
		return "", Internal("Internal server error", err)
	}

	s.log.WithField("admin_id", admin.ID).Info("admin logged in")
	return token, nil
}

func (s *authService) generateAccessToken(admin *models.Admin) (string, error) {
	now := s.now()
	ttl := s.cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	claims := AdminClaims{
		ID:   admin.ID,
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ValidateToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
