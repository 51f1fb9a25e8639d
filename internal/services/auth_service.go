// internal/services/auth_service.go
package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthNotConfigured  = errors.New("admin login is not configured")
)

type AuthService struct {
	credentials models.AdminCredentials
	sessionTTL  time.Duration
	logger      *logrus.Logger
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewAuthService(credentials models.AdminCredentials, sessionTTL time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		credentials: credentials,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) Login(req *LoginRequest) (*Session, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !s.credentials.Configured() {
		return nil, ErrAuthNotConfigured
	}
	if !s.credentials.Check(req.Username, req.Password) {
		s.logger.WithField("username", req.Username).Warn("Failed admin login")
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateSessionToken(req.Username, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("username", req.Username).Info("Admin logged in")
	return &Session{
		Token:     token,
		Username:  req.Username,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}, nil
}

// ValidateSession checks a cookie value and returns the admin's name.
func (s *AuthService) ValidateSession(token string) (string, error) {
	claims, err := utils.ValidateSessionToken(token)
	if err != nil {
		return "", err
	}
	if claims.Username != s.credentials.Username {
		return "", ErrInvalidCredentials
	}
	return claims.Username, nil
}
