package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/config"
	"github.com/shenikar/fire_command_center/internal/models"
)

const loginAttemptsKeyPrefix = "login_attempts:"

// AdminUser - оператор, которого возвращает успешный вход
var AdminUser = models.User{
	ID:   "u-1",
	Name: "Administrador",
	Role: "Comandante Operacional",
}

type authService struct {
	attempts AttemptCounter
	logger   *logrus.Logger
	cfg      *config.Config
}

func NewAuthService(attempts AttemptCounter, logger *logrus.Logger, cfg *config.Config) AuthService {
	return &authService{
		attempts: attempts,
		logger:   logger,
		cfg:      cfg,
	}
}

// Login проверяет учетные данные. Попытки с одного IP ограничены
// LoginRateLimit за LoginWindow, успешные тоже учитываются.
func (s *authService) Login(ctx context.Context, clientIP, username, password string) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "auth",
		"method":    "Login",
		"client_ip": clientIP,
	})

	count, err := s.attempts.Incr(ctx, loginAttemptsKeyPrefix+clientIP, s.cfg.LoginWindow)
	if err != nil {
		// Без Redis вход не блокируем
		log.WithError(err).Warn("Failed to count login attempt")
	} else if count > int64(s.cfg.LoginRateLimit) {
		log.WithField("attempts", count).Warn("Login rate limit exceeded")
		return nil, ErrTooManyAttempts
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		log.Warn("Invalid credentials")
		return nil, fmt.Errorf("service: login failed: %w", ErrInvalidCredentials)
	}

	user := AdminUser
	log.WithField("user_id", user.ID).Info("Operator logged in")
	return &user, nil
}
