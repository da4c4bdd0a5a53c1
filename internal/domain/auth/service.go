package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
	logger *zap.Logger
}

func NewService(store StoreAPI, secret string, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, secret: secret, ttl: ttl, logger: logger}
}

type Session struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Role        string    `json:"role"`
	EmployeeID  string    `json:"employeeId,omitempty"`
}

// Login checks the password of an active user and issues an access token.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if err := CheckPassword(user.Password, password); err != nil {
		s.logger.Info("login rejected", zap.String("userId", user.ID))
		return Session{}, ErrInvalidCredentials
	}
	if !ValidRole(user.Role) {
		return Session{}, fmt.Errorf("%w: %q", ErrUnknownRole, user.Role)
	}

	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, EmployeeID: user.EmployeeID, Role: user.Role}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("update last login failed", zap.String("userId", user.ID), zap.Error(err))
	}
	return Session{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.ttl).UTC(),
		Role:        user.Role,
		EmployeeID:  user.EmployeeID,
	}, nil
}
