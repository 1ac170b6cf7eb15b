package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
	"github.com/kelvrith2-lang/safiri-sales/internal/metrics"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/inbound"
	"github.com/kelvrith2-lang/safiri-sales/internal/ports/outbound"
)

type AuthService struct {
	cashiers outbound.CashierRepository
	sessions outbound.SessionStore
	ttl      time.Duration
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
	newToken func() string
}

func NewAuthService(cashiers outbound.CashierRepository, sessions outbound.SessionStore, ttl time.Duration, m *metrics.Metrics, log *zap.Logger) *AuthService {
	return &AuthService{
		cashiers: cashiers,
		sessions: sessions,
		ttl:      ttl,
		metrics:  m,
		log:      log,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Login verifies the credentials in the database and mints an opaque
// session token. Wrong password and unknown email look the same.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.metrics.RecordLoginFailure()
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	cashier, err := s.cashiers.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.metrics.RecordLoginFailure()
			s.log.Warn("login rejected", zap.String("email", email))
			return domain.Session{}, domain.ErrInvalidCredentials
		}
		return domain.Session{}, fmt.Errorf("db authenticate: %w", err)
	}

	now := s.now()
	sess := domain.Session{
		Token:     s.newToken(),
		Cashier:   cashier,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions.Put(ctx, sess)
	s.metrics.SetActiveSessions(s.sessions.Len(ctx))

	s.log.Info("cashier logged in",
		zap.String("cashier_id", cashier.ID),
		zap.String("role", string(cashier.Role)))
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	s.sessions.Delete(ctx, token)
	s.metrics.SetActiveSessions(s.sessions.Len(ctx))
	return nil
}

// Authenticate resolves a token to a live session. Expired sessions are
// deleted on sight rather than waiting for the sweeper.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionExpired
	}

	sess, ok := s.sessions.Get(ctx, token)
	if !ok {
		return domain.Session{}, domain.ErrSessionExpired
	}
	if sess.Expired(s.now()) {
		s.sessions.Delete(ctx, token)
		s.metrics.SetActiveSessions(s.sessions.Len(ctx))
		return domain.Session{}, domain.ErrSessionExpired
	}
	return sess, nil
}

var _ inbound.AuthUseCase = (*AuthService)(nil)
