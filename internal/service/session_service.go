package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/core/auth"
	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/metrics"
	"go-gin-gorm-crm/pkg/utils"
)

const TokenTypeBearer = "bearer"

// Session is the result of a successful login.
type Session struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *domain.User `json:"user"`
}

// SessionService turns credentials into bearer tokens and tokens back into users.
type SessionService struct {
	users  domain.UserRepository
	tokens *auth.TokenService
	log    *zap.Logger
	m      *metrics.Recorder

	dummyOnce sync.Once
	dummyHash string
}

func NewSessionService(users domain.UserRepository, tokens *auth.TokenService, l *zap.Logger, m *metrics.Recorder) *SessionService {
	return &SessionService{users: users, tokens: tokens, log: l.Named("session"), m: m}
}

// Login checks email and password. Unknown email, wrong password and an inactive
// account all fail with the same ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// burn the same bcrypt cost as a real comparison
		utils.CheckPassword(password, s.dummy())
		return nil, s.reject("unknown email")
	}
	if !utils.CheckPassword(password, u.HashedPassword) {
		return nil, s.reject("wrong password")
	}
	if !u.IsActive {
		return nil, s.reject("inactive user")
	}

	tok, err := s.tokens.IssueDefault(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.m.Login(metrics.LoginSuccess)
	s.log.Info("login", zap.Int64("user_id", u.ID))
	return &Session{
		AccessToken: tok,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        u,
	}, nil
}

// Identify verifies token and returns its user id. Failures wrap both
// domain.ErrUnauthorized and the token error that caused them.
func (s *SessionService) Identify(token string) (int64, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return id, nil
}

// Current resolves token to an existing active user.
func (s *SessionService) Current(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.Identify(token)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, id)
}

// Resolve loads the user behind an already verified id.
func (s *SessionService) Resolve(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d no longer exists", domain.ErrUnauthorized, id)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: user %d is inactive", domain.ErrUnauthorized, id)
	}
	return u, nil
}

func (s *SessionService) reject(reason string) error {
	s.m.Login(metrics.LoginFailure)
	s.log.Debug("login rejected", zap.String("reason", reason))
	return &domain.Error{Kind: domain.ErrInvalidCredentials, Msg: "incorrect email or password"}
}

func (s *SessionService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := utils.HashPassword("crm-login-dummy")
		if err != nil {
			s.log.Warn("dummy hash", zap.Error(err))
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
