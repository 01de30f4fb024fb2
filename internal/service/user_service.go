package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/metrics"
	"go-gin-gorm-crm/pkg/utils"
)

// bcrypt ignores input past this many bytes.
const maxPasswordBytes = 72

type UserService struct {
	repo domain.UserRepository
	log  *zap.Logger
	m    *metrics.Recorder
}

func NewUserService(r domain.UserRepository, l *zap.Logger, m *metrics.Recorder) *UserService {
	return &UserService{repo: r, log: l.Named("users"), m: m}
}

func (s *UserService) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = trimmed(in.Name)
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}
	u := &domain.User{Email: in.Email, Name: in.Name, HashedPassword: hash, IsActive: true}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, emailTaken("user", err)
	}
	s.m.Record("user", "create")
	s.log.Info("user created", zap.Int64("id", u.ID))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user")
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, p domain.Page) ([]domain.User, error) {
	return s.repo.List(ctx, p.Normalize())
}

func (s *UserService) Update(ctx context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	fields := map[string]any{}
	if p.Email.Set {
		email := strings.TrimSpace(p.Email.Value)
		if err := checkVar("email", email, "required,email,max=150"); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if p.Name.Set {
		name := trimmed(p.Name.Value)
		if name != nil {
			if err := checkVar("name", *name, "max=100"); err != nil {
				return nil, err
			}
		}
		fields["name"] = column(name)
	}
	if p.Password.Set {
		if p.Password.Value == "" {
			return nil, domain.Invalid("password", "is required")
		}
		hash, err := hashPassword(p.Password.Value)
		if err != nil {
			return nil, err
		}
		fields["hashed_password"] = hash
	}
	if p.IsActive.Set {
		if p.IsActive.Value == nil {
			return nil, domain.Invalid("is_active", "must not be null")
		}
		fields["is_active"] = *p.IsActive.Value
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if email, ok := fields["email"].(string); ok {
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
	}

	u, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, emailTaken("user", err)
	}
	if u == nil {
		return nil, domain.NotFound("user")
	}
	s.m.Record("user", "update")
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("user")
	}
	s.m.Record("user", "delete")
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, self int64) error {
	other, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if other != nil && other.ID != self {
		return domain.Conflict("user", "email")
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	if len(pw) > maxPasswordBytes {
		return "", domain.Invalid("password", "must be at most 72 bytes")
	}
	return utils.HashPassword(pw)
}
