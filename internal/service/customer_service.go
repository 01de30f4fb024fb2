package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/metrics"
)

// DefaultCustomerLimit is the page size used when a customer list request names none.
const DefaultCustomerLimit = 50

type CustomerService struct {
	repo domain.CustomerRepository
	log  *zap.Logger
	m    *metrics.Recorder
}

func NewCustomerService(r domain.CustomerRepository, l *zap.Logger, m *metrics.Recorder) *CustomerService {
	return &CustomerService{repo: r, log: l.Named("customers"), m: m}
}

func (s *CustomerService) Create(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email, in.Phone, in.Company = trimmed(in.Email), trimmed(in.Phone), trimmed(in.Company)
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if in.Email != nil {
		if err := s.ensureEmailFree(ctx, *in.Email, 0); err != nil {
			return nil, err
		}
	}
	c := &domain.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone, Company: in.Company}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, emailTaken("customer", err)
	}
	s.m.Record("customer", "create")
	s.log.Info("customer created", zap.Int64("id", c.ID))
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("customer")
	}
	return c, nil
}

func (s *CustomerService) List(ctx context.Context, q domain.CustomerQuery) ([]domain.Customer, error) {
	q.Page = q.Page.Normalize()
	return s.repo.List(ctx, q)
}

// Update applies only the fields present in p. Name cannot be cleared; email, phone
// and company are cleared by an explicit null.
func (s *CustomerService) Update(ctx context.Context, id int64, p domain.CustomerPatch) (*domain.Customer, error) {
	fields := map[string]any{}
	if p.Name.Set {
		name := strings.TrimSpace(p.Name.Value)
		if name == "" {
			return nil, domain.Invalid("name", "must not be empty")
		}
		if err := checkVar("name", name, "max=150"); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if p.Email.Set {
		email := trimmed(p.Email.Value)
		if email != nil {
			if err := checkVar("email", *email, "email,max=150"); err != nil {
				return nil, err
			}
		}
		fields["email"] = column(email)
	}
	if p.Phone.Set {
		phone := trimmed(p.Phone.Value)
		if phone != nil {
			if err := checkVar("phone", *phone, "max=50"); err != nil {
				return nil, err
			}
		}
		fields["phone"] = column(phone)
	}
	if p.Company.Set {
		company := trimmed(p.Company.Value)
		if company != nil {
			if err := checkVar("company", *company, "max=150"); err != nil {
				return nil, err
			}
		}
		fields["company"] = column(company)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if email, ok := fields["email"].(string); ok {
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
	}

	c, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, emailTaken("customer", err)
	}
	if c == nil {
		return nil, domain.NotFound("customer")
	}
	s.m.Record("customer", "update")
	return c, nil
}

// Delete removes the customer with its interactions and opportunities.
func (s *CustomerService) Delete(ctx context.Context, id int64) (*domain.CustomerDeletion, error) {
	d, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("customer")
	}
	s.m.Record("customer", "delete")
	s.log.Info("customer deleted",
		zap.Int64("id", id),
		zap.Int64("interactions", d.Interactions),
		zap.Int64("opportunities", d.Opportunities),
	)
	return d, nil
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email string, self int64) error {
	other, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if other != nil && other.ID != self {
		return domain.Conflict("customer", "email")
	}
	return nil
}
