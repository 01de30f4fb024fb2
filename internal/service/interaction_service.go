package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/metrics"
)

// DefaultRecordLimit is the page size for interaction, opportunity and user lists.
const DefaultRecordLimit = 100

type InteractionService struct {
	repo      domain.InteractionRepository
	customers domain.CustomerRepository
	log       *zap.Logger
	m         *metrics.Recorder
}

func NewInteractionService(r domain.InteractionRepository, customers domain.CustomerRepository, l *zap.Logger, m *metrics.Recorder) *InteractionService {
	return &InteractionService{repo: r, customers: customers, log: l.Named("interactions"), m: m}
}

func (s *InteractionService) Create(ctx context.Context, customerID int64, in domain.InteractionInput) (*domain.Interaction, error) {
	in.Type = strings.TrimSpace(in.Type)
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if err := requireCustomer(ctx, s.customers, customerID); err != nil {
		return nil, err
	}
	i := &domain.Interaction{CustomerID: customerID, Type: in.Type, Notes: in.Notes}
	if in.OccurredAt != nil {
		i.OccurredAt = *in.OccurredAt
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, missingCustomer(err)
	}
	s.m.Record("interaction", "create")
	return i, nil
}

func (s *InteractionService) ListByCustomer(ctx context.Context, customerID int64, p domain.Page) ([]domain.Interaction, error) {
	if err := requireCustomer(ctx, s.customers, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, customerID, p.Normalize())
}

func (s *InteractionService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("interaction")
	}
	s.m.Record("interaction", "delete")
	return nil
}

func requireCustomer(ctx context.Context, customers domain.CustomerRepository, id int64) error {
	c, err := customers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("customer")
	}
	return nil
}
