package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/metrics"
)

// maxValue bounds decimal(12,2).
var maxValue = decimal.New(1, 10)

type OpportunityService struct {
	repo      domain.OpportunityRepository
	customers domain.CustomerRepository
	log       *zap.Logger
	m         *metrics.Recorder
}

func NewOpportunityService(r domain.OpportunityRepository, customers domain.CustomerRepository, l *zap.Logger, m *metrics.Recorder) *OpportunityService {
	return &OpportunityService{repo: r, customers: customers, log: l.Named("opportunities"), m: m}
}

func (s *OpportunityService) Create(ctx context.Context, customerID int64, in domain.OpportunityInput) (*domain.Opportunity, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if in.Stage == "" {
		in.Stage = domain.StageNew
	}
	if !in.Stage.Valid() {
		return nil, domain.Invalid("stage", "unknown stage")
	}
	value, err := money(in.Value)
	if err != nil {
		return nil, err
	}
	if err := requireCustomer(ctx, s.customers, customerID); err != nil {
		return nil, err
	}
	o := &domain.Opportunity{
		CustomerID: customerID,
		Title:      in.Title,
		Stage:      in.Stage,
		Value:      value,
		CloseDate:  in.CloseDate.Ptr(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, missingCustomer(err)
	}
	s.m.Record("opportunity", "create")
	return o, nil
}

func (s *OpportunityService) Get(ctx context.Context, id int64) (*domain.Opportunity, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("opportunity")
	}
	return o, nil
}

func (s *OpportunityService) ListByCustomer(ctx context.Context, customerID int64, p domain.Page) ([]domain.Opportunity, error) {
	if err := requireCustomer(ctx, s.customers, customerID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, domain.OpportunityQuery{CustomerID: &customerID, Page: p.Normalize()})
}

// List returns opportunities across customers, optionally only those in stage.
func (s *OpportunityService) List(ctx context.Context, stage *domain.Stage, p domain.Page) ([]domain.Opportunity, error) {
	if stage != nil && !stage.Valid() {
		return nil, domain.Invalid("stage", "unknown stage")
	}
	return s.repo.List(ctx, domain.OpportunityQuery{Stage: stage, Page: p.Normalize()})
}

func (s *OpportunityService) Update(ctx context.Context, id int64, p domain.OpportunityPatch) (*domain.Opportunity, error) {
	fields := map[string]any{}
	if p.Title.Set {
		title := strings.TrimSpace(p.Title.Value)
		if title == "" {
			return nil, domain.Invalid("title", "must not be empty")
		}
		if err := checkVar("title", title, "max=200"); err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if p.Stage.Set {
		if p.Stage.Value == "" {
			return nil, domain.Invalid("stage", "must not be null")
		}
		if !p.Stage.Value.Valid() {
			return nil, domain.Invalid("stage", "unknown stage")
		}
		fields["stage"] = p.Stage.Value
	}
	if p.Value.Set {
		v, err := money(p.Value.Value)
		if err != nil {
			return nil, err
		}
		fields["value"] = v
	}
	if p.CloseDate.Set {
		if at := p.CloseDate.Value.Ptr(); at != nil {
			fields["close_date"] = *at
		} else {
			fields["close_date"] = nil
		}
	}

	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Stage.Set && !cur.Stage.CanTransition(p.Stage.Value) {
		return nil, domain.Invalid("stage", "cannot move from "+string(cur.Stage)+" to "+string(p.Stage.Value))
	}

	o, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("opportunity")
	}
	s.m.Record("opportunity", "update")
	if p.Stage.Set && cur.Stage != o.Stage {
		s.log.Info("opportunity stage changed",
			zap.Int64("id", id),
			zap.String("from", string(cur.Stage)),
			zap.String("to", string(o.Stage)),
		)
	}
	return o, nil
}

func (s *OpportunityService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("opportunity")
	}
	s.m.Record("opportunity", "delete")
	return nil
}

// money rounds v to cents and rejects amounts that do not fit decimal(12,2).
func money(v domain.Money) (domain.Money, error) {
	if !v.Valid {
		return v, nil
	}
	d := v.Decimal.Round(2)
	if d.Abs().GreaterThanOrEqual(maxValue) {
		return domain.Money{}, domain.Invalid("value", "must be less than 10000000000 in magnitude")
	}
	return domain.NewMoney(d), nil
}
