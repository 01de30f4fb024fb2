package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gin-gorm-crm/internal/domain"
)

type OpportunityRepo struct{ db *gorm.DB }

func NewOpportunityRepo(db *gorm.DB) *OpportunityRepo { return &OpportunityRepo{db: db} }

func (r *OpportunityRepo) Create(ctx context.Context, o *domain.Opportunity) error {
	if o.Stage == "" {
		o.Stage = domain.StageNew
	}
	return translate("create opportunity", r.db.WithContext(ctx).Create(o).Error)
}

func (r *OpportunityRepo) FindByID(ctx context.Context, id int64) (*domain.Opportunity, error) {
	var o domain.Opportunity
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find opportunity", err)
	}
	return &o, nil
}

func (r *OpportunityRepo) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Opportunity, error) {
	var out *domain.Opportunity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Opportunity
		if err := tx.First(&o, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&o).Updates(fields).Error; err != nil {
				return err
			}
			if err := tx.First(&o, "id = ?", id).Error; err != nil {
				return err
			}
		}
		out = &o
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("update opportunity", err)
	}
	return out, nil
}

func (r *OpportunityRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Opportunity{})
	if res.Error != nil {
		return false, translate("delete opportunity", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// List returns opportunities newest first, optionally narrowed to one customer and/or stage.
func (r *OpportunityRepo) List(ctx context.Context, q domain.OpportunityQuery) ([]domain.Opportunity, error) {
	p := q.Page.Normalize()
	tx := r.db.WithContext(ctx).Model(&domain.Opportunity{})
	if q.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *q.CustomerID)
	}
	if q.Stage != nil {
		tx = tx.Where("stage = ?", *q.Stage)
	}
	var out []domain.Opportunity
	if err := tx.Order("created_at DESC").Order("id DESC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error; err != nil {
		return nil, translate("list opportunities", err)
	}
	return out, nil
}
