package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-gin-gorm-crm/internal/domain"
)

type InteractionRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInteractionRepo(db *gorm.DB) *InteractionRepo {
	return &InteractionRepo{db: db, now: time.Now}
}

// Create defaults OccurredAt to the current time when unset.
func (r *InteractionRepo) Create(ctx context.Context, i *domain.Interaction) error {
	if i.OccurredAt.IsZero() {
		i.OccurredAt = r.now()
	}
	return translate("create interaction", r.db.WithContext(ctx).Create(i).Error)
}

func (r *InteractionRepo) FindByID(ctx context.Context, id int64) (*domain.Interaction, error) {
	var i domain.Interaction
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find interaction", err)
	}
	return &i, nil
}

func (r *InteractionRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Interaction{})
	if res.Error != nil {
		return false, translate("delete interaction", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *InteractionRepo) ListByCustomer(ctx context.Context, customerID int64, p domain.Page) ([]domain.Interaction, error) {
	p = p.Normalize()
	var out []domain.Interaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("occurred_at DESC").Order("id DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&out).Error
	if err != nil {
		return nil, translate("list interactions", err)
	}
	return out, nil
}
