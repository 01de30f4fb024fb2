package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-gin-gorm-crm/internal/domain"
)

type CustomerRepo struct{ db *gorm.DB }

// likeEscaper makes a search term match literally inside LIKE ... ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func NewCustomerRepo(db *gorm.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return translate("create customer", r.db.WithContext(ctx).Create(c).Error)
}

func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find customer", err)
	}
	return &c, nil
}

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).First(&c, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find customer by email", err)
	}
	return &c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Customer
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&c).Updates(fields).Error; err != nil {
				return err
			}
			if err := tx.First(&c, "id = ?", id).Error; err != nil {
				return err
			}
		}
		out = &c
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("update customer", err)
	}
	return out, nil
}

// Delete removes the customer with its interactions and opportunities in one
// transaction. It returns nil when no such customer exists.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) (*domain.CustomerDeletion, error) {
	var out *domain.CustomerDeletion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Customer
		if err := tx.Select("id").First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		ir := tx.Where("customer_id = ?", id).Delete(&domain.Interaction{})
		if ir.Error != nil {
			return ir.Error
		}
		or := tx.Where("customer_id = ?", id).Delete(&domain.Opportunity{})
		if or.Error != nil {
			return or.Error
		}
		cr := tx.Where("id = ?", id).Delete(&domain.Customer{})
		if cr.Error != nil {
			return cr.Error
		}
		if cr.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		out = &domain.CustomerDeletion{
			CustomerID:    id,
			Interactions:  ir.RowsAffected,
			Opportunities: or.RowsAffected,
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("delete customer", err)
	}
	return out, nil
}

func (r *CustomerRepo) List(ctx context.Context, q domain.CustomerQuery) ([]domain.Customer, error) {
	p := q.Page.Normalize()
	tx := r.db.WithContext(ctx).Model(&domain.Customer{})
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(company) LIKE ? ESCAPE '!'", like, like, like)
	}
	var out []domain.Customer
	if err := tx.Order("created_at DESC").Order("id DESC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error; err != nil {
		return nil, translate("list customers", err)
	}
	return out, nil
}
