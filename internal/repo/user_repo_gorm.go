package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gin-gorm-crm/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find user", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find user by email", err)
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, id int64, fields map[string]any) (*domain.User, error) {
	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&u).Updates(fields).Error; err != nil {
				return err
			}
			if err := tx.First(&u, "id = ?", id).Error; err != nil {
				return err
			}
		}
		out = &u
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("update user", err)
	}
	return out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return false, translate("delete user", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepo) List(ctx context.Context, p domain.Page) ([]domain.User, error) {
	p = p.Normalize()
	var out []domain.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(p.Limit).Offset(p.Offset).Find(&out).Error
	if err != nil {
		return nil, translate("list users", err)
	}
	return out, nil
}
