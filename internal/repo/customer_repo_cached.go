package repo

import (
	"context"

	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/core/cache"
	"go-gin-gorm-crm/internal/domain"
)

const customerKeyPrefix = "crm:customer:"

// CachedCustomerRepo serves FindByID from redis and drops the entry on every write.
// Cache failures are logged and fall back to the wrapped repository.
type CachedCustomerRepo struct {
	domain.CustomerRepository
	rows *cache.Entity[domain.Customer]
	log  *zap.Logger
}

func NewCachedCustomerRepo(inner domain.CustomerRepository, c *cache.Cache, l *zap.Logger) *CachedCustomerRepo {
	return &CachedCustomerRepo{
		CustomerRepository: inner,
		rows:               cache.NewEntity[domain.Customer](c, customerKeyPrefix),
		log:                l,
	}
}

func (r *CachedCustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.rows.Get(ctx, id, func(ctx context.Context) (*domain.Customer, error) {
		return r.CustomerRepository.FindByID(ctx, id)
	})
}

func (r *CachedCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	if err := r.CustomerRepository.Create(ctx, c); err != nil {
		return err
	}
	// a lookup of this id before it existed may have cached "null"
	r.invalidate(ctx, c.ID)
	return nil
}

func (r *CachedCustomerRepo) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Customer, error) {
	c, err := r.CustomerRepository.Update(ctx, id, fields)
	r.invalidate(ctx, id)
	return c, err
}

func (r *CachedCustomerRepo) Delete(ctx context.Context, id int64) (*domain.CustomerDeletion, error) {
	d, err := r.CustomerRepository.Delete(ctx, id)
	r.invalidate(ctx, id)
	return d, err
}

func (r *CachedCustomerRepo) invalidate(ctx context.Context, id int64) {
	if err := r.rows.Forget(ctx, id); err != nil {
		r.log.Warn("customer cache invalidation failed", zap.Int64("customer_id", id), zap.Error(err))
	}
}
