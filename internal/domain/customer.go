package domain

import (
	"context"
	"time"
)

type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	Email     *string   `gorm:"size:150;uniqueIndex" json:"email"`
	Phone     *string   `gorm:"size:50" json:"phone"`
	Company   *string   `gorm:"size:150" json:"company"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Interactions  []Interaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Opportunities []Opportunity `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Customer) TableName() string { return "customers" }

// CustomerInput is the payload for creating a customer.
type CustomerInput struct {
	Name    string  `json:"name"    validate:"required,min=1,max=150"`
	Email   *string `json:"email"   validate:"omitempty,email,max=150"`
	Phone   *string `json:"phone"   validate:"omitempty,max=50"`
	Company *string `json:"company" validate:"omitempty,max=150"`
}

// CustomerPatch carries a partial update; unset fields are left untouched.
type CustomerPatch struct {
	Name    Optional[string]  `json:"name"`
	Email   Optional[*string] `json:"email"`
	Phone   Optional[*string] `json:"phone"`
	Company Optional[*string] `json:"company"`
}

type CustomerQuery struct {
	Search string
	Page   Page
}

// CustomerDeletion reports what a customer delete removed.
type CustomerDeletion struct {
	CustomerID    int64 `json:"id"`
	Interactions  int64 `json:"interactions_deleted"`
	Opportunities int64 `json:"opportunities_deleted"`
}

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*Customer, error)
	Delete(ctx context.Context, id int64) (*CustomerDeletion, error)
	List(ctx context.Context, q CustomerQuery) ([]Customer, error)
}
