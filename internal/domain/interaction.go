package domain

import (
	"context"
	"time"
)

type Interaction struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;index" json:"customer_id"`
	Type       string    `gorm:"size:50;not null" json:"type"`
	Notes      *string   `gorm:"type:text" json:"notes"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
}

func (Interaction) TableName() string { return "interactions" }

type InteractionInput struct {
	Type       string     `json:"type"        validate:"required,max=50"`
	Notes      *string    `json:"notes"`
	OccurredAt *time.Time `json:"occurred_at"`
}

type InteractionRepository interface {
	Create(ctx context.Context, i *Interaction) error
	FindByID(ctx context.Context, id int64) (*Interaction, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64, p Page) ([]Interaction, error)
}
