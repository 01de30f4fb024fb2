package domain

import (
	"context"
	"time"
)

type Opportunity struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64      `gorm:"not null;index" json:"customer_id"`
	Title      string     `gorm:"size:200;not null" json:"title"`
	Stage      Stage      `gorm:"size:16;not null;default:new;index" json:"stage"`
	Value      Money      `gorm:"type:decimal(12,2)" json:"value"`
	CloseDate  *time.Time `json:"close_date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Opportunity) TableName() string { return "opportunities" }

type OpportunityInput struct {
	Title     string     `json:"title"      validate:"required,max=200"`
	Stage     Stage      `json:"stage"`
	Value     Money      `json:"value"`
	CloseDate *Timestamp `json:"close_date"`
}

type OpportunityPatch struct {
	Title     Optional[string]     `json:"title"`
	Stage     Optional[Stage]      `json:"stage"`
	Value     Optional[Money]      `json:"value"`
	CloseDate Optional[*Timestamp] `json:"close_date"`
}

type OpportunityQuery struct {
	CustomerID *int64
	Stage      *Stage
	Page       Page
}

type OpportunityRepository interface {
	Create(ctx context.Context, o *Opportunity) error
	FindByID(ctx context.Context, id int64) (*Opportunity, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*Opportunity, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, q OpportunityQuery) ([]Opportunity, error)
}
