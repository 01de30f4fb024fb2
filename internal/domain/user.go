package domain

import (
	"context"
	"time"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"size:150;not null;uniqueIndex" json:"email"`
	Name           *string   `gorm:"size:100" json:"name"`
	HashedPassword string    `gorm:"size:100;not null" json:"-"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (User) TableName() string { return "users" }

type UserInput struct {
	Email    string  `json:"email"    validate:"required,email,max=150"`
	Name     *string `json:"name"     validate:"omitempty,max=100"`
	Password string  `json:"password" validate:"required,min=1,max=72"`
}

type UserPatch struct {
	Email    Optional[string]  `json:"email"`
	Name     Optional[*string] `json:"name"`
	Password Optional[string]  `json:"password"`
	IsActive Optional[*bool]   `json:"is_active"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, p Page) ([]User, error)
}
