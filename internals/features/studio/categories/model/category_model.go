package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoryModel maps the categories table. Categories group dance
// directions (hip-hop, contemporary, ...) and carry a display color.
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"size:120;uniqueIndex;not null" json:"name" validate:"required,min=1,max=120"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"size:20;default:'#3B82F6'" json:"color" validate:"omitempty,max=20"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CategoryModel) TableName() string {
	return "categories"
}
