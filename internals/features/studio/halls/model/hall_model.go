package model

import (
	"time"

	"github.com/google/uuid"
)

// HallModel maps the halls table.
type HallModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name" validate:"required,min=1,max=120"`
	Capacity  *int      `json:"capacity,omitempty" validate:"omitempty,gte=1"`
	Address   string    `gorm:"size:255" json:"address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HallModel) TableName() string {
	return "halls"
}
