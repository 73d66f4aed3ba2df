package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseUUIDModel struct {
	ID        string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"              json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"              json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"                       json:"deletedAt"`
}

// BeforeSave assigns a time-ordered UUID so freshly created rows sort by
// insertion without an extra sequence column.
func (b *BaseUUIDModel) BeforeSave(tx *gorm.DB) error {
	if b.ID == "" {
		uuidString, _ := uuid.NewV7()
		b.ID = uuidString.String()
	}
	return nil
}

// All lists every persisted model for schema migration.
func All() []any {
	return []any{
		&Campaign{},
		&Test{},
		&Question{},
		&Candidate{},
		&Answer{},
		&AccessToken{},
	}
}
