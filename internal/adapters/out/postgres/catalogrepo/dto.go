// Package catalogrepo stores the stage and delay reason reference tables.
package catalogrepo

import (
	"github.com/google/uuid"
)

type StageDTO struct {
	Code     string `gorm:"size:32;primaryKey"`
	Sequence int    `gorm:"not null;uniqueIndex"`
}

func (StageDTO) TableName() string {
	return "stage_catalog"
}

type DelayReasonDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string    `gorm:"size:32;not null;uniqueIndex"`
	Description string    `gorm:"size:255"`
}

func (DelayReasonDTO) TableName() string {
	return "delay_reasons"
}
