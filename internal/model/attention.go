package model

import (
	"time"

	"gorm.io/gorm"
)

// Attention types (tipo).
const (
	AttentionPsychology   = "psicologia"
	AttentionOccupational = "terapia_ocupacional"
	AttentionSocial       = "social"
)

// Attention is a single professional-care session given to a minor.
type Attention struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Date         time.Time `json:"fecha" gorm:"column:fecha;type:date;index"`
	Type         string    `json:"tipo" gorm:"column:tipo;size:50"`
	Professional string    `json:"profesional" gorm:"column:profesional;size:200"`
	NNAID        uint      `json:"nna_id" gorm:"column:nna_id;not null;index"`

	NNA *NNA `json:"-" gorm:"foreignKey:NNAID;constraint:OnDelete:RESTRICT"`
}

// TableName keeps the table name used by existing deployments.
func (Attention) TableName() string { return "atencion" }

// BeforeCreate defaults the session date to today.
func (a *Attention) BeforeCreate(tx *gorm.DB) error {
	if a.Date.IsZero() {
		a.Date = Today()
	}
	return nil
}
