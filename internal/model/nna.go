package model

import (
	"time"

	"gorm.io/gorm"
)

// Minor status values (estado).
const (
	StatusActive     = "activo"
	StatusDischarged = "egresado"
)

// NNA is a minor (niño, niña o adolescente) under program care.
type NNA struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"nombre" gorm:"column:nombre;size:200;not null"`
	NationalID string    `json:"rut,omitempty" gorm:"column:rut;size:20"`
	IntakeDate time.Time `json:"fecha_ingreso" gorm:"column:fecha_ingreso;type:date;index"`
	Status     string    `json:"estado" gorm:"column:estado;size:20;default:activo;index"`
}

// TableName keeps the table name used by existing deployments.
func (NNA) TableName() string { return "nna" }

// BeforeCreate fills the intake date and status defaults.
func (n *NNA) BeforeCreate(tx *gorm.DB) error {
	if n.IntakeDate.IsZero() {
		n.IntakeDate = Today()
	}
	if n.Status == "" {
		n.Status = StatusActive
	}
	return nil
}
