package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a custom development offering. A nil BasePrice together with
// DynamicQuote means the price is quoted per client.
type Service struct {
	ID                 int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID         int64               `gorm:"index;not null" json:"categoria"`
	Category           Category            `gorm:"foreignKey:CategoryID" json:"-"`
	Name               string              `gorm:"size:200;not null" json:"nombre"`
	Description        string              `gorm:"type:text;not null" json:"descripcion"`
	ServiceType        ServiceType         `gorm:"size:20;not null" json:"tipo_servicio"`
	BasePrice          decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"precio_base"`
	DynamicQuote       bool                `gorm:"not null" json:"cotizacion_dinamica"`
	EstimatedDays      int                 `gorm:"not null" json:"tiempo_estimado_dias"`
	ClientRequirements string              `gorm:"type:text;not null" json:"requisitos_cliente"`
	MainImage          string              `gorm:"size:255" json:"imagen_principal"`
	Active             bool                `gorm:"index;not null" json:"activo"`
	Featured           bool                `gorm:"index;not null" json:"destacado"`
	CreatedAt          time.Time           `gorm:"index" json:"fecha_creacion"`
}

func (Service) TableName() string {
	return "services"
}

// NewService returns a service carrying the column defaults
func NewService() Service {
	return Service{
		EstimatedDays: 30,
		Active:        true,
	}
}
