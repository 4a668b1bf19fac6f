package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable software license
type Product struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID           int64           `gorm:"index;not null" json:"categoria"`
	Category             Category        `gorm:"foreignKey:CategoryID" json:"-"`
	Name                 string          `gorm:"size:200;not null" json:"nombre"`
	Description          string          `gorm:"type:text;not null" json:"descripcion"`
	TechnicalDescription string          `gorm:"type:text" json:"descripcion_tecnica"`
	Price                decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio"`
	LicenseType          LicenseType     `gorm:"size:20;not null" json:"tipo_licencia"`
	CurrentVersion       string          `gorm:"size:20;not null" json:"version_actual"`
	DownloadFile         string          `gorm:"size:255" json:"archivo_descarga"`
	SystemRequirements   string          `gorm:"type:text" json:"requisitos_sistema"`
	MainImage            string          `gorm:"size:255" json:"imagen_principal"`
	Screenshot1          string          `gorm:"size:255" json:"captura1"`
	Screenshot2          string          `gorm:"size:255" json:"captura2"`
	Screenshot3          string          `gorm:"size:255" json:"captura3"`
	Stock                int             `gorm:"not null" json:"stock"`
	Active               bool            `gorm:"index;not null" json:"activo"`
	Featured             bool            `gorm:"index;not null" json:"destacado"`
	CreatedAt            time.Time       `gorm:"index" json:"fecha_creacion"`
	UpdatedAt            time.Time       `json:"fecha_actualizacion"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct returns a product carrying the column defaults
func NewProduct() Product {
	return Product{
		LicenseType:    LicensePerpetual,
		CurrentVersion: "1.0.0",
		Stock:          999,
		Active:         true,
	}
}
