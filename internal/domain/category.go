package domain

import "time"

// Category groups products and services. Name is unique across all categories.
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"nombre"`
	Description string    `gorm:"type:text" json:"descripcion"`
	Icon        string    `gorm:"size:50" json:"icono"`
	Active      bool      `gorm:"index;not null" json:"activo"`
	CreatedAt   time.Time `json:"fecha_creacion"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	Services []Service `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryCounts holds the number of active children of a category
type CategoryCounts struct {
	Products int64
	Services int64
}
