package models

import (
	"github.com/google/uuid"
)

// Service is a catalog entry clients can book. Names are kept in both
// Arabic and English; the Arabic name is the canonical one.
type Service struct {
	ID          uuid.UUID `json:"id" db:"id"`
	NameAr      string    `json:"name_ar" db:"name_ar"`
	NameEn      *string   `json:"name_en" db:"name_en"`
	Description *string   `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageObject *string   `json:"image_object,omitempty" db:"image_object"`
}
