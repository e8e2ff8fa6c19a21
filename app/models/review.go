package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID          uint      `gorm:"primaryKey"`
	ProductID   uint      `gorm:"not null;index"`
	Product     *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE;"`
	Review      string    `gorm:"type:text;not null"`
	IsReleased  bool      `gorm:"not null"`
	CreatedDate time.Time `gorm:"type:date;not null"`
}

func (r Review) String() string {
	name := ""
	if r.Product != nil {
		name = r.Product.Name
	}
	return fmt.Sprintf("%s - %s", name, r.Review)
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.CreatedDate.IsZero() {
		now := Now()
		r.CreatedDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return
}
