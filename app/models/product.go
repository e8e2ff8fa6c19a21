package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CountryTurkey  = "TR"
	CountryEngland = "EN"
	CountryGermany = "DE"
	CountryFrance  = "FR"

	DefaultCountry = CountryGermany

	// ImageNamespace is the storage prefix every uploaded product image lives under.
	ImageNamespace = "product/"
)

type Choice struct {
	Value string
	Label string
}

// Countries is the closed set a product country may take, in display order.
var Countries = []Choice{
	{Value: CountryTurkey, Label: "Turkey"},
	{Value: CountryEngland, Label: "England"},
	{Value: CountryGermany, Label: "Germany"},
	{Value: CountryFrance, Label: "France"},
}

func CountryLabel(code string) string {
	for _, c := range Countries {
		if c.Value == code {
			return c.Label
		}
	}
	return code
}

type Product struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"size:100;not null;index"`
	Country     *string    `gorm:"size:2"`
	Description string     `gorm:"type:text;not null"`
	IsInStock   bool       `gorm:"not null"`
	Slug        *string    `gorm:"size:50;index"`
	CreateDate  time.Time  `gorm:"not null"`
	UpdateDate  time.Time  `gorm:"not null"`
	Image       string     `gorm:"size:255"`
	Categories  []Category `gorm:"many2many:product_categories;"`
	Reviews     []Review   `gorm:"constraint:OnDelete:CASCADE;"`
}

func (p Product) String() string {
	return p.Name
}

// Now is the clock used for product and review timestamps.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Touch moves UpdateDate forward. The new value is always strictly later than
// the previous one, even when the clock has not advanced between two saves.
func (p *Product) Touch() {
	now := Now()
	if !now.After(p.UpdateDate) {
		now = p.UpdateDate.Add(time.Millisecond)
	}
	if now.Before(p.CreateDate) {
		now = p.CreateDate
	}
	p.UpdateDate = now
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.CreateDate.IsZero() {
		p.CreateDate = Now()
	}
	if p.UpdateDate.Before(p.CreateDate) {
		p.UpdateDate = p.CreateDate
	}
	if p.Country != nil && *p.Country == "" {
		p.Country = nil
	}
	return
}

func (p *Product) BeforeUpdate(tx *gorm.DB) (err error) {
	p.Touch()
	return
}

func (p Product) CountryCode() string {
	if p.Country == nil {
		return ""
	}
	return *p.Country
}

func (p Product) SlugValue() string {
	if p.Slug == nil {
		return ""
	}
	return *p.Slug
}

func (p Product) HasImage() bool {
	return p.Image != ""
}

func (p Product) CategoryIDs() []uint {
	ids := make([]uint, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
