package models

type Category struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"size:100;not null"`
	IsActive bool      `gorm:"not null"`
	Products []Product `gorm:"many2many:product_categories;"`
}

func (c Category) String() string {
	return c.Name
}
