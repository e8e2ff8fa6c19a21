package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-catalog-admin/app/db/fakers"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"gorm.io/gorm"
)

const maxReviewsPerProduct = 5

// DBSeed inserts fake categories, then products linked to them with a few
// reviews each. Everything goes through the repositories so timestamps and
// links follow the same rules as the admin.
func DBSeed(ctx context.Context, db *gorm.DB, categories, products int) error {
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)

	ids := make([]uint, 0, categories)
	for i := 0; i < categories; i++ {
		c := fakers.CategoryFaker()
		if err := categoryRepo.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed category: %w", err)
		}
		ids = append(ids, c.ID)
	}

	now := models.Now()
	for i := 0; i < products; i++ {
		p := fakers.ProductFaker(now)
		inline := repositories.InlineReviews{Save: fakers.ReviewFakers(maxReviewsPerProduct)}
		if err := productRepo.Save(ctx, p, fakers.PickCategories(ids), inline); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}
	log.Printf("seeded %d categories and %d products", categories, products)
	return nil
}
