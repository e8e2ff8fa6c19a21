package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"gorm.io/gorm"
)

type ReviewRepositoryImpl interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context, q changelist.Query) ([]models.Review, changelist.Paginator, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepositoryImpl {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) productExists(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidProduct
	}
	return nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.productExists(tx, review.ProductID); err != nil {
			return err
		}
		if err := tx.Omit("Product").Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Product").First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, q changelist.Query) ([]models.Review, changelist.Paginator, error) {
	return listPage[models.Review](ctx, r.db, q, "Product")
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.productExists(tx, review.ProductID); err != nil {
			return err
		}
		res := tx.Model(&models.Review{}).Where("id = ?", review.ID).UpdateColumns(map[string]interface{}{
			"product_id":  review.ProductID,
			"review":      review.Review,
			"is_released": review.IsReleased,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Review{}).Where("id = ?", review.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error
	return count, err
}
