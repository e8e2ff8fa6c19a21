package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InlineReviews is the set of review edits submitted with a product form.
// Reviews with a zero ID are created; DeleteIDs are removed.
type InlineReviews struct {
	Save      []models.Review
	DeleteIDs []uint
}

type ProductRepositoryImpl interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Save(ctx context.Context, product *models.Product, categoryIDs []uint, inline InlineReviews) error
	List(ctx context.Context, q changelist.Query) ([]models.Product, changelist.Paginator, error)
	All(ctx context.Context, q changelist.Query) ([]models.Product, error)
	CreateDates(ctx context.Context, q changelist.Query) ([]time.Time, error)
	DistinctNames(ctx context.Context) ([]string, error)
	GetChoices(ctx context.Context) ([]models.Product, error)
	ReviewCounts(ctx context.Context, ids []uint) (map[uint]int64, error)
	SetInStock(ctx context.Context, ids []uint, inStock bool) (int64, error)
	UpdateStockFlags(ctx context.Context, flags map[uint]bool) (int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteMany(ctx context.Context, ids []uint) (int64, error)
	Count(ctx context.Context) (int64, error)
	ImageInUse(ctx context.Context, image string) (bool, error)
	Import(ctx context.Context, products []ProductImport) (ImportResult, error)
}

// ProductImport is one parsed import row. A non-zero ID updates that product
// when it exists and creates it with that ID otherwise.
//
// Columns holds the lowercased header of the file the row came from. An
// update writes only those columns and keeps category links unless the file
// has a category column. A nil Columns means every column is present.
type ProductImport struct {
	Product     models.Product
	CategoryIDs []uint
	Columns     map[string]bool
}

// importColumns maps file columns to the product columns an update may write.
var importColumns = []string{"name", "country", "description", "is_in_stock", "slug", "image"}

func (r ProductImport) has(col string) bool {
	return r.Columns == nil || r.Columns[col]
}

func (r ProductImport) updateColumns() []string {
	cols := []string{"update_date"}
	for _, col := range importColumns {
		if r.has(col) {
			cols = append(cols, col)
		}
	}
	return cols
}

type ImportResult struct {
	Created int
	Updated int
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Categories").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return products, nil
	}
	err := p.db.WithContext(ctx).Where("id IN ?", ids).Order("id DESC").Find(&products).Error
	return products, err
}

// Save creates or updates the product, replaces its category links and
// applies the inline review edits, all in one transaction.
func (p *productRepository) Save(ctx context.Context, product *models.Product, categoryIDs []uint, inline InlineReviews) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveProduct(tx, product); err != nil {
			return err
		}
		if err := replaceCategories(tx, product.ID, categoryIDs); err != nil {
			return err
		}
		return applyInlineReviews(tx, product.ID, inline)
	})
}

func saveProduct(tx *gorm.DB, product *models.Product) error {
	if product.ID == 0 {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	}
	res := tx.Omit(clause.Associations).Select("*").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func replaceCategories(tx *gorm.DB, productID uint, categoryIDs []uint) error {
	ids := uniqueIDs(categoryIDs)
	if len(ids) > 0 {
		var found int64
		if err := tx.Model(&models.Category{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(ids)) {
			return ErrInvalidCategory
		}
	}
	if err := tx.Exec("DELETE FROM product_categories WHERE product_id = ?", productID).Error; err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}
	for _, id := range ids {
		if err := tx.Exec("INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)", productID, id).Error; err != nil {
			return fmt.Errorf("failed to link category %d: %w", id, err)
		}
	}
	return nil
}

func applyInlineReviews(tx *gorm.DB, productID uint, inline InlineReviews) error {
	if ids := uniqueIDs(inline.DeleteIDs); len(ids) > 0 {
		if err := tx.Where("id IN ? AND product_id = ?", ids, productID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
	}
	for i := range inline.Save {
		rv := inline.Save[i]
		if rv.ID == 0 {
			rv.ProductID = productID
			if err := tx.Omit("Product").Create(&rv).Error; err != nil {
				return fmt.Errorf("failed to add review: %w", err)
			}
			continue
		}
		err := tx.Model(&models.Review{}).
			Where("id = ? AND product_id = ?", rv.ID, productID).
			UpdateColumns(map[string]interface{}{"review": rv.Review, "is_released": rv.IsReleased}).Error
		if err != nil {
			return fmt.Errorf("failed to update review %d: %w", rv.ID, err)
		}
	}
	return nil
}

func (p *productRepository) List(ctx context.Context, q changelist.Query) ([]models.Product, changelist.Paginator, error) {
	return listPage[models.Product](ctx, p.db, q)
}

func (p *productRepository) All(ctx context.Context, q changelist.Query) ([]models.Product, error) {
	var products []models.Product
	tx := p.db.WithContext(ctx).Model(&models.Product{}).Preload("Categories")
	if q.Scope != nil {
		tx = tx.Scopes(q.Scope)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if err := tx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) CreateDates(ctx context.Context, q changelist.Query) ([]time.Time, error) {
	var dates []time.Time
	tx := p.db.WithContext(ctx).Model(&models.Product{})
	if q.Scope != nil {
		tx = tx.Scopes(q.Scope)
	}
	if err := tx.Pluck("create_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (p *productRepository) DistinctNames(ctx context.Context) ([]string, error) {
	var names []string
	err := p.db.WithContext(ctx).Model(&models.Product{}).Distinct("name").Order("name ASC").Pluck("name", &names).Error
	return names, err
}

func (p *productRepository) GetChoices(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).Select("id", "name").Order("name ASC, id ASC").Find(&products).Error
	return products, err
}

type reviewCount struct {
	ProductID uint
	Total     int64
}

// ReviewCounts returns the live number of reviews per product. Products with
// none are absent from the map.
func (p *productRepository) ReviewCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []reviewCount
	err := p.db.WithContext(ctx).Model(&models.Review{}).
		Select("product_id, COUNT(*) AS total").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.ProductID] = r.Total
	}
	return counts, nil
}

// SetInStock flips the stock flag on the selected products. Rows already
// holding the value are left untouched; the returned count is every existing
// selected row, so repeating the call reports the same number.
func (p *productRepository) SetInStock(ctx context.Context, ids []uint, inStock bool) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var matched int64
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&matched).Error; err != nil {
			return err
		}
		_, err := setStock(tx, ids, inStock)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update stock flags: %w", err)
	}
	return matched, nil
}

// setStock writes the flag to the listed products that differ from it. Each
// changed product gets its update date bumped the same way a form save does.
func setStock(tx *gorm.DB, ids []uint, inStock bool) (int64, error) {
	var stale []models.Product
	err := tx.Select("id", "create_date", "update_date").
		Where("id IN ? AND is_in_stock <> ?", ids, inStock).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}
	for i := range stale {
		stale[i].Touch()
		err := tx.Model(&models.Product{}).
			Where("id = ?", stale[i].ID).
			UpdateColumns(map[string]interface{}{"is_in_stock": inStock, "update_date": stale[i].UpdateDate}).Error
		if err != nil {
			return 0, err
		}
	}
	return int64(len(stale)), nil
}

// UpdateStockFlags saves the inline-edited stock checkboxes of a change-list
// page and returns how many products actually changed.
func (p *productRepository) UpdateStockFlags(ctx context.Context, flags map[uint]bool) (int64, error) {
	var changed int64
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, inStock := range flags {
			n, err := setStock(tx, []uint{id}, inStock)
			if err != nil {
				return err
			}
			changed += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save stock flags: %w", err)
	}
	return changed, nil
}

func (p *productRepository) Delete(ctx context.Context, id uint) error {
	n, err := p.DeleteMany(ctx, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes the products together with their reviews and category
// links. Either everything goes or nothing does.
func (p *productRepository) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id IN ?", ids).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Exec("DELETE FROM product_categories WHERE product_id IN ?", ids).Error; err != nil {
			return fmt.Errorf("failed to unlink categories: %w", err)
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Product{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete products: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (p *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// ImageInUse reports whether any product still points at the stored image.
func (p *productRepository) ImageInUse(ctx context.Context, image string) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Where("image = ?", image).Count(&count).Error
	return count > 0, err
}

func (p *productRepository) Import(ctx context.Context, products []ProductImport) (ImportResult, error) {
	var result ImportResult
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			row := products[i].Product
			exists := false
			if row.ID != 0 {
				var existing models.Product
				err := tx.Select("id", "create_date", "update_date").First(&existing, "id = ?", row.ID).Error
				switch {
				case err == nil:
					exists = true
					row.CreateDate = existing.CreateDate
					row.UpdateDate = existing.UpdateDate
				case errors.Is(err, gorm.ErrRecordNotFound):
				default:
					return err
				}
			}
			if exists {
				if err := tx.Omit(clause.Associations).Select(products[i].updateColumns()).Updates(&row).Error; err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
				result.Updated++
			} else {
				if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
				result.Created++
			}
			if !products[i].has("category") {
				continue
			}
			if err := replaceCategories(tx, row.ID, products[i].CategoryIDs); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}
