package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-catalog-admin/app/helpers"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"github.com/Rakhulsr/go-catalog-admin/app/services"
	"github.com/go-playground/validator/v10"
)

const (
	reviewsPrefix = "reviews"
	maxFormMemory = services.MaxImageSize + 1<<20
)

type CategoryForm struct {
	ID       uint
	Name     string `form:"name" validate:"required,max=100"`
	IsActive bool   `form:"is_active"`
}

type ProductForm struct {
	ID          uint
	Name        string `form:"name" validate:"required,max=100"`
	IsInStock   bool   `form:"is_in_stock"`
	Slug        string `form:"slug" validate:"omitempty,max=50,slug"`
	Country     string `form:"country" validate:"omitempty,oneof=TR EN DE FR"`
	Description string `form:"description" validate:"required"`
	CategoryIDs []uint `form:"category"`
	Image       string
	ClearImage  bool `form:"image-clear"`
	Reviews     []InlineReviewForm
}

// InlineReviewForm is one row of the collapsed review section on the product form.
type InlineReviewForm struct {
	Index      int
	ID         uint
	Review     string
	IsReleased bool
	Delete     bool
	Error      string
}

type ReviewForm struct {
	ID         uint
	ProductID  string `form:"product" validate:"required"`
	Review     string `form:"review" validate:"required"`
	IsReleased bool   `form:"is_released"`
}

func checked(r *http.Request, name string) bool {
	v := r.PostFormValue(name)
	return v != "" && v != "0" && v != "false"
}

// parseForm reads urlencoded and multipart bodies alike.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func newCategoryForm() *CategoryForm {
	return &CategoryForm{IsActive: true}
}

func categoryFormFrom(c *models.Category) *CategoryForm {
	return &CategoryForm{ID: c.ID, Name: c.Name, IsActive: c.IsActive}
}

func parseCategoryForm(r *http.Request) (*CategoryForm, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}
	return &CategoryForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		IsActive: checked(r, "is_active"),
	}, nil
}

func newProductForm() *ProductForm {
	return &ProductForm{IsInStock: true, Country: models.DefaultCountry}
}

func productFormFrom(p *models.Product) *ProductForm {
	form := &ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		IsInStock:   p.IsInStock,
		Slug:        p.SlugValue(),
		Country:     p.CountryCode(),
		Description: p.Description,
		CategoryIDs: p.CategoryIDs(),
		Image:       p.Image,
	}
	for i, rv := range p.Reviews {
		form.Reviews = append(form.Reviews, InlineReviewForm{Index: i, ID: rv.ID, Review: rv.Review, IsReleased: rv.IsReleased})
	}
	return form
}

func parseProductForm(r *http.Request) (*ProductForm, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}
	form := &ProductForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		IsInStock:   checked(r, "is_in_stock"),
		Slug:        strings.TrimSpace(r.PostFormValue("slug")),
		Country:     strings.TrimSpace(r.PostFormValue("country")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		CategoryIDs: helpers.ParseIDs(r.PostForm["category"]),
		ClearImage:  checked(r, "image-clear"),
	}

	total, _ := strconv.Atoi(r.PostFormValue(reviewsPrefix + "-TOTAL_FORMS"))
	for i := 0; i < total && i < 1000; i++ {
		prefix := fmt.Sprintf("%s-%d-", reviewsPrefix, i)
		row := InlineReviewForm{
			Index:      i,
			Review:     strings.TrimSpace(r.PostFormValue(prefix + "review")),
			IsReleased: checked(r, prefix+"is_released"),
			Delete:     checked(r, prefix+"DELETE"),
		}
		if id, ok := helpers.ParseID(r.PostFormValue(prefix + "id")); ok {
			row.ID = id
		}
		form.Reviews = append(form.Reviews, row)
	}
	return form, nil
}

// inline validates the review rows and converts them for the repository.
// Blank new rows are dropped.
func (f *ProductForm) inline() (repositories.InlineReviews, bool) {
	var out repositories.InlineReviews
	valid := true
	kept := f.Reviews[:0]
	for _, row := range f.Reviews {
		switch {
		case row.ID == 0 && row.Review == "":
			continue
		case row.Delete:
			if row.ID != 0 {
				out.DeleteIDs = append(out.DeleteIDs, row.ID)
			}
		case row.Review == "":
			row.Error = "This field is required."
			valid = false
		default:
			out.Save = append(out.Save, models.Review{ID: row.ID, Review: row.Review, IsReleased: row.IsReleased})
		}
		kept = append(kept, row)
	}
	f.Reviews = kept
	return out, valid
}

func (f *ProductForm) apply(p *models.Product) {
	p.Name = f.Name
	p.IsInStock = f.IsInStock
	p.Description = f.Description
	if f.Country == "" {
		p.Country = nil
	} else {
		c := f.Country
		p.Country = &c
	}
	slug := f.Slug
	if slug == "" && p.ID == 0 {
		slug = helpers.GenerateSlug(f.Name)
	}
	if slug == "" {
		p.Slug = nil
	} else {
		p.Slug = &slug
	}
}

func newReviewForm(productID string) *ReviewForm {
	return &ReviewForm{ProductID: productID, IsReleased: true}
}

func reviewFormFrom(rv *models.Review) *ReviewForm {
	return &ReviewForm{
		ID:         rv.ID,
		ProductID:  strconv.FormatUint(uint64(rv.ProductID), 10),
		Review:     rv.Review,
		IsReleased: rv.IsReleased,
	}
}

func parseReviewForm(r *http.Request) (*ReviewForm, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}
	return &ReviewForm{
		ProductID:  strings.TrimSpace(r.PostFormValue("product")),
		Review:     strings.TrimSpace(r.PostFormValue("review")),
		IsReleased: checked(r, "is_released"),
	}, nil
}

// validate runs the struct tags and returns per-field messages, or nil.
func (h *AdminHandler) validate(form interface{}) map[string]string {
	err := h.validator.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return helpers.FormatValidationErrors(verrs)
	}
	return map[string]string{"__all__": err.Error()}
}
