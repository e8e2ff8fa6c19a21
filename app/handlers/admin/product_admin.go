package admin

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/helpers"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/models/other"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"github.com/Rakhulsr/go-catalog-admin/app/services"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/breadcrumb"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/i18n"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/sessions"
	"github.com/gorilla/mux"
)

const (
	ActionSetStockIn      = "set_stock_in"
	ActionSetStockOut     = "set_stock_out"
	ActionDeleteSelected  = "delete_selected"
	selectedActionField   = "_selected_action"
	displayDateTimeLayout = "Jan. 2, 2006, 15:04:05"
)

// productRow is a product with the computed change-list columns resolved.
type productRow struct {
	models.Product
	ImageURL    string
	ReviewCount int64
	Now         time.Time
}

func emptyValue(s string) template.HTML {
	if s == "" {
		return "-"
	}
	return changelist.Text(s)
}

// ProductAdmin is the change-list configuration of the product admin.
func ProductAdmin(repo repositories.ProductRepositoryImpl) changelist.Config[productRow] {
	return changelist.Config[productRow]{
		Columns: []changelist.Column[productRow]{
			{Name: "image", Label: "Image", Render: func(p productRow) template.HTML { return models.ThumbnailHTML(p.ImageURL) }},
			{Name: "id", Label: "ID", OrderBy: "id", Link: true, Render: func(p productRow) template.HTML { return changelist.Text(p.ID) }},
			{Name: "name", Label: "Name", OrderBy: "name", Link: true, Render: func(p productRow) template.HTML { return changelist.Text(p.Name) }},
			{Name: "is_in_stock", Label: "Is in stock", OrderBy: "is_in_stock", Render: stockCheckbox},
			{Name: "slug", Label: "Slug", OrderBy: "slug", Render: func(p productRow) template.HTML { return emptyValue(p.SlugValue()) }},
			{Name: "country", Label: "Country", OrderBy: "country", Render: func(p productRow) template.HTML {
				if p.Country == nil {
					return "-"
				}
				return changelist.Text(models.CountryLabel(*p.Country))
			}},
			{Name: "create_date", Label: "Create date", OrderBy: "create_date", Render: func(p productRow) template.HTML {
				return changelist.Text(p.CreateDate.UTC().Format(displayDateTimeLayout))
			}},
			{Name: "update_date", Label: "Update date", OrderBy: "update_date", Render: func(p productRow) template.HTML {
				return changelist.Text(p.UpdateDate.UTC().Format(displayDateTimeLayout))
			}},
			{Name: "added_days_ago", Label: "Days", Render: func(p productRow) template.HTML {
				return changelist.Text(models.DaysSince(p.CreateDate, p.Now))
			}},
			{Name: "how_many_reviews", Label: "Count", Render: func(p productRow) template.HTML { return changelist.Text(p.ReviewCount) }},
		},
		Filters: []changelist.Filter{
			changelist.ChoiceFilter{Param: "name", Column: "name", Title: "name", Choices: func(ctx context.Context) ([]changelist.Choice, error) {
				names, err := repo.DistinctNames(ctx)
				if err != nil {
					return nil, err
				}
				choices := make([]changelist.Choice, 0, len(names))
				for _, n := range names {
					choices = append(choices, changelist.Choice{Value: n, Label: n})
				}
				return choices, nil
			}},
			changelist.ChoiceFilter{Param: "country", Column: "country", Title: "country", Choices: func(context.Context) ([]changelist.Choice, error) {
				choices := make([]changelist.Choice, 0, len(models.Countries))
				for _, c := range models.Countries {
					choices = append(choices, changelist.Choice{Value: c.Value, Label: c.Label})
				}
				return choices, nil
			}},
			changelist.RangeFilter{Param: "create_date", Column: "create_date", Title: "create date"},
			changelist.RangeFilter{Param: "update_date", Column: "update_date", Title: "update date", WithTime: true},
		},
		SearchFields:   []changelist.SearchField{{Column: "id", Numeric: true}, {Column: "name"}},
		SearchHelpText: i18n.SearchHelp,
		Ordering:       "-id",
		PerPage:        20,
		MaxShowAll:     999,
		DateHierarchy:  "create_date",
		Actions: []changelist.Action{
			{Name: ActionDeleteSelected, Label: i18n.ActionDelete},
			{Name: ActionSetStockIn, Label: i18n.ActionSetStockIn},
			{Name: ActionSetStockOut, Label: i18n.ActionSetStockOut},
		},
		RowID:     func(p productRow) uint { return p.ID },
		ChangeURL: func(p productRow) string { return changeURL(productsURL, p.ID) },
	}
}

// stockCheckbox renders the inline-editable stock flag. The hidden input
// lists the row so an unchecked box still reaches the bulk edit.
func stockCheckbox(p productRow) template.HTML {
	state := ""
	if p.IsInStock {
		state = " checked"
	}
	return template.HTML(fmt.Sprintf(
		`<input type="hidden" name="form-id" value="%d"><input type="checkbox" name="form-%d-is_in_stock" value="on"%s>`,
		p.ID, p.ID, state))
}

func (h *AdminHandler) GetProductsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.products.Parse(r.URL.Query())
	q := h.products.Query(p)

	products, pg, err := h.productRepo.List(ctx, q)
	if err != nil {
		log.Printf("GetProductsPage: failed to list products: %v", err)
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	ids := make([]uint, 0, len(products))
	for _, pr := range products {
		ids = append(ids, pr.ID)
	}
	counts, err := h.productRepo.ReviewCounts(ctx, ids)
	if err != nil {
		log.Printf("GetProductsPage: failed to count reviews: %v", err)
		http.Error(w, "failed to count reviews", http.StatusInternalServerError)
		return
	}
	now := models.Now()
	rows := make([]productRow, 0, len(products))
	for _, pr := range products {
		rows = append(rows, productRow{Product: pr, ImageURL: h.storage.URL(pr.Image), ReviewCount: counts[pr.ID], Now: now})
	}

	data, err := newChangeList(r, h.products, p, pg, rows)
	if err != nil {
		log.Printf("GetProductsPage: failed to build filters: %v", err)
		http.Error(w, "failed to build filters", http.StatusInternalServerError)
		return
	}
	dates, err := h.productRepo.CreateDates(ctx, q)
	if err != nil {
		log.Printf("GetProductsPage: failed to load date hierarchy: %v", err)
	}
	data.Hierarchy = changelist.DateHierarchy(p, dates)

	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Select product to change",
		breadcrumb.Breadcrumb{Name: "Products", URL: productsURL})
	data.ModelName = "product"
	data.ListURL = productsURL
	data.AddURL = productsURL + "/add"
	data.SearchHelpText = h.translator.Sprintf(r, h.products.SearchHelpText)
	data.Actions = h.translateActions(r, h.products.Actions)
	data.ActionURL = productsURL + "/action"
	data.Editable = true
	data.BulkEditURL = productsURL + "/bulk-edit"
	data.ExportURL = productsURL + "/export" + p.With(nil, changelist.PageVar, changelist.AllVar)
	data.ImportURL = productsURL + "/import"

	h.render.HTML(w, http.StatusOK, "admin/products/index", data)
}

type ProductFormPageData struct {
	other.BasePageData
	IsEdit     bool
	FormAction string
	DeleteURL  string
	Form       *ProductForm
	Errors     map[string]string
	Categories []models.Category
	Countries  []models.Choice
	ImageURL   string
	Preview    template.HTML
}

func (h *AdminHandler) renderProductForm(w http.ResponseWriter, r *http.Request, form *ProductForm, errs map[string]string, status int) {
	data := &ProductFormPageData{
		IsEdit:    form.ID != 0,
		Form:      form,
		Errors:    errs,
		Countries: models.Countries,
		ImageURL:  h.storage.URL(form.Image),
		Preview:   models.PreviewHTML(h.storage.URL(form.Image)),
	}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}

	crumbs := []breadcrumb.Breadcrumb{{Name: "Products", URL: productsURL}}
	title := "Add product"
	data.FormAction = productsURL + "/add"
	if data.IsEdit {
		title = "Change product"
		data.FormAction = changeURL(productsURL, form.ID)
		data.DeleteURL = deleteURL(productsURL, form.ID)
		crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: form.Name, URL: data.FormAction})
	} else {
		crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: "Add product", URL: data.FormAction})
	}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, title, crumbs...)

	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("renderProductForm: failed to load categories: %v", err)
	}
	data.Categories = categories

	h.render.HTML(w, status, "admin/products/form", data)
}

func (h *AdminHandler) AddProductPage(w http.ResponseWriter, r *http.Request) {
	h.renderProductForm(w, r, newProductForm(), nil, http.StatusOK)
}

func (h *AdminHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	form, err := parseProductForm(r)
	if err != nil {
		log.Printf("AddProductPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	h.saveProduct(w, r, &models.Product{}, form)
}

func (h *AdminHandler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	h.renderProductForm(w, r, productFormFrom(product), nil, http.StatusOK)
}

func (h *AdminHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	form, err := parseProductForm(r)
	if err != nil {
		log.Printf("EditProductPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form.ID = product.ID
	form.Image = product.Image
	h.saveProduct(w, r, product, form)
}

// loadProduct resolves the {id} route variable, redirecting to the list when
// the product does not exist.
func (h *AdminHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	raw := mux.Vars(r)["id"]
	id, ok := helpers.ParseID(raw)
	if !ok {
		h.redirectNotFound(w, r, i18n.ModelProduct, raw, productsURL)
		return nil, false
	}
	product, err := h.productRepo.GetByID(r.Context(), id)
	if err != nil {
		h.redirectWithError(w, r, productsURL, err)
		return nil, false
	}
	if product == nil {
		h.redirectNotFound(w, r, i18n.ModelProduct, raw, productsURL)
		return nil, false
	}
	return product, true
}

func (h *AdminHandler) saveProduct(w http.ResponseWriter, r *http.Request, product *models.Product, form *ProductForm) {
	errs := h.validate(form)
	if errs == nil {
		errs = map[string]string{}
	}
	inline, inlineValid := form.inline()
	if !inlineValid {
		errs["reviews"] = h.translator.Sprintf(r, i18n.FixErrors)
	}
	if len(errs) > 0 {
		h.renderProductForm(w, r, form, errs, http.StatusOK)
		return
	}

	oldImage := product.Image
	newImage := ""
	if file, _, err := r.FormFile("image"); err == nil {
		name, saveErr := h.storage.Save(r.Context(), file)
		file.Close()
		if saveErr != nil {
			log.Printf("saveProduct: rejected image: %v", saveErr)
			if errors.Is(saveErr, services.ErrUnsupportedImage) || errors.Is(saveErr, services.ErrImageTooLarge) {
				h.renderProductForm(w, r, form, map[string]string{"image": saveErr.Error()}, http.StatusOK)
				return
			}
			h.redirectWithError(w, r, productsURL, saveErr)
			return
		}
		newImage = name
		product.Image = name
	} else if form.ClearImage {
		product.Image = ""
	}

	form.apply(product)
	created := product.ID == 0
	if err := h.productRepo.Save(r.Context(), product, form.CategoryIDs, inline); err != nil {
		if newImage != "" {
			if delErr := h.storage.Delete(newImage); delErr != nil {
				log.Printf("saveProduct: failed to remove orphaned image %s: %v", newImage, delErr)
			}
		}
		product.Image = oldImage
		switch {
		case errors.Is(err, repositories.ErrInvalidCategory):
			h.renderProductForm(w, r, form, map[string]string{"category": "Select a valid choice. That choice is not one of the available choices."}, http.StatusOK)
		case errors.Is(err, repositories.ErrNotFound):
			h.redirectNotFound(w, r, i18n.ModelProduct, strconv.FormatUint(uint64(product.ID), 10), productsURL)
		default:
			h.redirectWithError(w, r, productsURL, err)
		}
		return
	}
	if oldImage != "" && oldImage != product.Image {
		h.releaseImage(r.Context(), oldImage)
	}

	if created {
		h.flash(w, r, sessions.FlashSuccess, i18n.Added, i18n.ModelProduct, product.Name)
	} else {
		h.flash(w, r, sessions.FlashSuccess, i18n.Changed, i18n.ModelProduct, product.Name)
	}
	http.Redirect(w, r, afterSaveURL(r, productsURL, product.ID), http.StatusSeeOther)
}

// afterSaveURL honours the "save and continue" and "save and add another" buttons.
func afterSaveURL(r *http.Request, base string, id uint) string {
	switch {
	case r.PostFormValue("_continue") != "":
		return changeURL(base, id)
	case r.PostFormValue("_addanother") != "":
		return base + "/add"
	}
	return base
}

// releaseImage removes a stored image once no product refers to it. Imports
// and edits may leave several products on one file.
func (h *AdminHandler) releaseImage(ctx context.Context, image string) {
	if image == "" {
		return
	}
	inUse, err := h.productRepo.ImageInUse(ctx, image)
	if err != nil {
		log.Printf("releaseImage: failed to check references to %s: %v", image, err)
		return
	}
	if inUse {
		return
	}
	if err := h.storage.Delete(image); err != nil {
		log.Printf("releaseImage: failed to remove image %s: %v", image, err)
	}
}

func (h *AdminHandler) DeleteProductPage(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	data := &DeletePageData{
		ModelName: "product",
		Objects:   []string{product.Name},
		Related:   []RelatedCount{{Label: "Reviews", Count: int64(len(product.Reviews))}},
		ActionURL: deleteURL(productsURL, product.ID),
		CancelURL: changeURL(productsURL, product.ID),
	}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Are you sure?",
		breadcrumb.Breadcrumb{Name: "Products", URL: productsURL},
		breadcrumb.Breadcrumb{Name: product.Name, URL: data.CancelURL},
		breadcrumb.Breadcrumb{Name: "Delete", URL: data.ActionURL})
	h.render.HTML(w, http.StatusOK, "admin/delete_confirmation", data)
}

func (h *AdminHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if err := h.productRepo.Delete(r.Context(), product.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.redirectNotFound(w, r, i18n.ModelProduct, strconv.FormatUint(uint64(product.ID), 10), productsURL)
			return
		}
		h.redirectWithError(w, r, productsURL, err)
		return
	}
	h.releaseImage(r.Context(), product.Image)
	h.flash(w, r, sessions.FlashSuccess, i18n.Deleted, i18n.ModelProduct, product.Name)
	http.Redirect(w, r, productsURL, http.StatusSeeOther)
}
