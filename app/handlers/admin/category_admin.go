package admin

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/go-catalog-admin/app/helpers"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/models/other"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/breadcrumb"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/i18n"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/sessions"
	"github.com/gorilla/mux"
)

func CategoryAdmin() changelist.Config[models.Category] {
	return changelist.Config[models.Category]{
		Columns: []changelist.Column[models.Category]{
			{Name: "id", Label: "ID", OrderBy: "id", Link: true, Render: func(c models.Category) template.HTML { return changelist.Text(c.ID) }},
			{Name: "name", Label: "Name", OrderBy: "name", Link: true, Render: func(c models.Category) template.HTML { return changelist.Text(c.Name) }},
			{Name: "is_active", Label: "Is active", OrderBy: "is_active", Render: func(c models.Category) template.HTML { return changelist.Bool(c.IsActive) }},
		},
		SearchFields:   []changelist.SearchField{{Column: "name"}},
		SearchHelpText: i18n.SearchHelp,
		Ordering:       "-id",
		PerPage:        20,
		MaxShowAll:     999,
		RowID:          func(c models.Category) uint { return c.ID },
		ChangeURL:      func(c models.Category) string { return changeURL(categoriesURL, c.ID) },
	}
}

func (h *AdminHandler) GetCategoriesPage(w http.ResponseWriter, r *http.Request) {
	p := h.categories.Parse(r.URL.Query())
	categories, pg, err := h.categoryRepo.List(r.Context(), h.categories.Query(p))
	if err != nil {
		log.Printf("GetCategoriesPage: failed to list categories: %v", err)
		http.Error(w, "failed to list categories", http.StatusInternalServerError)
		return
	}
	data, err := newChangeList(r, h.categories, p, pg, categories)
	if err != nil {
		log.Printf("GetCategoriesPage: failed to build filters: %v", err)
		http.Error(w, "failed to build filters", http.StatusInternalServerError)
		return
	}

	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Select category to change",
		breadcrumb.Breadcrumb{Name: "Categories", URL: categoriesURL})
	data.ModelName = "category"
	data.ListURL = categoriesURL
	data.AddURL = categoriesURL + "/add"
	data.SearchHelpText = h.translator.Sprintf(r, h.categories.SearchHelpText)

	h.render.HTML(w, http.StatusOK, "admin/categories/index", data)
}

type CategoryFormPageData struct {
	other.BasePageData
	IsEdit     bool
	FormAction string
	DeleteURL  string
	Form       *CategoryForm
	Errors     map[string]string
}

func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, form *CategoryForm, errs map[string]string, status int) {
	data := &CategoryFormPageData{IsEdit: form.ID != 0, Form: form, Errors: errs}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}

	crumbs := []breadcrumb.Breadcrumb{{Name: "Categories", URL: categoriesURL}}
	title := "Add category"
	data.FormAction = categoriesURL + "/add"
	if data.IsEdit {
		title = "Change category"
		data.FormAction = changeURL(categoriesURL, form.ID)
		data.DeleteURL = deleteURL(categoriesURL, form.ID)
		crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: form.Name, URL: data.FormAction})
	} else {
		crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: title, URL: data.FormAction})
	}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, title, crumbs...)
	h.render.HTML(w, status, "admin/categories/form", data)
}

func (h *AdminHandler) AddCategoryPage(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, newCategoryForm(), nil, http.StatusOK)
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	form, err := parseCategoryForm(r)
	if err != nil {
		log.Printf("AddCategoryPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	if errs := h.validate(form); errs != nil {
		h.renderCategoryForm(w, r, form, errs, http.StatusOK)
		return
	}

	category := &models.Category{Name: form.Name, IsActive: form.IsActive}
	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		h.redirectWithError(w, r, categoriesURL, err)
		return
	}
	h.flash(w, r, sessions.FlashSuccess, i18n.Added, i18n.ModelCategory, category.Name)
	http.Redirect(w, r, afterSaveURL(r, categoriesURL, category.ID), http.StatusSeeOther)
}

func (h *AdminHandler) loadCategory(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	raw := mux.Vars(r)["id"]
	id, ok := helpers.ParseID(raw)
	if !ok {
		h.redirectNotFound(w, r, i18n.ModelCategory, raw, categoriesURL)
		return nil, false
	}
	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		h.redirectWithError(w, r, categoriesURL, err)
		return nil, false
	}
	if category == nil {
		h.redirectNotFound(w, r, i18n.ModelCategory, raw, categoriesURL)
		return nil, false
	}
	return category, true
}

func (h *AdminHandler) EditCategoryPage(w http.ResponseWriter, r *http.Request) {
	category, ok := h.loadCategory(w, r)
	if !ok {
		return
	}
	h.renderCategoryForm(w, r, categoryFormFrom(category), nil, http.StatusOK)
}

func (h *AdminHandler) EditCategoryPost(w http.ResponseWriter, r *http.Request) {
	category, ok := h.loadCategory(w, r)
	if !ok {
		return
	}
	form, err := parseCategoryForm(r)
	if err != nil {
		log.Printf("EditCategoryPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form.ID = category.ID
	if errs := h.validate(form); errs != nil {
		h.renderCategoryForm(w, r, form, errs, http.StatusOK)
		return
	}

	category.Name = form.Name
	category.IsActive = form.IsActive
	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.redirectNotFound(w, r, i18n.ModelCategory, strconv.FormatUint(uint64(category.ID), 10), categoriesURL)
			return
		}
		h.redirectWithError(w, r, categoriesURL, err)
		return
	}
	h.flash(w, r, sessions.FlashSuccess, i18n.Changed, i18n.ModelCategory, category.Name)
	http.Redirect(w, r, afterSaveURL(r, categoriesURL, category.ID), http.StatusSeeOther)
}

func (h *AdminHandler) DeleteCategoryPage(w http.ResponseWriter, r *http.Request) {
	category, ok := h.loadCategory(w, r)
	if !ok {
		return
	}
	linked, err := h.categoryRepo.ProductCount(r.Context(), category.ID)
	if err != nil {
		log.Printf("DeleteCategoryPage: failed to count linked products: %v", err)
	}
	data := &DeletePageData{
		ModelName: "category",
		Objects:   []string{category.Name},
		Related:   []RelatedCount{{Label: "Product-category relationships", Count: linked}},
		ActionURL: deleteURL(categoriesURL, category.ID),
		CancelURL: changeURL(categoriesURL, category.ID),
	}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Are you sure?",
		breadcrumb.Breadcrumb{Name: "Categories", URL: categoriesURL},
		breadcrumb.Breadcrumb{Name: category.Name, URL: data.CancelURL},
		breadcrumb.Breadcrumb{Name: "Delete", URL: data.ActionURL})
	h.render.HTML(w, http.StatusOK, "admin/delete_confirmation", data)
}

func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	category, ok := h.loadCategory(w, r)
	if !ok {
		return
	}
	if err := h.categoryRepo.Delete(r.Context(), category.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.redirectNotFound(w, r, i18n.ModelCategory, strconv.FormatUint(uint64(category.ID), 10), categoriesURL)
			return
		}
		h.redirectWithError(w, r, categoriesURL, err)
		return
	}
	h.flash(w, r, sessions.FlashSuccess, i18n.Deleted, i18n.ModelCategory, category.Name)
	http.Redirect(w, r, categoriesURL, http.StatusSeeOther)
}
