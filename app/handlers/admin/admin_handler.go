package admin

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-catalog-admin/app/configs"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/models/other"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"github.com/Rakhulsr/go-catalog-admin/app/services"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/breadcrumb"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/i18n"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
)

type AdminHandler struct {
	render       *render.Render
	validator    *validator.Validate
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	reviewRepo   repositories.ReviewRepositoryImpl
	storage      services.ImageStorage
	sessions     sessions.SessionStore
	translator   *i18n.Translator
	site         configs.SiteConfig

	products   changelist.Config[productRow]
	categories changelist.Config[models.Category]
	reviews    changelist.Config[models.Review]
}

func NewAdminHandler(
	render *render.Render,
	validator *validator.Validate,
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	reviewRepo repositories.ReviewRepositoryImpl,
	storage services.ImageStorage,
	sessions sessions.SessionStore,
	translator *i18n.Translator,
	site configs.SiteConfig,
) *AdminHandler {
	h := &AdminHandler{
		render:       render,
		validator:    validator,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		storage:      storage,
		sessions:     sessions,
		translator:   translator,
		site:         site,
	}
	h.products = ProductAdmin(productRepo)
	h.categories = CategoryAdmin()
	h.reviews = ReviewAdmin(productRepo)
	return h
}

type AdminIndexPageData struct {
	other.BasePageData
	IndexTitle string
	Models     []ModelSummary
}

type ModelSummary struct {
	Name   string
	URL    string
	AddURL string
	Count  int64
}

// DeletePageData backs every delete confirmation, single or bulk.
type DeletePageData struct {
	other.BasePageData
	ModelName string
	Objects   []string
	Related   []RelatedCount
	ActionURL string
	CancelURL string
	Hidden    []changelist.Hidden
	IsBulk    bool
}

type RelatedCount struct {
	Label string
	Count int64
}

func (h *AdminHandler) populateBaseDataForAdmin(w http.ResponseWriter, r *http.Request, base *other.BasePageData, title string, crumbs ...breadcrumb.Breadcrumb) {
	base.Title = title
	base.SiteTitle = h.site.SiteTitle
	base.SiteHeader = h.site.SiteHeader
	base.CSRFField = csrf.TemplateField(r)
	base.Flashes = h.sessions.Flashes(w, r)
	base.Query = r.URL.Query()
	base.Breadcrumbs = breadcrumb.Trail("Home", crumbs...)
	base.CurrentPath = r.URL.Path
	base.IsAdminRoute = strings.HasPrefix(r.URL.Path, "/admin/")
	base.Lang = h.translator.Tag(r).String()
}

// flash queues a translated message for the next page the operator sees.
func (h *AdminHandler) flash(w http.ResponseWriter, r *http.Request, level, key string, args ...interface{}) {
	msg := h.translator.Sprintf(r, key, args...)
	if err := h.sessions.AddFlash(w, r, level, msg); err != nil {
		log.Printf("flash: failed to store message %q: %v", msg, err)
	}
}

func (h *AdminHandler) redirectWithError(w http.ResponseWriter, r *http.Request, to string, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	h.flash(w, r, sessions.FlashError, i18n.GenericError)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *AdminHandler) redirectNotFound(w http.ResponseWriter, r *http.Request, model, id, to string) {
	h.flash(w, r, sessions.FlashWarning, i18n.NotFound, model, id)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *AdminHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	data := &AdminIndexPageData{IndexTitle: h.site.IndexTitle}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Site administration")
	data.Breadcrumbs = nil

	counters := []struct {
		name, url string
		count     func() (int64, error)
	}{
		{"Categories", categoriesURL, func() (int64, error) { return h.categoryRepo.Count(r.Context()) }},
		{"Products", productsURL, func() (int64, error) { return h.productRepo.Count(r.Context()) }},
		{"Reviews", reviewsURL, func() (int64, error) { return h.reviewRepo.Count(r.Context()) }},
	}
	for _, c := range counters {
		n, err := c.count()
		if err != nil {
			log.Printf("GetIndex: failed to count %s: %v", c.name, err)
		}
		data.Models = append(data.Models, ModelSummary{Name: c.name, URL: c.url, AddURL: c.url + "/add", Count: n})
	}

	h.render.HTML(w, http.StatusOK, "admin/index", data)
}

const (
	categoriesURL = "/admin/categories"
	productsURL   = "/admin/products"
	reviewsURL    = "/admin/reviews"
)

func changeURL(base string, id uint) string {
	return fmt.Sprintf("%s/%d/change", base, id)
}

func deleteURL(base string, id uint) string {
	return fmt.Sprintf("%s/%d/delete", base, id)
}
