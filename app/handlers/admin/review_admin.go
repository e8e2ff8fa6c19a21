package admin

import (
	"context"
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

const reviewDateLayout = "Jan. 2, 2006"

func ReviewAdmin(products repositories.ProductRepositoryImpl) changelist.Config[models.Review] {
	return changelist.Config[models.Review]{
		Columns: []changelist.Column[models.Review]{
			{Name: "__str__", Label: "Review", Link: true, Render: func(rv models.Review) template.HTML { return changelist.Text(rv.String()) }},
			{Name: "is_released", Label: "Is released", OrderBy: "is_released", Render: func(rv models.Review) template.HTML { return changelist.Bool(rv.IsReleased) }},
			{Name: "created_date", Label: "Created date", OrderBy: "created_date", Render: func(rv models.Review) template.HTML {
				return changelist.Text(rv.CreatedDate.UTC().Format(reviewDateLayout))
			}},
		},
		Filters: []changelist.Filter{
			changelist.ChoiceFilter{Param: "product", Column: "product_id", Title: "product", Choices: func(ctx context.Context) ([]changelist.Choice, error) {
				list, err := products.GetChoices(ctx)
				if err != nil {
					return nil, err
				}
				choices := make([]changelist.Choice, 0, len(list))
				for _, p := range list {
					choices = append(choices, changelist.Choice{Value: strconv.FormatUint(uint64(p.ID), 10), Label: p.Name})
				}
				return choices, nil
			}},
		},
		Ordering:   "-id",
		PerPage:    20,
		MaxShowAll: 999,
		RowID:      func(rv models.Review) uint { return rv.ID },
		ChangeURL:  func(rv models.Review) string { return changeURL(reviewsURL, rv.ID) },
	}
}

func (h *AdminHandler) GetReviewsPage(w http.ResponseWriter, r *http.Request) {
	p := h.reviews.Parse(r.URL.Query())
	reviews, pg, err := h.reviewRepo.List(r.Context(), h.reviews.Query(p))
	if err != nil {
		log.Printf("GetReviewsPage: failed to list reviews: %v", err)
		http.Error(w, "failed to list reviews", http.StatusInternalServerError)
		return
	}
	data, err := newChangeList(r, h.reviews, p, pg, reviews)
	if err != nil {
		log.Printf("GetReviewsPage: failed to build filters: %v", err)
		http.Error(w, "failed to build filters", http.StatusInternalServerError)
		return
	}

	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Select review to change",
		breadcrumb.Breadcrumb{Name: "Reviews", URL: reviewsURL})
	data.ModelName = "review"
	data.ListURL = reviewsURL
	data.AddURL = reviewsURL + "/add"

	h.render.HTML(w, http.StatusOK, "admin/reviews/index", data)
}

type ReviewFormPageData struct {
	other.BasePageData
	IsEdit      bool
	FormAction  string
	DeleteURL   string
	Form        *ReviewForm
	Errors      map[string]string
	ProductName string
	ProductURL  string
	LookupURL   string
}

func (h *AdminHandler) renderReviewForm(w http.ResponseWriter, r *http.Request, form *ReviewForm, errs map[string]string, status int) {
	data := &ReviewFormPageData{IsEdit: form.ID != 0, Form: form, Errors: errs, LookupURL: productsURL}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	if id, ok := helpers.ParseID(form.ProductID); ok {
		product, err := h.productRepo.GetByID(r.Context(), id)
		if err != nil {
			log.Printf("renderReviewForm: failed to resolve product %d: %v", id, err)
		} else if product != nil {
			data.ProductName = product.Name
			data.ProductURL = changeURL(productsURL, product.ID)
		}
	}

	crumbs := []breadcrumb.Breadcrumb{{Name: "Reviews", URL: reviewsURL}}
	title := "Add review"
	data.FormAction = reviewsURL + "/add"
	if data.IsEdit {
		title = "Change review"
		data.FormAction = changeURL(reviewsURL, form.ID)
		data.DeleteURL = deleteURL(reviewsURL, form.ID)
		crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: data.ProductName + " - " + form.Review, URL: data.FormAction})
	} else {
		crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: title, URL: data.FormAction})
	}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, title, crumbs...)
	h.render.HTML(w, status, "admin/reviews/form", data)
}

func (h *AdminHandler) AddReviewPage(w http.ResponseWriter, r *http.Request) {
	h.renderReviewForm(w, r, newReviewForm(r.URL.Query().Get("product")), nil, http.StatusOK)
}

func (h *AdminHandler) AddReviewPost(w http.ResponseWriter, r *http.Request) {
	form, err := parseReviewForm(r)
	if err != nil {
		log.Printf("AddReviewPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	h.saveReview(w, r, &models.Review{}, form)
}

func (h *AdminHandler) loadReview(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	raw := mux.Vars(r)["id"]
	id, ok := helpers.ParseID(raw)
	if !ok {
		h.redirectNotFound(w, r, i18n.ModelReview, raw, reviewsURL)
		return nil, false
	}
	review, err := h.reviewRepo.GetByID(r.Context(), id)
	if err != nil {
		h.redirectWithError(w, r, reviewsURL, err)
		return nil, false
	}
	if review == nil {
		h.redirectNotFound(w, r, i18n.ModelReview, raw, reviewsURL)
		return nil, false
	}
	return review, true
}

func (h *AdminHandler) EditReviewPage(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadReview(w, r)
	if !ok {
		return
	}
	h.renderReviewForm(w, r, reviewFormFrom(review), nil, http.StatusOK)
}

func (h *AdminHandler) EditReviewPost(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadReview(w, r)
	if !ok {
		return
	}
	form, err := parseReviewForm(r)
	if err != nil {
		log.Printf("EditReviewPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form.ID = review.ID
	h.saveReview(w, r, review, form)
}

const invalidProductMessage = "Select a valid choice. That choice is not one of the available choices."

func (h *AdminHandler) saveReview(w http.ResponseWriter, r *http.Request, review *models.Review, form *ReviewForm) {
	errs := h.validate(form)
	productID, ok := helpers.ParseID(form.ProductID)
	if errs == nil && !ok {
		errs = map[string]string{"product": invalidProductMessage}
	}
	if errs != nil {
		h.renderReviewForm(w, r, form, errs, http.StatusOK)
		return
	}

	review.ProductID = productID
	review.Review = form.Review
	review.IsReleased = form.IsReleased
	review.Product = nil

	created := review.ID == 0
	var err error
	if created {
		err = h.reviewRepo.Create(r.Context(), review)
	} else {
		err = h.reviewRepo.Update(r.Context(), review)
	}
	if h.handleReviewSaveError(w, r, form, review, err) {
		return
	}

	label := form.Review
	if saved, err := h.reviewRepo.GetByID(r.Context(), review.ID); err == nil && saved != nil {
		label = saved.String()
	}
	if created {
		h.flash(w, r, sessions.FlashSuccess, i18n.Added, i18n.ModelReview, label)
	} else {
		h.flash(w, r, sessions.FlashSuccess, i18n.Changed, i18n.ModelReview, label)
	}
	http.Redirect(w, r, afterSaveURL(r, reviewsURL, review.ID), http.StatusSeeOther)
}

// handleReviewSaveError reports whether err ended the request.
func (h *AdminHandler) handleReviewSaveError(w http.ResponseWriter, r *http.Request, form *ReviewForm, review *models.Review, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, repositories.ErrInvalidProduct):
		h.renderReviewForm(w, r, form, map[string]string{"product": invalidProductMessage}, http.StatusOK)
	case errors.Is(err, repositories.ErrNotFound):
		h.redirectNotFound(w, r, i18n.ModelReview, strconv.FormatUint(uint64(review.ID), 10), reviewsURL)
	default:
		h.redirectWithError(w, r, reviewsURL, err)
	}
	return true
}

func (h *AdminHandler) DeleteReviewPage(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadReview(w, r)
	if !ok {
		return
	}
	data := &DeletePageData{
		ModelName: "review",
		Objects:   []string{review.String()},
		ActionURL: deleteURL(reviewsURL, review.ID),
		CancelURL: changeURL(reviewsURL, review.ID),
	}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Are you sure?",
		breadcrumb.Breadcrumb{Name: "Reviews", URL: reviewsURL},
		breadcrumb.Breadcrumb{Name: review.String(), URL: data.CancelURL},
		breadcrumb.Breadcrumb{Name: "Delete", URL: data.ActionURL})
	h.render.HTML(w, http.StatusOK, "admin/delete_confirmation", data)
}

func (h *AdminHandler) DeleteReviewPost(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadReview(w, r)
	if !ok {
		return
	}
	if err := h.reviewRepo.Delete(r.Context(), review.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			h.redirectNotFound(w, r, i18n.ModelReview, strconv.FormatUint(uint64(review.ID), 10), reviewsURL)
			return
		}
		h.redirectWithError(w, r, reviewsURL, err)
		return
	}
	h.flash(w, r, sessions.FlashSuccess, i18n.Deleted, i18n.ModelReview, review.String())
	http.Redirect(w, r, reviewsURL, http.StatusSeeOther)
}
