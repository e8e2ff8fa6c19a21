package admin

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rakhulsr/go-catalog-admin/app/helpers"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/breadcrumb"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/i18n"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/sessions"
)

const changelistFiltersField = "_changelist_filters"

// listReturnURL rebuilds the change-list URL the form was posted from,
// keeping only keys the product list understands.
func (h *AdminHandler) listReturnURL(r *http.Request) string {
	values, err := url.ParseQuery(r.PostFormValue(changelistFiltersField))
	if err != nil {
		return productsURL
	}
	qs := h.products.Parse(values).QueryString()
	if qs == "" {
		return productsURL
	}
	return productsURL + "?" + qs
}

// BulkEditPost saves the inline-editable stock checkboxes of one change-list page.
func (h *AdminHandler) BulkEditPost(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		log.Printf("BulkEditPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	back := h.listReturnURL(r)

	flags := make(map[uint]bool)
	for _, id := range helpers.ParseIDs(r.PostForm["form-id"]) {
		flags[id] = checked(r, fmt.Sprintf("form-%d-is_in_stock", id))
	}
	if len(flags) == 0 {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	changed, err := h.productRepo.UpdateStockFlags(r.Context(), flags)
	if err != nil {
		h.redirectWithError(w, r, back, err)
		return
	}
	h.flash(w, r, sessions.FlashSuccess, i18n.ChangedMany, changed)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// ProductActionPost runs a bulk action over the selected products.
func (h *AdminHandler) ProductActionPost(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		log.Printf("ProductActionPost: failed to parse form: %v", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	back := h.listReturnURL(r)
	action := strings.TrimSpace(r.PostFormValue("action"))
	ids := helpers.ParseIDs(r.PostForm[selectedActionField])

	if action == "" {
		h.flash(w, r, sessions.FlashWarning, i18n.NoAction)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if len(ids) == 0 {
		h.flash(w, r, sessions.FlashWarning, i18n.NoneSelected)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	switch action {
	case ActionSetStockIn, ActionSetStockOut:
		inStock := action == ActionSetStockIn
		count, err := h.productRepo.SetInStock(r.Context(), ids, inStock)
		if err != nil {
			h.redirectWithError(w, r, back, err)
			return
		}
		key := i18n.MarkedOutOfStock
		if inStock {
			key = i18n.MarkedInStock
		}
		h.flash(w, r, sessions.FlashSuccess, key, count)
	case ActionDeleteSelected:
		if r.PostFormValue("post") != "yes" {
			h.confirmDeleteSelected(w, r, ids)
			return
		}
		products, err := h.productRepo.GetByIDs(r.Context(), ids)
		if err != nil {
			h.redirectWithError(w, r, back, err)
			return
		}
		deleted, err := h.productRepo.DeleteMany(r.Context(), ids)
		if err != nil {
			h.redirectWithError(w, r, back, err)
			return
		}
		for _, p := range products {
			h.releaseImage(r.Context(), p.Image)
		}
		h.flash(w, r, sessions.FlashSuccess, i18n.DeletedMany, deleted)
	default:
		h.flash(w, r, sessions.FlashWarning, i18n.NoAction)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *AdminHandler) confirmDeleteSelected(w http.ResponseWriter, r *http.Request, ids []uint) {
	products, err := h.productRepo.GetByIDs(r.Context(), ids)
	if err != nil {
		h.redirectWithError(w, r, productsURL, err)
		return
	}
	if len(products) == 0 {
		h.flash(w, r, sessions.FlashWarning, i18n.NoneSelected)
		http.Redirect(w, r, h.listReturnURL(r), http.StatusSeeOther)
		return
	}

	data := &DeletePageData{
		ModelName: "products",
		ActionURL: productsURL + "/action",
		CancelURL: h.listReturnURL(r),
		IsBulk:    true,
		Hidden: []changelist.Hidden{
			{Name: "action", Value: ActionDeleteSelected},
			{Name: "post", Value: "yes"},
			{Name: changelistFiltersField, Value: r.PostFormValue(changelistFiltersField)},
		},
	}
	var reviews int64
	for _, p := range products {
		data.Objects = append(data.Objects, p.Name)
		data.Hidden = append(data.Hidden, changelist.Hidden{Name: selectedActionField, Value: fmt.Sprint(p.ID)})
	}
	counts, err := h.productRepo.ReviewCounts(r.Context(), ids)
	if err != nil {
		log.Printf("confirmDeleteSelected: failed to count reviews: %v", err)
	}
	for _, n := range counts {
		reviews += n
	}
	data.Related = []RelatedCount{{Label: "Products", Count: int64(len(products))}, {Label: "Reviews", Count: reviews}}

	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Are you sure?",
		breadcrumb.Breadcrumb{Name: "Products", URL: productsURL},
		breadcrumb.Breadcrumb{Name: "Delete multiple objects", URL: productsURL + "/action"})
	h.render.HTML(w, http.StatusOK, "admin/delete_confirmation", data)
}
