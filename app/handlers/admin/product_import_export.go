package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/models/other"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"github.com/Rakhulsr/go-catalog-admin/app/services"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/breadcrumb"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/i18n"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/sessions"
)

// ExportProducts downloads the filtered change list as CSV.
func (h *AdminHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	p := h.products.Parse(r.URL.Query())
	products, err := h.productRepo.All(r.Context(), h.products.Query(p))
	if err != nil {
		h.redirectWithError(w, r, productsURL, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFilename(models.Now())))
	if err := services.WriteProductsCSV(w, products); err != nil {
		log.Printf("ExportProducts: failed to write csv: %v", err)
	}
}

type ImportPageData struct {
	other.BasePageData
	ActionURL string
	Encodings []models.Choice
	Encoding  string
	Error     string
	RowErrors []services.RowError
}

func (h *AdminHandler) renderImport(w http.ResponseWriter, r *http.Request, data *ImportPageData, status int) {
	data.ActionURL = productsURL + "/import"
	data.Encodings = services.ImportEncodings
	if data.Encoding == "" {
		data.Encoding = services.ImportEncodings[0].Value
	}
	h.populateBaseDataForAdmin(w, r, &data.BasePageData, "Import",
		breadcrumb.Breadcrumb{Name: "Products", URL: productsURL},
		breadcrumb.Breadcrumb{Name: "Import", URL: data.ActionURL})
	h.render.HTML(w, status, "admin/products/import", data)
}

func (h *AdminHandler) ImportProductsPage(w http.ResponseWriter, r *http.Request) {
	h.renderImport(w, r, &ImportPageData{}, http.StatusOK)
}

// ImportProductsPost creates rows without an id and updates rows whose id exists.
func (h *AdminHandler) ImportProductsPost(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		log.Printf("ImportProductsPost: failed to parse form: %v", err)
		h.renderImport(w, r, &ImportPageData{Error: "Upload a CSV file."}, http.StatusBadRequest)
		return
	}
	data := &ImportPageData{Encoding: r.PostFormValue("input_encoding")}

	file, _, err := r.FormFile("import_file")
	if err != nil {
		data.Error = "Upload a CSV file."
		h.renderImport(w, r, data, http.StatusOK)
		return
	}
	defer file.Close()

	rows, err := services.ParseProductsCSV(file, data.Encoding)
	if err != nil {
		var rowErrs services.ImportErrors
		if errors.As(err, &rowErrs) {
			data.RowErrors = rowErrs
			data.Error = h.translator.Sprintf(r, i18n.FixErrors)
		} else {
			data.Error = h.translator.Sprintf(r, i18n.ImportFailed, err.Error())
		}
		h.renderImport(w, r, data, http.StatusOK)
		return
	}

	result, err := h.productRepo.Import(r.Context(), rows)
	if err != nil {
		log.Printf("ImportProductsPost: import rolled back: %v", err)
		msg := err.Error()
		if errors.Is(err, repositories.ErrInvalidCategory) {
			msg = "one or more categories do not exist"
		}
		data.Error = h.translator.Sprintf(r, i18n.ImportFailed, msg)
		h.renderImport(w, r, data, http.StatusOK)
		return
	}
	h.flash(w, r, sessions.FlashSuccess, i18n.Imported, result.Created, result.Updated)
	http.Redirect(w, r, productsURL, http.StatusSeeOther)
}
