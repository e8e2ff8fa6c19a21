package routes

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/handlers/admin"
	"github.com/Rakhulsr/go-catalog-admin/app/middlewares"
	"github.com/Rakhulsr/go-catalog-admin/web"
	"github.com/gorilla/mux"
)

const (
	importRateLimit  = 10
	importRateWindow = time.Minute
)

func NewRouter(h *admin.AdminHandler) *mux.Router {
	router := mux.NewRouter()
	router.StrictSlash(true)

	router.Handle("/", http.RedirectHandler("/admin/", http.StatusFound)).Methods("GET")

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))).Methods("GET", "HEAD")
	router.HandleFunc("/media/{path:.+}", h.ServeMedia).Methods("GET", "HEAD")

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.HandleFunc("/", h.GetIndex).Methods("GET")

	adminRouter.HandleFunc("/categories", h.GetCategoriesPage).Methods("GET")
	adminRouter.HandleFunc("/categories/add", h.AddCategoryPage).Methods("GET")
	adminRouter.HandleFunc("/categories/add", h.AddCategoryPost).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/change", h.EditCategoryPage).Methods("GET")
	adminRouter.HandleFunc("/categories/{id}/change", h.EditCategoryPost).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/delete", h.DeleteCategoryPage).Methods("GET")
	adminRouter.HandleFunc("/categories/{id}/delete", h.DeleteCategoryPost).Methods("POST", "DELETE")

	adminRouter.HandleFunc("/products", h.GetProductsPage).Methods("GET")
	adminRouter.HandleFunc("/products/add", h.AddProductPage).Methods("GET")
	adminRouter.HandleFunc("/products/add", h.AddProductPost).Methods("POST")
	adminRouter.HandleFunc("/products/action", h.ProductActionPost).Methods("POST")
	adminRouter.HandleFunc("/products/bulk-edit", h.BulkEditPost).Methods("POST")
	adminRouter.HandleFunc("/products/export", h.ExportProducts).Methods("GET")
	adminRouter.HandleFunc("/products/import", h.ImportProductsPage).Methods("GET")
	adminRouter.Handle("/products/import", middlewares.RateLimit(importRateLimit, importRateWindow)(http.HandlerFunc(h.ImportProductsPost))).Methods("POST")
	adminRouter.HandleFunc("/products/{id}/change", h.EditProductPage).Methods("GET")
	adminRouter.HandleFunc("/products/{id}/change", h.EditProductPost).Methods("POST")
	adminRouter.HandleFunc("/products/{id}/delete", h.DeleteProductPage).Methods("GET")
	adminRouter.HandleFunc("/products/{id}/delete", h.DeleteProductPost).Methods("POST", "DELETE")

	adminRouter.HandleFunc("/reviews", h.GetReviewsPage).Methods("GET")
	adminRouter.HandleFunc("/reviews/add", h.AddReviewPage).Methods("GET")
	adminRouter.HandleFunc("/reviews/add", h.AddReviewPost).Methods("POST")
	adminRouter.HandleFunc("/reviews/{id}/change", h.EditReviewPage).Methods("GET")
	adminRouter.HandleFunc("/reviews/{id}/change", h.EditReviewPost).Methods("POST")
	adminRouter.HandleFunc("/reviews/{id}/delete", h.DeleteReviewPage).Methods("GET")
	adminRouter.HandleFunc("/reviews/{id}/delete", h.DeleteReviewPost).Methods("POST", "DELETE")

	return router
}

// Wrap is the middleware chain around the router. Method override runs
// first so the router matches the overridden method.
func Wrap(router http.Handler, production bool, outer ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = router
	for i := len(outer) - 1; i >= 0; i-- {
		handler = outer[i](handler)
	}
	handler = middlewares.MethodOverrideMiddleware(handler)
	handler = middlewares.SecureHeaders(production)(handler)
	return middlewares.ServerTiming(handler)
}
