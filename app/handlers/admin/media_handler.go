package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-catalog-admin/app/services"
	"github.com/gorilla/mux"
)

// ServeMedia serves stored uploads, substituting the default image for
// missing files.
func (h *AdminHandler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["path"]
	f, err := h.storage.Open(name)
	if err != nil {
		if errors.Is(err, services.ErrMediaNotFound) || errors.Is(err, services.ErrInvalidPath) {
			http.NotFound(w, r)
			return
		}
		log.Printf("ServeMedia: failed to open %s: %v", name, err)
		http.Error(w, "failed to open media", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		log.Printf("ServeMedia: failed to stat %s: %v", name, err)
		http.Error(w, "failed to open media", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", services.ContentType(f))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}
