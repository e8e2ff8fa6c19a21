package other

import (
	"html/template"
	"net/url"

	"github.com/Rakhulsr/go-catalog-admin/app/utils/breadcrumb"
)

// Flash is one operator feedback message carried across a redirect.
type Flash struct {
	Level   string
	Message string
}

type BasePageData struct {
	Title        string
	SiteTitle    string
	SiteHeader   string
	CSRFField    template.HTML
	Flashes      []Flash
	Query        url.Values
	Breadcrumbs  []breadcrumb.Breadcrumb
	CurrentPath  string
	IsAdminRoute bool
	Lang         string
}
