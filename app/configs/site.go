package configs

// SiteConfig holds the admin branding shown in the page title, the navbar and
// the index page heading.
type SiteConfig struct {
	SiteTitle  string
	SiteHeader string
	IndexTitle string
}

var DefaultSiteConfig = SiteConfig{
	SiteTitle:  "Catalog Admin",
	SiteHeader: "Catalog Admin Portal",
	IndexTitle: "Welcome to Catalog Admin Portal",
}
