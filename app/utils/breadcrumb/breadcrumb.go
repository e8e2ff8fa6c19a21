package breadcrumb

type Breadcrumb struct {
	Name string
	URL  string
}

// Trail starts every admin breadcrumb at the admin index.
func Trail(home string, crumbs ...Breadcrumb) []Breadcrumb {
	return append([]Breadcrumb{{Name: home, URL: "/admin/"}}, crumbs...)
}
