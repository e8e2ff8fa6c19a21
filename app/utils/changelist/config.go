// Package changelist turns a declarative per-model admin configuration into
// filtered, searched, ordered and paginated list pages.
package changelist

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"

	"gorm.io/gorm"
)

type Column[T any] struct {
	Name  string
	Label string
	// OrderBy is the SQL column used when sorting by this column. Columns
	// without one are not sortable.
	OrderBy string
	// Link wraps the cell in a link to the row's change page.
	Link   bool
	Render func(row T) template.HTML
}

type Action struct {
	Name  string
	Label string
}

type Config[T any] struct {
	Columns        []Column[T]
	Filters        []Filter
	SearchFields   []SearchField
	SearchHelpText string
	// Ordering is the default order, a column name optionally prefixed with "-".
	Ordering      string
	PerPage       int
	MaxShowAll    int
	DateHierarchy string
	Actions       []Action
	RowID         func(row T) uint
	ChangeURL     func(row T) string
}

func (c Config[T]) perPage() int {
	if c.PerPage < 1 {
		return defaultPer
	}
	return c.PerPage
}

func (c Config[T]) maxShowAll() int {
	if c.MaxShowAll < 1 {
		return 200
	}
	return c.MaxShowAll
}

// Parse keeps the query keys this configuration understands.
func (c Config[T]) Parse(values url.Values) Params {
	keys := map[string]bool{OrderVar: true, PageVar: true, AllVar: true}
	if len(c.SearchFields) > 0 {
		keys[SearchVar] = true
	}
	if c.DateHierarchy != "" {
		keys[YearVar], keys[MonthVar], keys[DayVar] = true, true, true
	}
	for _, f := range c.Filters {
		for _, k := range f.Keys() {
			keys[k] = true
		}
	}
	return parseParams(values, keys)
}

// Scope applies filters, search and the date hierarchy, leaving ordering and
// pagination to the caller.
func (c Config[T]) Scope(p Params) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		for _, f := range c.Filters {
			tx = f.Apply(tx, p)
		}
		tx = ApplySearch(tx, c.SearchFields, p.Search)
		return applyHierarchy(tx, c.DateHierarchy, p)
	}
}

// sortColumn resolves an ordering token to its column and direction.
func (c Config[T]) sortColumn(token string) (*Column[T], bool) {
	desc := strings.HasPrefix(token, "-")
	name := strings.TrimPrefix(token, "-")
	for i := range c.Columns {
		if c.Columns[i].Name == name && c.Columns[i].OrderBy != "" {
			return &c.Columns[i], desc
		}
	}
	return nil, false
}

// OrderToken is the effective ordering: the requested one if it names a
// sortable column, else the default.
func (c Config[T]) OrderToken(p Params) string {
	if col, _ := c.sortColumn(p.Order); col != nil {
		return p.Order
	}
	return c.Ordering
}

// OrderClause is the SQL ORDER BY for p. A trailing "id DESC" keeps paging
// stable when the sort column has duplicates.
func (c Config[T]) OrderClause(p Params) string {
	col, desc := c.sortColumn(c.OrderToken(p))
	if col == nil {
		return "id DESC"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	clause := fmt.Sprintf("%s %s", col.OrderBy, dir)
	if col.OrderBy != "id" {
		clause += ", id DESC"
	}
	return clause
}

// Query bundles everything a repository needs to fetch one page.
type Query struct {
	Scope      func(*gorm.DB) *gorm.DB
	Order      string
	Page       int
	PerPage    int
	ShowAll    bool
	MaxShowAll int
}

func (c Config[T]) Query(p Params) Query {
	return Query{
		Scope:      c.Scope(p),
		Order:      c.OrderClause(p),
		Page:       p.Page,
		PerPage:    c.perPage(),
		ShowAll:    p.ShowAll,
		MaxShowAll: c.maxShowAll(),
	}
}

func (q Query) Paginator(total int64) Paginator {
	return NewPaginator(total, q.PerPage, q.Page, q.ShowAll, q.MaxShowAll)
}

func (c Config[T]) FilterViews(ctx context.Context, p Params) ([]FilterView, error) {
	views := make([]FilterView, 0, len(c.Filters))
	for _, f := range c.Filters {
		v, err := f.View(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

type Header struct {
	Label    string
	Sortable bool
	Sorted   bool
	Desc     bool
	SortURL  string
}

type Row struct {
	ID    uint
	Cells []template.HTML
}

type Table struct {
	Headers []Header
	Rows    []Row
}

func (c Config[T]) Table(p Params, rows []T) Table {
	current := c.OrderToken(p)
	t := Table{Headers: make([]Header, 0, len(c.Columns))}
	for _, col := range c.Columns {
		h := Header{Label: col.Label, Sortable: col.OrderBy != ""}
		if h.Sortable {
			h.Sorted = strings.TrimPrefix(current, "-") == col.Name
			h.Desc = h.Sorted && strings.HasPrefix(current, "-")
			next := col.Name
			if h.Sorted && !h.Desc {
				next = "-" + col.Name
			}
			h.SortURL = p.With(map[string]string{OrderVar: next})
		}
		t.Headers = append(t.Headers, h)
	}

	for _, row := range rows {
		r := Row{Cells: make([]template.HTML, 0, len(c.Columns))}
		if c.RowID != nil {
			r.ID = c.RowID(row)
		}
		for _, col := range c.Columns {
			var cell template.HTML
			if col.Render != nil {
				cell = col.Render(row)
			}
			if col.Link && c.ChangeURL != nil {
				cell = template.HTML(fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(c.ChangeURL(row)), cell))
			}
			r.Cells = append(r.Cells, cell)
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Text escapes a plain value for use as a cell.
func Text(v interface{}) template.HTML {
	return template.HTML(html.EscapeString(fmt.Sprint(v)))
}

// Bool renders a yes/no icon the way the admin shows boolean columns.
func Bool(v bool) template.HTML {
	if v {
		return template.HTML(`<span class="bool-yes" title="True">&#10004;</span>`)
	}
	return template.HTML(`<span class="bool-no" title="False">&#10008;</span>`)
}
