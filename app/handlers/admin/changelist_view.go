package admin

import (
	"net/http"
	"strconv"

	"github.com/Rakhulsr/go-catalog-admin/app/models/other"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
)

type ChangeListPageData struct {
	other.BasePageData
	ModelName      string
	ListURL        string
	AddURL         string
	Table          changelist.Table
	Filters        []changelist.FilterView
	HasSearch      bool
	Search         string
	SearchHelpText string
	SearchHidden   []changelist.Hidden
	Hierarchy      []changelist.DateLink
	Paginator      changelist.Paginator
	PageLinks      []PageLink
	ShowAllURL     string
	ClearURL       string
	HasFilters     bool
	QueryString    string
	Actions        []changelist.Action
	ActionURL      string
	Editable       bool
	BulkEditURL    string
	ExportURL      string
	ImportURL      string
}

type PageLink struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// newChangeList fills the parts of a list page every model shares.
func newChangeList[T any](r *http.Request, cfg changelist.Config[T], p changelist.Params, pg changelist.Paginator, rows []T) (*ChangeListPageData, error) {
	filters, err := cfg.FilterViews(r.Context(), p)
	if err != nil {
		return nil, err
	}
	data := &ChangeListPageData{
		Table:          cfg.Table(p, rows),
		Filters:        filters,
		HasSearch:      len(cfg.SearchFields) > 0,
		Search:         p.Search,
		SearchHelpText: cfg.SearchHelpText,
		SearchHidden:   p.HiddenInputs(changelist.SearchVar, changelist.PageVar),
		Paginator:      pg,
		HasFilters:     p.HasFilters(),
		QueryString:    p.QueryString(),
	}
	data.ClearURL = p.With(nil, filterKeys(cfg)...)
	if pg.Multipage() {
		for _, n := range pg.Pages() {
			if n == 0 {
				data.PageLinks = append(data.PageLinks, PageLink{Gap: true})
				continue
			}
			data.PageLinks = append(data.PageLinks, PageLink{
				Number:  n,
				URL:     p.With(map[string]string{changelist.PageVar: strconv.Itoa(n)}),
				Current: n == pg.Page,
			})
		}
	}
	if pg.CanShowAll && !pg.ShowAll && pg.Multipage() {
		data.ShowAllURL = p.With(map[string]string{changelist.AllVar: "1"}, changelist.PageVar)
	}
	return data, nil
}

func filterKeys[T any](cfg changelist.Config[T]) []string {
	keys := []string{changelist.SearchVar, changelist.YearVar, changelist.MonthVar, changelist.DayVar}
	for _, f := range cfg.Filters {
		keys = append(keys, f.Keys()...)
	}
	return keys
}

func (h *AdminHandler) translateActions(r *http.Request, actions []changelist.Action) []changelist.Action {
	out := make([]changelist.Action, len(actions))
	for i, a := range actions {
		out[i] = changelist.Action{Name: a.Name, Label: h.translator.Sprintf(r, a.Label)}
	}
	return out
}
