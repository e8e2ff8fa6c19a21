package changelist

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	SearchVar  = "q"
	OrderVar   = "o"
	PageVar    = "p"
	AllVar     = "all"
	YearVar    = "year"
	MonthVar   = "month"
	DayVar     = "day"
	defaultPer = 20
)

// Params is the parsed state of a change-list request. Only the keys a
// Config knows about survive parsing, so links built from Params never carry
// unrelated query values.
type Params struct {
	Search  string
	Order   string
	Page    int
	ShowAll bool
	Year    int
	Month   int
	Day     int
	values  url.Values
}

func (p Params) Get(key string) string {
	return p.values.Get(key)
}

func (p Params) Values() url.Values {
	out := url.Values{}
	for k, v := range p.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// With returns the query string for p with set applied and drop removed.
// Any change other than a page change resets the page.
func (p Params) With(set map[string]string, drop ...string) string {
	v := p.Values()
	resetPage := false
	for k, val := range set {
		if k != PageVar {
			resetPage = true
		}
		if val == "" {
			v.Del(k)
			continue
		}
		v.Set(k, val)
	}
	for _, k := range drop {
		if k != PageVar {
			resetPage = true
		}
		v.Del(k)
	}
	if resetPage {
		if _, ok := set[PageVar]; !ok {
			v.Del(PageVar)
		}
	}
	if len(v) == 0 {
		return "?"
	}
	return "?" + v.Encode()
}

// QueryString is the encoded form of every retained key.
func (p Params) QueryString() string {
	return p.values.Encode()
}

type Hidden struct {
	Name  string
	Value string
}

// HiddenInputs lists the retained keys except the given ones, sorted by name,
// for forms that must preserve the current filters.
func (p Params) HiddenInputs(except ...string) []Hidden {
	skip := map[string]bool{}
	for _, e := range except {
		skip[e] = true
	}
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		if !skip[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]Hidden, 0, len(keys))
	for _, k := range keys {
		out = append(out, Hidden{Name: k, Value: p.values.Get(k)})
	}
	return out
}

func (p Params) HasFilters() bool {
	for k := range p.values {
		switch k {
		case OrderVar, PageVar, AllVar:
		default:
			return true
		}
	}
	return false
}

func parseParams(values url.Values, keys map[string]bool) Params {
	kept := url.Values{}
	for k, v := range values {
		if len(v) == 0 || strings.TrimSpace(v[0]) == "" {
			continue
		}
		if keys[k] {
			kept.Set(k, strings.TrimSpace(v[0]))
		}
	}

	p := Params{values: kept}
	p.Search = kept.Get(SearchVar)
	p.Order = kept.Get(OrderVar)
	p.Page = positiveInt(kept.Get(PageVar), 1)
	p.ShowAll = kept.Get(AllVar) != ""
	p.Year = positiveInt(kept.Get(YearVar), 0)
	p.Month = positiveInt(kept.Get(MonthVar), 0)
	p.Day = positiveInt(kept.Get(DayVar), 0)
	if p.Month > 12 {
		p.Month = 0
	}
	if p.Year == 0 {
		p.Month = 0
	}
	if p.Month == 0 || p.Day > 31 {
		p.Day = 0
	}
	return p
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
