package changelist

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Choice struct {
	Value string
	Label string
}

// Filter narrows a change list from its own query keys and describes the
// sidebar widget that sets them.
type Filter interface {
	Keys() []string
	Apply(tx *gorm.DB, p Params) *gorm.DB
	View(ctx context.Context, p Params) (FilterView, error)
}

const (
	KindDropdown      = "dropdown"
	KindDateRange     = "daterange"
	KindDateTimeRange = "datetimerange"
)

type FilterView struct {
	Title   string
	Kind    string
	Options []FilterOption
	Fields  []RangeField
	Hidden  []Hidden
	Reset   string
	Error   string
}

type FilterOption struct {
	Label    string
	URL      string
	Selected bool
}

type RangeField struct {
	Name      string
	Label     string
	Value     string
	InputType string
}

// ChoiceFilter matches one column exactly against a value picked from a
// dropdown. Choices is called at render time so the list reflects live data.
type ChoiceFilter struct {
	Param   string
	Column  string
	Title   string
	Choices func(ctx context.Context) ([]Choice, error)
}

func (f ChoiceFilter) Keys() []string {
	return []string{f.Param}
}

func (f ChoiceFilter) Apply(tx *gorm.DB, p Params) *gorm.DB {
	v := p.Get(f.Param)
	if v == "" {
		return tx
	}
	return tx.Where(fmt.Sprintf("%s = ?", f.Column), v)
}

func (f ChoiceFilter) View(ctx context.Context, p Params) (FilterView, error) {
	view := FilterView{Title: f.Title, Kind: KindDropdown}
	current := p.Get(f.Param)
	view.Options = append(view.Options, FilterOption{
		Label:    "All",
		URL:      p.With(nil, f.Param),
		Selected: current == "",
	})
	if f.Choices == nil {
		return view, nil
	}
	choices, err := f.Choices(ctx)
	if err != nil {
		return view, fmt.Errorf("failed to load choices for %s: %w", f.Title, err)
	}
	for _, c := range choices {
		view.Options = append(view.Options, FilterOption{
			Label:    c.Label,
			URL:      p.With(map[string]string{f.Param: c.Value}),
			Selected: current == c.Value,
		})
	}
	return view, nil
}

const (
	dateLayout         = "2006-01-02"
	dateTimeLayout     = "2006-01-02T15:04"
	dateTimeLongLayout = "2006-01-02T15:04:05"
)

// RangeFilter bounds a date or datetime column on both ends. Both bounds are
// inclusive; a date upper bound covers the whole day.
type RangeFilter struct {
	Param    string
	Column   string
	Title    string
	WithTime bool
}

func (f RangeFilter) gteKey() string { return f.Param + "__range__gte" }
func (f RangeFilter) lteKey() string { return f.Param + "__range__lte" }

func (f RangeFilter) Keys() []string {
	return []string{f.gteKey(), f.lteKey()}
}

func (f RangeFilter) parse(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{dateLayout}
	if f.WithTime {
		layouts = []string{dateTimeLongLayout, dateTimeLayout, dateLayout}
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Bounds returns the parsed lower and upper bounds; a zero time means unbounded.
func (f RangeFilter) Bounds(p Params) (from, to time.Time, err error) {
	if s := p.Get(f.gteKey()); s != "" {
		t, ok := f.parse(s)
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid %s start %q", f.Title, s)
		}
		from = t
	}
	if s := p.Get(f.lteKey()); s != "" {
		t, ok := f.parse(s)
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid %s end %q", f.Title, s)
		}
		to = t
	}
	return from, to, nil
}

func (f RangeFilter) Apply(tx *gorm.DB, p Params) *gorm.DB {
	from, to, err := f.Bounds(p)
	if err != nil {
		return tx
	}
	if !from.IsZero() {
		tx = tx.Where(fmt.Sprintf("%s >= ?", f.Column), from)
	}
	if !to.IsZero() {
		if f.WithTime && len(p.Get(f.lteKey())) > len(dateLayout) {
			tx = tx.Where(fmt.Sprintf("%s <= ?", f.Column), to)
		} else {
			tx = tx.Where(fmt.Sprintf("%s < ?", f.Column), to.AddDate(0, 0, 1))
		}
	}
	return tx
}

func (f RangeFilter) View(ctx context.Context, p Params) (FilterView, error) {
	kind, input := KindDateRange, "date"
	if f.WithTime {
		kind, input = KindDateTimeRange, "datetime-local"
	}
	view := FilterView{
		Title: f.Title,
		Kind:  kind,
		Fields: []RangeField{
			{Name: f.gteKey(), Label: "From", Value: p.Get(f.gteKey()), InputType: input},
			{Name: f.lteKey(), Label: "To", Value: p.Get(f.lteKey()), InputType: input},
		},
		Hidden: p.HiddenInputs(f.gteKey(), f.lteKey(), PageVar),
		Reset:  p.With(nil, f.gteKey(), f.lteKey()),
	}
	if _, _, err := f.Bounds(p); err != nil {
		view.Error = err.Error()
	}
	return view, nil
}
