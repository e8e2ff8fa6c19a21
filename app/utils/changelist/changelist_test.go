package changelist_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/db/testdb"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func productConfig() changelist.Config[models.Product] {
	return changelist.Config[models.Product]{
		Columns: []changelist.Column[models.Product]{
			{Name: "id", Label: "ID", OrderBy: "id", Link: true, Render: func(p models.Product) templateHTML { return changelist.Text(p.ID) }},
			{Name: "name", Label: "Name", OrderBy: "name", Render: func(p models.Product) templateHTML { return changelist.Text(p.Name) }},
			{Name: "days", Label: "Days"},
		},
		Filters: []changelist.Filter{
			changelist.ChoiceFilter{Param: "country__exact", Column: "country", Title: "country", Choices: func(ctx context.Context) ([]changelist.Choice, error) {
				return []changelist.Choice{{Value: "DE", Label: "Germany"}, {Value: "TR", Label: "Turkey"}}, nil
			}},
			changelist.RangeFilter{Param: "create_date", Column: "create_date", Title: "create date"},
			changelist.RangeFilter{Param: "update_date", Column: "update_date", Title: "update date", WithTime: true},
		},
		SearchFields:  []changelist.SearchField{{Column: "id", Numeric: true}, {Column: "name"}},
		Ordering:      "-id",
		PerPage:       2,
		MaxShowAll:    3,
		DateHierarchy: "create_date",
		RowID:         func(p models.Product) uint { return p.ID },
		ChangeURL:     func(p models.Product) string { return "/admin/products/1/change" },
	}
}

func seed(t *testing.T, db *gorm.DB, name, country string, created time.Time) models.Product {
	t.Helper()
	p := models.Product{Name: name, Country: &country, Description: "d", IsInStock: true, CreateDate: created, UpdateDate: created}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func run(t *testing.T, db *gorm.DB, cfg changelist.Config[models.Product], raw string) []models.Product {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q := cfg.Query(cfg.Parse(values))
	var out []models.Product
	require.NoError(t, db.Model(&models.Product{}).Scopes(q.Scope).Order(q.Order).Find(&out).Error)
	return out
}

func names(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestParseDropsUnknownKeys(t *testing.T) {
	cfg := productConfig()
	p := cfg.Parse(url.Values{"q": {"lamp"}, "evil": {"1"}, "country__exact": {"DE"}, "p": {"3"}})

	assert.Equal(t, "lamp", p.Search)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, "", p.Get("evil"))
	assert.Equal(t, "country__exact=DE&p=3&q=lamp", p.QueryString())
	assert.True(t, p.HasFilters())
}

func TestParseSanitizesHierarchy(t *testing.T) {
	p := productConfig().Parse(url.Values{"month": {"4"}, "day": {"2"}})
	assert.Zero(t, p.Month)
	assert.Zero(t, p.Day)

	p = productConfig().Parse(url.Values{"year": {"2024"}, "month": {"13"}})
	assert.Equal(t, 2024, p.Year)
	assert.Zero(t, p.Month)
}

func TestWithResetsPage(t *testing.T) {
	p := productConfig().Parse(url.Values{"q": {"lamp"}, "p": {"3"}})

	assert.Equal(t, "?p=4&q=lamp", p.With(map[string]string{"p": "4"}))
	assert.Equal(t, "?o=name&q=lamp", p.With(map[string]string{"o": "name"}))
	assert.Equal(t, "?", p.With(nil, "q"))
}

func TestSearchMatchesNameAndID(t *testing.T) {
	db := testdb.Open(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	lamp := seed(t, db, "Desk Lamp", "DE", now)
	seed(t, db, "Chair", "TR", now)
	seed(t, db, "Floor lamp", "TR", now)

	cfg := productConfig()
	assert.Equal(t, []string{"Floor lamp", "Desk Lamp"}, names(run(t, db, cfg, "q=LAMP")))
	assert.Equal(t, []string{"Desk Lamp"}, names(run(t, db, cfg, "q=desk+lamp")))
	assert.Equal(t, []string{"Desk Lamp"}, names(run(t, db, cfg, "q="+itoa(lamp.ID))))
	assert.Empty(t, run(t, db, cfg, "q=sofa"))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testdb.Open(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	seed(t, db, "50% off", "DE", now)
	seed(t, db, "500 lamps", "DE", now)
	seed(t, db, "desk_lamp", "DE", now)
	seed(t, db, "deskXlamp", "DE", now)
	seed(t, db, "Wow!", "DE", now)

	cfg := productConfig()
	assert.Equal(t, []string{"50% off"}, names(run(t, db, cfg, "q=50%25")))
	assert.Equal(t, []string{"desk_lamp"}, names(run(t, db, cfg, "q=k_l")))
	assert.Equal(t, []string{"Wow!"}, names(run(t, db, cfg, "q=w!")))
	assert.Empty(t, run(t, db, cfg, "q=%25%25%25"))
}

func TestSearchWithoutTextFieldsRejectsNonNumeric(t *testing.T) {
	db := testdb.Open(t)
	seed(t, db, "Chair", "TR", time.Now().UTC())
	cfg := productConfig()
	cfg.SearchFields = []changelist.SearchField{{Column: "id", Numeric: true}}

	assert.Empty(t, run(t, db, cfg, "q=chair"))
}

func TestChoiceAndRangeFilters(t *testing.T) {
	db := testdb.Open(t)
	seed(t, db, "A", "DE", time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	seed(t, db, "B", "TR", time.Date(2024, 1, 11, 23, 30, 0, 0, time.UTC))
	seed(t, db, "C", "DE", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	cfg := productConfig()
	assert.Equal(t, []string{"C", "A"}, names(run(t, db, cfg, "country__exact=DE")))
	assert.Equal(t, []string{"B", "A"}, names(run(t, db, cfg, "create_date__range__gte=2024-01-10&create_date__range__lte=2024-01-11")))
	assert.Equal(t, []string{"A"}, names(run(t, db, cfg, "update_date__range__lte=2024-01-11T12:00")))
	assert.Len(t, run(t, db, cfg, "create_date__range__gte=garbage"), 3)
}

func TestDateHierarchyNarrowsAndLinks(t *testing.T) {
	db := testdb.Open(t)
	seed(t, db, "A", "DE", time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC))
	seed(t, db, "B", "DE", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	seed(t, db, "C", "DE", time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))

	cfg := productConfig()
	assert.Equal(t, []string{"C", "B"}, names(run(t, db, cfg, "year=2024")))
	assert.Equal(t, []string{"B"}, names(run(t, db, cfg, "year=2024&month=3&day=5")))

	dates := []time.Time{
		time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	years := changelist.DateHierarchy(cfg.Parse(nil), dates)
	require.Len(t, years, 2)
	assert.Equal(t, "2023", years[0].Label)
	assert.Equal(t, "?year=2024", years[1].URL)

	days := changelist.DateHierarchy(cfg.Parse(url.Values{"year": {"2024"}, "month": {"3"}}), dates[1:])
	require.Len(t, days, 3)
	assert.True(t, days[0].Back)
	assert.Equal(t, "March 5", days[1].Label)
	assert.Equal(t, "?day=9&month=3&year=2024", days[2].URL)
}

func TestOrderClause(t *testing.T) {
	cfg := productConfig()
	assert.Equal(t, "id DESC", cfg.OrderClause(cfg.Parse(nil)))
	assert.Equal(t, "name ASC, id DESC", cfg.OrderClause(cfg.Parse(url.Values{"o": {"name"}})))
	assert.Equal(t, "name DESC, id DESC", cfg.OrderClause(cfg.Parse(url.Values{"o": {"-name"}})))
	assert.Equal(t, "id DESC", cfg.OrderClause(cfg.Parse(url.Values{"o": {"days"}})))
	assert.Equal(t, "id DESC", cfg.OrderClause(cfg.Parse(url.Values{"o": {"password"}})))
}

func TestPaginator(t *testing.T) {
	pg := changelist.NewPaginator(45, 20, 1, false, 999)
	assert.Equal(t, 3, pg.NumPages())
	assert.Equal(t, 0, pg.Offset())
	assert.Equal(t, 20, pg.Limit())
	assert.True(t, pg.HasNext())

	pg = changelist.NewPaginator(45, 20, 9, false, 999)
	assert.Equal(t, 3, pg.Page)
	assert.Equal(t, 40, pg.Offset())

	pg = changelist.NewPaginator(45, 20, 2, true, 999)
	assert.True(t, pg.ShowAll)
	assert.Equal(t, -1, pg.Limit())
	assert.Equal(t, 1, pg.NumPages())

	pg = changelist.NewPaginator(1000, 20, 1, true, 999)
	assert.False(t, pg.ShowAll)
	assert.False(t, pg.CanShowAll)
	assert.Equal(t, 20, pg.Limit())

	pg = changelist.NewPaginator(0, 20, 1, false, 999)
	assert.Equal(t, 1, pg.NumPages())
	assert.False(t, pg.Multipage())
}

func TestPaginatorPagesElides(t *testing.T) {
	pg := changelist.NewPaginator(400, 20, 10, false, 999)
	pages := pg.Pages()
	assert.Equal(t, []int{1, 2, 0, 7, 8, 9, 10, 11, 12, 13, 0, 19, 20}, pages)
}

func TestTable(t *testing.T) {
	cfg := productConfig()
	p := cfg.Parse(url.Values{"o": {"name"}})
	table := cfg.Table(p, []models.Product{{ID: 7, Name: "<b>Lamp</b>"}})

	require.Len(t, table.Headers, 3)
	assert.False(t, table.Headers[0].Sorted)
	assert.True(t, table.Headers[1].Sorted)
	assert.Equal(t, "?o=-name", table.Headers[1].SortURL)
	assert.False(t, table.Headers[2].Sortable)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, uint(7), table.Rows[0].ID)
	assert.Equal(t, `<a href="/admin/products/1/change">7</a>`, string(table.Rows[0].Cells[0]))
	assert.Equal(t, "&lt;b&gt;Lamp&lt;/b&gt;", string(table.Rows[0].Cells[1]))
	assert.Empty(t, string(table.Rows[0].Cells[2]))
}

func TestFilterViews(t *testing.T) {
	cfg := productConfig()
	views, err := cfg.FilterViews(context.Background(), cfg.Parse(url.Values{"country__exact": {"TR"}, "create_date__range__gte": {"bad"}}))
	require.NoError(t, err)
	require.Len(t, views, 3)

	country := views[0]
	assert.Equal(t, changelist.KindDropdown, country.Kind)
	require.Len(t, country.Options, 3)
	assert.False(t, country.Options[0].Selected)
	assert.True(t, country.Options[2].Selected)
	assert.True(t, strings.Contains(country.Options[1].URL, "country__exact=DE"))

	assert.Equal(t, changelist.KindDateRange, views[1].Kind)
	assert.NotEmpty(t, views[1].Error)
	assert.Equal(t, "datetime-local", views[2].Fields[0].InputType)
}

func TestFilterViewsPropagatesChoiceErrors(t *testing.T) {
	cfg := productConfig()
	cfg.Filters = []changelist.Filter{changelist.ChoiceFilter{Param: "x", Column: "x", Title: "x", Choices: func(context.Context) ([]changelist.Choice, error) {
		return nil, errors.New("boom")
	}}}
	_, err := cfg.FilterViews(context.Background(), cfg.Parse(nil))
	assert.ErrorContains(t, err, "boom")
}
