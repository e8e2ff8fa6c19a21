package changelist

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type DateLink struct {
	Label   string
	URL     string
	Back    bool
	Current bool
}

// hierarchyRange is the [from, to) window selected by year, month and day.
func hierarchyRange(p Params) (from, to time.Time, ok bool) {
	switch {
	case p.Year == 0:
		return time.Time{}, time.Time{}, false
	case p.Month == 0:
		from = time.Date(p.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	case p.Day == 0:
		from = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	default:
		from = time.Date(p.Year, time.Month(p.Month), p.Day, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 0, 1), true
	}
}

func applyHierarchy(tx *gorm.DB, column string, p Params) *gorm.DB {
	from, to, ok := hierarchyRange(p)
	if !ok || column == "" {
		return tx
	}
	return tx.Where(fmt.Sprintf("%s >= ? AND %s < ?", column, column), from, to)
}

// DateHierarchy builds the drill-down links for the current level from the
// dates of the rows currently listed.
func DateHierarchy(p Params, dates []time.Time) []DateLink {
	var links []DateLink
	drop := []string{YearVar, MonthVar, DayVar}

	switch {
	case p.Year == 0:
		for _, y := range distinct(dates, func(t time.Time) int { return t.Year() }) {
			links = append(links, DateLink{
				Label: strconv.Itoa(y),
				URL:   p.With(map[string]string{YearVar: strconv.Itoa(y)}, MonthVar, DayVar),
			})
		}
	case p.Month == 0:
		links = append(links, DateLink{Label: "All dates", URL: p.With(nil, drop...), Back: true})
		for _, m := range distinct(dates, func(t time.Time) int { return int(t.Month()) }) {
			links = append(links, DateLink{
				Label: fmt.Sprintf("%s %d", time.Month(m), p.Year),
				URL:   p.With(map[string]string{YearVar: strconv.Itoa(p.Year), MonthVar: strconv.Itoa(m)}, DayVar),
			})
		}
	case p.Day == 0:
		links = append(links, DateLink{Label: strconv.Itoa(p.Year), URL: p.With(nil, MonthVar, DayVar), Back: true})
		for _, d := range distinct(dates, func(t time.Time) int { return t.Day() }) {
			links = append(links, DateLink{
				Label: fmt.Sprintf("%s %d", time.Month(p.Month), d),
				URL: p.With(map[string]string{
					YearVar:  strconv.Itoa(p.Year),
					MonthVar: strconv.Itoa(p.Month),
					DayVar:   strconv.Itoa(d),
				}),
			})
		}
	default:
		links = append(links, DateLink{Label: fmt.Sprintf("%s %d", time.Month(p.Month), p.Year), URL: p.With(nil, DayVar), Back: true})
		links = append(links, DateLink{Label: fmt.Sprintf("%s %d", time.Month(p.Month), p.Day), Current: true})
	}
	return links
}

func distinct(dates []time.Time, key func(time.Time) int) []int {
	seen := map[int]bool{}
	var out []int
	for _, d := range dates {
		k := key(d.UTC())
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Ints(out)
	return out
}
