package changelist

type Paginator struct {
	Total      int64
	PerPage    int
	Page       int
	ShowAll    bool
	CanShowAll bool
}

func NewPaginator(total int64, perPage, page int, showAll bool, maxShowAll int) Paginator {
	if perPage < 1 {
		perPage = defaultPer
	}
	pg := Paginator{Total: total, PerPage: perPage, Page: page}
	pg.CanShowAll = total <= int64(maxShowAll)
	pg.ShowAll = showAll && pg.CanShowAll
	if pg.ShowAll {
		pg.Page = 1
	}
	if pg.Page < 1 {
		pg.Page = 1
	}
	if n := pg.NumPages(); pg.Page > n {
		pg.Page = n
	}
	return pg
}

func (pg Paginator) NumPages() int {
	if pg.Total == 0 || pg.ShowAll {
		return 1
	}
	return int((pg.Total + int64(pg.PerPage) - 1) / int64(pg.PerPage))
}

func (pg Paginator) Offset() int {
	if pg.ShowAll {
		return 0
	}
	return (pg.Page - 1) * pg.PerPage
}

// Limit is -1 when every row is shown, which gorm reads as no limit.
func (pg Paginator) Limit() int {
	if pg.ShowAll {
		return -1
	}
	return pg.PerPage
}

func (pg Paginator) Multipage() bool {
	return pg.NumPages() > 1
}

func (pg Paginator) HasPrev() bool { return pg.Page > 1 }
func (pg Paginator) HasNext() bool { return pg.Page < pg.NumPages() }

// Pages lists the page numbers to link, with 0 standing for an elided gap.
func (pg Paginator) Pages() []int {
	n := pg.NumPages()
	if n <= 10 {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}
	var out []int
	last := 0
	for i := 1; i <= n; i++ {
		if i <= 2 || i > n-2 || (i >= pg.Page-3 && i <= pg.Page+3) {
			if last != 0 && i != last+1 {
				out = append(out, 0)
			}
			out = append(out, i)
			last = i
		}
	}
	return out
}
