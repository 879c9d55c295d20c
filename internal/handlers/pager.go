package handlers

import (
	"net/url"
	"strconv"
)

// Pager is the Previous/Next control of a paginated listing. TotalPages comes
// from the API; Page from the query string.
type Pager struct {
	Page       int
	TotalPages int
	path       string
	query      url.Values
}

// NewPager builds a pager whose links keep query and only change "page".
func NewPager(path string, query url.Values, page, totalPages int) Pager {
	if page < 1 {
		page = 1
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return Pager{Page: page, TotalPages: totalPages, path: path, query: query}
}

// PrevDisabled is true exactly on the first page.
func (p Pager) PrevDisabled() bool { return p.Page <= 1 }

// NextDisabled is true exactly on the last page.
func (p Pager) NextDisabled() bool { return p.Page >= p.TotalPages }

func (p Pager) PrevURL() string { return p.link(p.Page - 1) }

func (p Pager) NextURL() string { return p.link(p.Page + 1) }

func (p Pager) link(page int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}
