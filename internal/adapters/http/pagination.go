package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Pagination is the offset window of a listing returned in one response.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

type page[T any] struct {
	Success    bool       `json:"success"`
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// requestedPage reads offset and limit for a listing of total items. A
// negative offset or a limit outside 1..maxPageSize falls back to the default.
func requestedPage(c *fiber.Ctx, total int) Pagination {
	p := Pagination{
		Offset: c.QueryInt("offset", 0),
		Limit:  c.QueryInt("limit", defaultPageSize),
		Total:  total,
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 || p.Limit > maxPageSize {
		p.Limit = defaultPageSize
	}
	return p
}

// lastOffset is the start of the final page, aligned to Limit.
func (p Pagination) lastOffset() int {
	if p.Total <= p.Limit {
		return 0
	}
	return (p.Total - 1) / p.Limit * p.Limit
}

// links returns RFC 8288 url/rel pairs for path, in the form fiber's
// Ctx.Links expects.
func (p Pagination) links(path string) []string {
	at := func(offset int) string {
		return fmt.Sprintf("%s?offset=%d&limit=%d", path, offset, p.Limit)
	}

	out := []string{at(0), "first"}
	if p.Offset > 0 {
		out = append(out, at(max(p.Offset-p.Limit, 0)), "prev")
	}
	if p.Offset+p.Limit < p.Total {
		out = append(out, at(p.Offset+p.Limit), "next")
	}
	return append(out, at(p.lastOffset()), "last")
}

// writePage responds with the window of items described by p and its Link
// header.
func writePage[T any](c *fiber.Ctx, items []T, p Pagination) error {
	data := []T{}
	if p.Offset < len(items) {
		data = items[p.Offset:min(p.Offset+p.Limit, len(items))]
	}
	c.Links(p.links(c.Path())...)
	return c.JSON(page[T]{Success: true, Data: data, Pagination: p})
}
