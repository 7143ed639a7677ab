// Package pagination parses page/limit/sort/order query params and applies
// them to gorm queries.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"agrovision/pkg/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a validated page request. Column is the resolved SQL column.
type Params struct {
	Page   int
	Limit  int
	Sort   string
	Column string
	Desc   bool
}

// Sortable maps a wire sort key to its column.
type Sortable map[string]string

func Parse(q url.Values, sortable Sortable, defaultSort string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit, Sort: defaultSort, Desc: true}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, apperr.Validation("page deve ser um inteiro >= 1")
		}
		p.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return p, apperr.Validation(fmt.Sprintf("limit deve estar entre 1 e %d", MaxLimit))
		}
		p.Limit = n
	}
	if v := q.Get("sort"); v != "" {
		p.Sort = v
	}
	col, ok := sortable[p.Sort]
	if !ok {
		return p, apperr.Validation("sort inválido: " + p.Sort)
	}
	p.Column = col

	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
		p.Desc = true
	case "asc":
		p.Desc = false
	default:
		return p, apperr.Validation("order deve ser asc ou desc")
	}
	return p, nil
}

func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// Scope orders and windows a query. Ties are broken by id for stable pages.
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	return db.Order(p.Column + " " + dir).Order("id " + dir).Offset(p.Offset()).Limit(p.Limit)
}

type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

func NewPage[T any](data []T, p Params, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Page[T]{Data: data, Pagination: Meta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}}
}
