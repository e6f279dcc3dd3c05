package catalog

import (
	"sort"
	"strings"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
	SortByStock SortKey = "stock"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// CategoryAll passes every category through the filter.
const CategoryAll = "all"

// Query is the displayed-subset selection for the catalog pane.
type Query struct {
	Search   string
	Category string
	SortBy   SortKey
	Order    SortOrder
}

// Filter derives the displayed product subset. Pure: the input slice is
// never mutated and the result is always a fresh slice, so it is safe
// to call on every render.
//
// Search is a case-insensitive substring match on name and SKU.
// Category is an exact id match, or pass-through for CategoryAll/empty.
// Sorting is stable; ties keep catalog order.
func Filter(products []domain.Product, q Query) []domain.Product {
	out := make([]domain.Product, 0, len(products))

	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range products {
		if q.Category != "" && q.Category != CategoryAll && p.CategoryID != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		out = append(out, p)
	}

	desc := q.Order == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case SortByPrice:
			less = out[i].Price.LessThan(out[j].Price)
		case SortByStock:
			less = out[i].Stock < out[j].Stock
		default:
			less = out[i].Name < out[j].Name
		}
		if desc {
			return !less && !equalKey(out[i], out[j], q.SortBy)
		}
		return less
	})

	return out
}

func equalKey(a, b domain.Product, key SortKey) bool {
	switch key {
	case SortByPrice:
		return a.Price.Equal(b.Price)
	case SortByStock:
		return a.Stock == b.Stock
	default:
		return a.Name == b.Name
	}
}
