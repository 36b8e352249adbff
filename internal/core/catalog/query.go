package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Sort orders a product listing.
type Sort string

const (
	SortNone      Sort = ""
	SortNewest    Sort = "newest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
)

// AllCategories matches products of every category.
const AllCategories = "all"

// DefaultSuggestionLimit caps Suggest when no limit is given.
const DefaultSuggestionLimit = 5

// ParseSort validates a sort name. The empty string means no ordering.
func ParseSort(s string) (Sort, error) {
	switch v := Sort(strings.ToLower(strings.TrimSpace(s))); v {
	case SortNone, SortNewest, SortPriceLow, SortPriceHigh, SortRating:
		return v, nil
	default:
		return SortNone, fmt.Errorf("unknown sort %q (want newest, price-low, price-high or rating)", s)
	}
}

// Query filters and orders a product listing.
type Query struct {
	Search   string   // case-insensitive title substring
	Category string   // category slug; empty or "all" matches everything
	MinPrice *float64 // inclusive
	MaxPrice *float64 // inclusive
	Pattern  string   // glob matched against the product ID
	Sort     Sort
}

// Validate reports a malformed glob pattern.
func (q Query) Validate() error {
	if q.Pattern != "" && !doublestar.ValidatePattern(q.Pattern) {
		return fmt.Errorf("invalid id pattern %q", q.Pattern)
	}
	return nil
}

// Match reports whether p satisfies every filter of q.
func (q Query) Match(p Product) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
		return false
	}
	if q.Category != "" && q.Category != AllCategories && p.Category.Slug != q.Category {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.Pattern != "" {
		ok, err := doublestar.Match(q.Pattern, p.ID)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// Filter returns the products matching q in q's order. The input slice is
// not modified.
func Filter(products []Product, q Query) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Match(p) {
			out = append(out, p)
		}
	}

	if less := comparator(q.Sort); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

// Suggest returns up to limit products whose title contains query.
func Suggest(products []Product, query string, limit int) []Product {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	q := strings.ToLower(query)
	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func comparator(s Sort) func(a, b Product) int {
	switch s {
	case SortPriceLow:
		return func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		return func(a, b Product) int { return cmp.Compare(ratingOrZero(b), ratingOrZero(a)) }
	case SortNewest:
		return func(a, b Product) int { return compareSourceID(b.SourceID, a.SourceID) }
	default:
		return nil
	}
}

func ratingOrZero(p Product) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// compareSourceID orders numeric ids numerically; non-numeric ids sort after
// numeric ones and compare lexically among themselves.
func compareSourceID(a, b SourceID) int {
	an, aok := a.Int()
	bn, bok := b.Int()
	switch {
	case aok && bok:
		return cmp.Compare(an, bn)
	case aok:
		return 1
	case bok:
		return -1
	default:
		return strings.Compare(string(a), string(b))
	}
}
