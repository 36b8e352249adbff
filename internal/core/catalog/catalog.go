// Package catalog defines the canonical product model shared by every
// storefront component, along with normalization of upstream product data
// and client-side catalog queries.
package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IDSeparator joins a category slug and an upstream id into a product ID.
const IDSeparator = "-"

// Category is one entry of the fixed category table.
type Category struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MarshalJSON adds the "id" field consumers key categories by. It is always
// the slug.
func (c Category) MarshalJSON() ([]byte, error) {
	type alias Category
	return json.Marshal(struct {
		ID string `json:"id"`
		alias
	}{ID: c.Slug, alias: alias(c)})
}

// Ref returns the reference embedded into products of this category.
func (c Category) Ref() CategoryRef {
	return CategoryRef{Slug: c.Slug, Name: c.Name}
}

// CategoryRef identifies the category a product was loaded for.
type CategoryRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// SourceID is the id a product carries in its upstream API. Numeric ids are
// serialized as JSON numbers, anything else as a string.
type SourceID string

func (s SourceID) MarshalJSON() ([]byte, error) {
	if n, ok := s.Int(); ok && strconv.FormatInt(n, 10) == string(s) {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func (s *SourceID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = SourceID(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = SourceID(n.String())
	return nil
}

// Int returns the numeric value of the id and whether it is numeric.
func (s SourceID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(s), 10, 64)
	return n, err == nil
}

// Product is the canonical, upstream-agnostic product.
//
// ID is unique across the whole catalog (category slug + upstream id) and
// Images is never empty.
type Product struct {
	ID          string      `json:"id"`
	SourceID    SourceID    `json:"sourceId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Images      []string    `json:"images"`
	Category    CategoryRef `json:"category"`
	Rating      *float64    `json:"rating,omitempty"`
	Stock       *int        `json:"stock,omitempty"`
	Source      string      `json:"source,omitempty"`
}

// Clone returns a deep copy of p.
func (p Product) Clone() Product {
	out := p
	out.Images = append([]string(nil), p.Images...)
	if p.Rating != nil {
		r := *p.Rating
		out.Rating = &r
	}
	if p.Stock != nil {
		s := *p.Stock
		out.Stock = &s
	}
	return out
}

// Thumbnail returns the first image.
func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// SlugFromID returns the category slug encoded in a product ID, which is the
// text before the first separator.
func SlugFromID(id string) string {
	slug, _, _ := strings.Cut(id, IDSeparator)
	return slug
}
