package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// PlaceholderImage is used when an upstream product carries no image.
	PlaceholderImage = "https://via.placeholder.com/400"
	// UntitledProduct is used when an upstream product has neither title nor name.
	UntitledProduct = "Untitled Product"
)

// RawProduct is one product object as decoded from an upstream API.
type RawProduct map[string]any

// Normalizer converts upstream product objects into canonical products.
type Normalizer struct {
	Placeholder string
}

var defaultNormalizer = Normalizer{Placeholder: PlaceholderImage}

// Normalize converts raw into a canonical Product tagged with category using
// the default placeholder image.
func Normalize(raw RawProduct, category Category) Product {
	return defaultNormalizer.Normalize(raw, category)
}

// Normalize converts raw into a canonical Product tagged with category. It
// never fails: every field falls back to a default when missing or malformed.
//
// The upstream id is read from "sourceId" when present so a product that is
// already canonical normalizes to itself.
func (n Normalizer) Normalize(raw RawProduct, category Category) Product {
	srcID := sourceID(raw)

	return Product{
		ID:          category.Slug + IDSeparator + string(srcID),
		SourceID:    srcID,
		Title:       firstString(raw, UntitledProduct, "title", "name"),
		Description: firstString(raw, "", "description"),
		Price:       price(raw["price"]),
		Images:      n.images(raw),
		Category:    category.Ref(),
		Rating:      rating(raw["rating"]),
		Stock:       stock(raw["stock"]),
		Source:      category.Name,
	}
}

// NormalizeAll normalizes every raw product with the same category.
func (n Normalizer) NormalizeAll(raws []RawProduct, category Category) []Product {
	out := make([]Product, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Normalize(raw, category))
	}
	return out
}

// ToRaw converts a canonical product back into the raw object shape.
func ToRaw(p Product) RawProduct {
	images := make([]any, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img)
	}

	raw := RawProduct{
		"id":          p.ID,
		"sourceId":    string(p.SourceID),
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"images":      images,
	}
	if p.Rating != nil {
		raw["rating"] = *p.Rating
	}
	if p.Stock != nil {
		raw["stock"] = *p.Stock
	}
	return raw
}

func sourceID(raw RawProduct) SourceID {
	v, ok := raw["sourceId"]
	if !ok || v == nil {
		v = raw["id"]
	}

	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return SourceID(id)
	case json.Number:
		return SourceID(id.String())
	case float64:
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return SourceID(strconv.FormatInt(int64(id), 10))
		}
		return SourceID(strconv.FormatFloat(id, 'f', -1, 64))
	case int:
		return SourceID(strconv.Itoa(id))
	case int64:
		return SourceID(strconv.FormatInt(id, 10))
	default:
		return SourceID(fmt.Sprint(id))
	}
}

func firstString(raw RawProduct, fallback string, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func price(v any) float64 {
	f, ok := number(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

func (n Normalizer) images(raw RawProduct) []string {
	var out []string

	if list, ok := raw["images"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	if list, ok := raw["images"].([]string); ok {
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
	}

	for _, key := range []string{"image", "thumbnail"} {
		if s, ok := raw[key].(string); ok && s != "" {
			out = append(out, s)
		}
	}

	if len(out) == 0 {
		placeholder := n.Placeholder
		if placeholder == "" {
			placeholder = PlaceholderImage
		}
		return []string{placeholder}
	}
	return out
}

func rating(v any) *float64 {
	if f, ok := jsonNumber(v); ok {
		return &f
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range []string{"rate", "value"} {
		if f, ok := jsonNumber(obj[key]); ok {
			return &f
		}
	}
	return nil
}

func stock(v any) *int {
	f, ok := jsonNumber(v)
	if !ok {
		return nil
	}
	s := int(f)
	return &s
}

// number coerces JSON numbers and numeric strings.
func number(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return jsonNumber(v)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// jsonNumber accepts only numeric values. NaN and infinities are rejected.
func jsonNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
