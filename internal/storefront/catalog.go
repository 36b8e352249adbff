// Package storefront holds the services that consumers (CLI, TUI, HTTP API)
// use to browse the catalog, mutate the cart and wishlist, and place orders.
package storefront

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/colonyops/storefront/internal/core/catalog"
	"github.com/colonyops/storefront/internal/storefront/upstream"
	"github.com/colonyops/storefront/pkg/kv"
)

// Fetcher loads the raw products of one category.
type Fetcher interface {
	Fetch(ctx context.Context, spec upstream.LoaderSpec) ([]catalog.RawProduct, error)
}

// CategorySpec pairs a category with where its products come from.
type CategorySpec struct {
	catalog.Category
	Loader upstream.LoaderSpec
}

// Categories is the fixed category table, in display order.
var Categories = []CategorySpec{
	{
		Category: catalog.Category{
			Slug:        "clothes",
			Name:        "Clothes",
			Description: "Adaptive apparel, modular layers, and kinetic fabrics.",
		},
		Loader: upstream.LoaderSpec{
			Provider: upstream.ProviderFakeStore,
			Segments: []string{"men's clothing", "women's clothing"},
		},
	},
	{
		Category: catalog.Category{
			Slug:        "electronics",
			Name:        "Electronics",
			Description: "Ambient tech, sonic instruments, and wearable circuits.",
		},
		Loader: upstream.LoaderSpec{
			Provider: upstream.ProviderDummyJSON,
			Segments: []string{"smartphones", "laptops"},
		},
	},
	{
		Category: catalog.Category{
			Slug:        "furniture",
			Name:        "Furniture",
			Description: "Low-profile seating, floating consoles, and studio essentials.",
		},
		Loader: upstream.LoaderSpec{
			Provider: upstream.ProviderDummyJSON,
			Segments: []string{"furniture"},
		},
	},
	{
		Category: catalog.Category{
			Slug:        "miscellaneous",
			Name:        "Miscellaneous",
			Description: "Atmospheric objects, lumens, and daily carry experiments.",
		},
		Loader: upstream.LoaderSpec{
			Provider: upstream.ProviderDummyJSON,
			Segments: []string{"home-decoration", "lighting"},
		},
	},
}

// CatalogOptions configures a CatalogService.
type CatalogOptions struct {
	Specs          []CategorySpec // defaults to Categories
	Placeholder    string         // image used for products without one
	MaxConcurrency int            // categories fetched at once by LoadAllProducts
	Logger         zerolog.Logger
}

// CatalogService aggregates the upstream APIs into the category table and
// caches each category's normalized products for the life of the process.
//
// A category that fails to load is cached as empty: it is not retried until
// Refresh or Reset drops the entry.
type CatalogService struct {
	fetcher        Fetcher
	normalizer     catalog.Normalizer
	specs          []CategorySpec
	maxConcurrency int
	log            zerolog.Logger

	cache  *kv.Store[string, []catalog.Product]
	flight singleflight.Group
}

// NewCatalogService creates a CatalogService reading from fetcher.
func NewCatalogService(fetcher Fetcher, opts CatalogOptions) *CatalogService {
	specs := opts.Specs
	if specs == nil {
		specs = Categories
	}
	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = len(specs)
	}

	return &CatalogService{
		fetcher:        fetcher,
		normalizer:     catalog.Normalizer{Placeholder: opts.Placeholder},
		specs:          specs,
		maxConcurrency: maxConcurrency,
		log:            opts.Logger,
		cache:          kv.New[string, []catalog.Product](),
	}
}

// ListCategories returns the category table in display order.
func (s *CatalogService) ListCategories() []catalog.Category {
	out := make([]catalog.Category, 0, len(s.specs))
	for _, spec := range s.specs {
		out = append(out, spec.Category)
	}
	return out
}

// Category returns the category with the given slug.
func (s *CatalogService) Category(slug string) (catalog.Category, bool) {
	spec, ok := s.spec(slug)
	return spec.Category, ok
}

func (s *CatalogService) spec(slug string) (CategorySpec, bool) {
	i := slices.IndexFunc(s.specs, func(spec CategorySpec) bool { return spec.Slug == slug })
	if i < 0 {
		return CategorySpec{}, false
	}
	return s.specs[i], true
}

// LoadCategory returns the products of one category. Unknown slugs yield an
// empty list and are not cached. Concurrent first loads of a slug share one
// upstream round trip, which runs to completion even if every caller gives
// up; a caller whose ctx ends first receives an empty list.
//
// The returned products must be treated as read-only.
func (s *CatalogService) LoadCategory(ctx context.Context, slug string) []catalog.Product {
	spec, ok := s.spec(slug)
	if !ok {
		return []catalog.Product{}
	}

	if products, ok := s.cache.Get(slug); ok {
		return slices.Clip(products)
	}

	detached := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(slug, func() (any, error) {
		if products, ok := s.cache.Get(slug); ok {
			return products, nil
		}
		products, _ := s.cache.SetIfAbsent(slug, s.fetch(detached, spec))
		return products, nil
	})

	select {
	case <-ctx.Done():
		return []catalog.Product{}
	case res := <-ch:
		return slices.Clip(res.Val.([]catalog.Product))
	}
}

func (s *CatalogService) fetch(ctx context.Context, spec CategorySpec) []catalog.Product {
	raws, err := s.fetcher.Fetch(ctx, spec.Loader)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("category", spec.Slug).
			Msg("failed to load category products")
		return []catalog.Product{}
	}

	products := s.normalizer.NormalizeAll(raws, spec.Category)
	s.log.Debug().
		Str("category", spec.Slug).
		Int("products", len(products)).
		Msg("loaded category")
	return products
}

// LoadAllProducts loads every category and concatenates them in table order.
// Failed categories contribute nothing.
func (s *CatalogService) LoadAllProducts(ctx context.Context) []catalog.Product {
	groups := make([][]catalog.Product, len(s.specs))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, spec := range s.specs {
		g.Go(func() error {
			groups[i] = s.LoadCategory(ctx, spec.Slug)
			return nil
		})
	}
	_ = g.Wait()

	if out := slices.Concat(groups...); out != nil {
		return out
	}
	return []catalog.Product{}
}

// FindProductByID looks a product up by its catalog ID. The category is the
// ID's prefix, so only that category is loaded.
func (s *CatalogService) FindProductByID(ctx context.Context, id string) (catalog.Product, bool) {
	if id == "" {
		return catalog.Product{}, false
	}

	products := s.LoadCategory(ctx, catalog.SlugFromID(id))
	i := slices.IndexFunc(products, func(p catalog.Product) bool { return p.ID == id })
	if i < 0 {
		return catalog.Product{}, false
	}
	return products[i], true
}

// Search loads every category and applies q.
func (s *CatalogService) Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var products []catalog.Product
	if q.Category != "" && q.Category != catalog.AllCategories {
		products = s.LoadCategory(ctx, q.Category)
	} else {
		products = s.LoadAllProducts(ctx)
	}
	return catalog.Filter(products, q), nil
}

// Refresh drops the cached products of slug so the next load fetches again.
func (s *CatalogService) Refresh(slug string) {
	s.flight.Forget(slug)
	s.cache.Delete(slug)
}

// Reset drops every cached category.
func (s *CatalogService) Reset() {
	for _, spec := range s.specs {
		s.flight.Forget(spec.Slug)
	}
	s.cache.Clear()
}

// Cached returns the number of cached products per loaded category.
func (s *CatalogService) Cached() map[string]int {
	snapshot := s.cache.Snapshot()
	out := make(map[string]int, len(snapshot))
	for slug, products := range snapshot {
		out[slug] = len(products)
	}
	return out
}

// IsCached reports whether slug has been loaded.
func (s *CatalogService) IsCached(slug string) bool {
	return s.cache.Has(slug)
}
