// Package upstream fetches raw product listings from the public catalog APIs.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/storefront/internal/core/catalog"
)

// Provider names an upstream API.
type Provider string

const (
	ProviderDummyJSON Provider = "dummyjson"
	ProviderFakeStore Provider = "fakestore"
)

// LoaderSpec describes where a category's products come from: one provider
// and the provider-side category names to merge, in order.
type LoaderSpec struct {
	Provider Provider
	Segments []string
}

const (
	defaultDummyJSONURL = "https://dummyjson.com"
	defaultFakeStoreURL = "https://fakestoreapi.com"
	defaultTimeout      = 10 * time.Second
	maxBodySize         = 8 << 20
)

// Options configures a Client.
type Options struct {
	DummyJSONURL string
	FakeStoreURL string
	Timeout      time.Duration
	HTTPClient   *http.Client // overrides Timeout when set
	Logger       zerolog.Logger
}

// Client fetches raw products from the upstream APIs.
type Client struct {
	http      *http.Client
	dummyJSON string
	fakeStore string
	log       zerolog.Logger
}

// New returns a Client for the given options. Empty fields take the public
// API defaults.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		http:      httpClient,
		dummyJSON: baseURL(opts.DummyJSONURL, defaultDummyJSONURL),
		fakeStore: baseURL(opts.FakeStoreURL, defaultFakeStoreURL),
		log:       opts.Logger,
	}
}

func baseURL(v, fallback string) string {
	if v == "" {
		v = fallback
	}
	return strings.TrimRight(v, "/")
}

// Fetch requests every segment of spec in parallel and returns the raw
// products concatenated in segment order. Any failed segment fails the whole
// fetch.
func (c *Client) Fetch(ctx context.Context, spec LoaderSpec) ([]catalog.RawProduct, error) {
	results := make([][]catalog.RawProduct, len(spec.Segments))

	g, ctx := errgroup.WithContext(ctx)
	for i, segment := range spec.Segments {
		g.Go(func() error {
			raws, err := c.FetchSegment(ctx, spec.Provider, segment)
			if err != nil {
				return err
			}
			results[i] = raws
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]catalog.RawProduct, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// FetchSegment requests one provider-side category.
func (c *Client) FetchSegment(ctx context.Context, provider Provider, segment string) ([]catalog.RawProduct, error) {
	var base string
	switch provider {
	case ProviderDummyJSON:
		base = c.dummyJSON
	case ProviderFakeStore:
		base = c.fakeStore
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	endpoint := base + "/products/category/" + url.PathEscape(segment)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", provider, segment, err)
	}

	raws, err := decode(provider, body)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", provider, segment, err)
	}

	c.log.Debug().
		Str("provider", string(provider)).
		Str("segment", segment).
		Int("products", len(raws)).
		Msg("fetched upstream segment")

	return raws, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "storefront")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close upstream response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// decode reads a provider response. dummyjson wraps the list as
// {"products": [...]} and a missing list means no products; fakestore
// returns the bare array.
func decode(provider Provider, body []byte) ([]catalog.RawProduct, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	switch provider {
	case ProviderDummyJSON:
		var envelope struct {
			Products []any `json:"products"`
		}
		if err := dec.Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		return objects(envelope.Products), nil
	default:
		var list []any
		if err := dec.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		return objects(list), nil
	}
}

// objects keeps the JSON objects of list and skips every other element. It
// never returns nil.
func objects(list []any) []catalog.RawProduct {
	out := make([]catalog.RawProduct, 0, len(list))
	for _, v := range list {
		if obj, ok := v.(map[string]any); ok {
			out = append(out, catalog.RawProduct(obj))
		}
	}
	return out
}
