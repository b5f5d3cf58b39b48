// Package fakestore loads the read-only catalog from a Fake Store API
// compatible HTTP service.
package fakestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tundephilps/test-ecommerce/internal/domain"
)

const (
	productsPath   = "/products"
	categoriesPath = "/products/categories"

	// maxErrorBody caps how much of a failed response is kept for the error.
	maxErrorBody = 512
)

// Client implements domain.CatalogLoader. Each call is a single attempt;
// failures are returned as *domain.FetchError and never retried.
type Client struct {
	baseURL    string
	strict     bool
	httpClient *http.Client
	log        *zerolog.Logger
}

// NewClient creates a catalog client. In strict mode a malformed product
// record fails the whole product load; otherwise the record is skipped.
func NewClient(baseURL string, timeout time.Duration, strict bool, log *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		strict:  strict,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// LoadProducts fetches GET /products.
func (c *Client) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var records []productRecord
	if err := c.getJSON(ctx, domain.ResourceProducts, productsPath, &records); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		p, err := rec.toDomain(i)
		if err != nil {
			if c.strict {
				return nil, err
			}
			c.log.Warn().Err(err).Msg("Skipping malformed product record")
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadCategories fetches GET /products/categories. Duplicate names are
// dropped, keeping the first occurrence.
func (c *Client) LoadCategories(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, domain.ResourceCategories, categoriesPath, &names); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	categories := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		categories = append(categories, name)
	}
	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, resource, path string, out interface{}) error {
	url := c.baseURL + path
	fetchErr := func(status int, err error) error {
		return &domain.FetchError{Resource: resource, URL: url, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetchErr(0, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fetchErr(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fetchErr(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fetchErr(resp.StatusCode, fmt.Errorf("failed to decode body: %w", err))
	}
	return nil
}
