package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tanvicrafts/storefront-backend/pkg/config"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
)

// Client reads product records from the upstream product data source.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

// ListParams filters the product listing.
type ListParams struct {
	Query    string
	Category string
}

// NewClient builds a product source client from config.
func NewClient(cfg config.CatalogConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
	}, nil
}

// List fetches products matching the params.
func (c *Client) List(ctx context.Context, params ListParams) ([]Product, error) {
	endpoint := c.baseURL + "/products"
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var products []Product
	if err := c.getJSON(ctx, endpoint, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID fetches a single product record.
func (c *Client) GetByID(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product Product
	err := c.getJSON(ctx, c.baseURL+"/products/"+url.PathEscape(id), &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Ping verifies the upstream source answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("product source unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build product request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call product source")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("product source returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product payload")
	}
	return nil
}
