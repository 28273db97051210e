// Package api is the HTTP client for the tienda REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cajapos/caja/pkg/catalog"
)

// Config configures a Client. BaseURL is required and carries no default:
// the API address is an explicit input, not hidden module state.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string
	// HTTPClient overrides the transport. Defaults to a client with Timeout.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Defaults to 10s.
	Timeout time.Duration
}

// Client talks to the backend. All methods are context-first and return
// *APIError for server rejections with the server's message intact.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}, nil
}

// ListProducts fetches all products.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	err := c.do(ctx, http.MethodGet, "/productos", nil, &out)
	return out, err
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, in catalog.ProductInput) error {
	return c.do(ctx, http.MethodPost, "/productos", in, nil)
}

// UpdateProduct updates the product with in.ID.
func (c *Client) UpdateProduct(ctx context.Context, in catalog.ProductInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/productos/%d", in.ID), in, nil)
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/productos/%d", id), nil, nil)
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	err := c.do(ctx, http.MethodGet, "/categorias", nil, &out)
	return out, err
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in catalog.CategoryInput) error {
	return c.do(ctx, http.MethodPost, "/categorias", in, nil)
}

// DeleteCategory deletes a category. The server cascades the deletion to
// dependent subcategories and products.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categorias/%d", id), nil, nil)
}

// ListSubcategories fetches all subcategories.
func (c *Client) ListSubcategories(ctx context.Context) ([]catalog.Subcategory, error) {
	var out []catalog.Subcategory
	err := c.do(ctx, http.MethodGet, "/subcategorias", nil, &out)
	return out, err
}

// CreateSubcategory creates a subcategory.
func (c *Client) CreateSubcategory(ctx context.Context, in catalog.SubcategoryInput) error {
	return c.do(ctx, http.MethodPost, "/subcategorias", in, nil)
}

// DeleteSubcategory deletes a subcategory.
func (c *Client) DeleteSubcategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/subcategorias/%d", id), nil, nil)
}

// ListTickets fetches all sale tickets.
func (c *Client) ListTickets(ctx context.Context) ([]catalog.Ticket, error) {
	var out []catalog.Ticket
	err := c.do(ctx, http.MethodGet, "/tickets", nil, &out)
	return out, err
}

// FinalizeSale submits the cart as a sale transaction.
func (c *Client) FinalizeSale(ctx context.Context, in catalog.SaleRequest) error {
	return c.do(ctx, http.MethodPost, "/ventas/realizar", in, nil)
}

// do performs one request. body (when non-nil) is JSON-encoded; out (when
// non-nil) receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RequestError{Op: op, Err: err}
		}
	}
	return nil
}

// decodeError extracts the operator-readable message from an error response.
// The backend sends either a bare string body or {"message": ...} /
// {"error": ...} JSON.
func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &APIError{Status: resp.StatusCode}
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Message != "" {
			return &APIError{Status: resp.StatusCode, Message: envelope.Message}
		}
		if envelope.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: envelope.Error}
		}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
