// Package catalogclient talks to a DummyJSON-compatible product API.
package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 3 * time.Second

var (
	ErrNotFound    = errors.New("catalog product not found")
	ErrBadStatus   = errors.New("catalog bad status")
	ErrUnavailable = errors.New("catalog unavailable")
)

type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// ListProducts fetches one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, page Page) (ProductsPage, error) {
	q := url.Values{}
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	if page.Skip > 0 {
		q.Set("skip", strconv.Itoa(page.Skip))
	}

	var out ProductsPage
	if err := c.getJSON(ctx, "/products", q, &out); err != nil {
		return ProductsPage{}, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	var p Product
	if err := c.getJSON(ctx, "/products/"+strconv.Itoa(id), nil, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Ping checks that the catalog answers a minimal list request.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{"limit": {"1"}, "select": {"id"}}
	return c.getJSON(ctx, "/products", q, &struct{}{})
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
