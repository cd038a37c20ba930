package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
	"github.com/dmitrijs2005/catalogkeeper/internal/netx"
)

// Client is the primary catalog API.
type Client interface {
	FetchAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id models.ID) error
	BulkCreate(ctx context.Context, items []models.Product) ([]models.Product, error)
}

// HTTPClient implements Client over the JSON HTTP API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPClient returns a client for the API at baseURL. An empty baseURL
// yields a client that reports ErrUnavailable for every call.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: api address not configured", ErrUnavailable)
	}
	err := netx.DoJSON(ctx, c.http, netx.Request{
		Method: method,
		URL:    netx.JoinURL(c.baseURL, path),
		Token:  c.token,
		In:     in,
		Out:    out,
	})
	return mapError(err)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case se.Code >= 500:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		default:
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}
	}

	var ue *url.Error
	if errors.As(err, &ue) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("remote error: %w", err)
}

func (c *HTTPClient) FetchAll(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, common.ProductsPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Product{}
	}
	return out, nil
}

func (c *HTTPClient) Create(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPost, common.ProductsPath, p, &out); err != nil {
		return models.Product{}, err
	}
	return out, nil
}

func (c *HTTPClient) Update(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	path := common.ProductsPath + "/" + url.PathEscape(p.ID.String())
	if err := c.do(ctx, http.MethodPut, path, p, &out); err != nil {
		return models.Product{}, err
	}
	return out, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id models.ID) error {
	path := common.ProductsPath + "/" + url.PathEscape(id.String())
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) BulkCreate(ctx context.Context, items []models.Product) ([]models.Product, error) {
	if items == nil {
		items = []models.Product{}
	}
	var out []models.Product
	if err := c.do(ctx, http.MethodPost, common.BulkProductsPath, items, &out); err != nil {
		return nil, err
	}
	return out, nil
}
