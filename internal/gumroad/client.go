// Package gumroad is a client for the product endpoints of the Gumroad v2
// API.
package gumroad

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

// DefaultBaseURL is the Gumroad v2 API root.
const DefaultBaseURL = "https://api.gumroad.com/v2"

// maxBody caps the size of a response body read into memory.
const maxBody = 16 << 20

// APIError is a failed Gumroad request: either a non-2xx status or a body
// with success set to false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "gumroad: " + e.Message
	}
	return fmt.Sprintf("gumroad: %d %s", e.Status, http.StatusText(e.Status))
}

var _ catalog.Source = (*Client)(nil)

// Client calls the Gumroad API with a bearer token.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(cl *Client) { cl.baseURL = strings.TrimRight(u, "/") }
}

// WithTracerProvider instruments the default transport with tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cl *Client) {
		cl.http = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(tp)),
		}
	}
}

// New creates a Client authenticating with token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL: DefaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every product of the seller, published or not.
func (c *Client) List(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	err := c.get(ctx, "/products", func(d *jx.Decoder, key string) error {
		if key != "products" {
			return d.Skip()
		}
		products = []catalog.Product{}
		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			products = append(products, p)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// Get returns one product. Unknown ids yield catalog.ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (*catalog.Product, error) {
	var product *catalog.Product
	err := c.get(ctx, "/products/"+url.PathEscape(id), func(d *jx.Decoder, key string) error {
		if key != "product" {
			return d.Skip()
		}
		if d.Next() == jx.Null {
			return d.Null()
		}
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		product = &p
		return nil
	})
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get product %s", id)
	}
	if product == nil {
		return nil, catalog.ErrNotFound
	}
	return product, nil
}

// get performs a GET and decodes the response envelope. Keys other than
// success and message are handed to field.
func (c *Client) get(ctx context.Context, path string, field func(d *jx.Decoder, key string) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode}
	}

	success := true
	var message string
	if err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "success":
			if d.Next() != jx.Bool {
				return d.Skip()
			}
			v, err := d.Bool()
			success = v
			return err
		case "message":
			if d.Next() != jx.String {
				return d.Skip()
			}
			v, err := d.Str()
			message = v
			return err
		default:
			return field(d, key)
		}
	}); err != nil {
		return errors.Wrap(err, "decode response")
	}
	if !success {
		return &APIError{Status: resp.StatusCode, Message: message}
	}
	return nil
}
