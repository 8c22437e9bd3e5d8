// Package remote implements service.Backend against the storefront HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"purefood/internal/domain"
	"purefood/internal/kvstore"
	"purefood/internal/middleware"
	"purefood/internal/repository"
	"purefood/internal/service"
	"purefood/internal/transport"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// ErrTransport is the parent of every network or protocol failure
var ErrTransport = errors.New("remote backend unavailable")

// TransportError describes a failed round trip. StatusCode is zero when
// no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// Client talks to the HTTP API. The bearer token for admin calls is read
// from the store on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *kvstore.Store
	logger     *zap.Logger
}

// NewClient creates a remote Backend rooted at baseURL (e.g.
// http://localhost:8080/api). The HTTP client has no timeout; callers
// bound requests with their context.
func NewClient(baseURL string, store *kvstore.Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store:  store,
		logger: logger,
	}
}

var _ service.Backend = (*Client)(nil)

type call struct {
	op     string
	method string
	path   string
	body   interface{}
	auth   bool
	// lookup calls address one record by id; a 404 means it is absent
	lookup bool
}

// do performs the request and decodes a 2xx body into out. A 404 on a
// lookup call returns found=false; every other failure, including a 404
// on a collection call, is a TransportError.
func (c *Client) do(ctx context.Context, req call, out interface{}) (found bool, err error) {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return false, fmt.Errorf("failed to encode %s request: %w", req.op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return false, &TransportError{Op: req.op, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.auth {
		if token, ok := c.store.Get(ctx, kvstore.TokenKey); ok {
			httpReq.Header.Set("Authorization", "Bearer "+string(token))
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Remote backend request failed", zap.String("op", req.op), zap.Error(err))
		return false, &TransportError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && req.lookup {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, c.statusError(req.op, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, &TransportError{Op: req.op, StatusCode: resp.StatusCode, Err: err}
		}
	}
	return true, nil
}

// statusError turns a non-2xx response into a typed error. Validation
// rejections keep their user-facing message.
func (c *Client) statusError(op string, resp *http.Response) error {
	var envelope middleware.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	message := envelope.Error.Message

	c.logger.Warn("Remote backend rejected request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("message", message),
	)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if field, ok := firstValidationField(envelope); ok {
			return &domain.ValidationError{Field: field, Message: message}
		}
	case http.StatusUnauthorized:
		if op == "login" {
			return service.ErrInvalidCredentials
		}
	}
	return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: message}
}

func firstValidationField(envelope middleware.ErrorResponse) (string, bool) {
	list, ok := envelope.Error.Details["validation_errors"].([]interface{})
	if !ok || len(list) == 0 {
		return "", false
	}
	first, ok := list[0].(map[string]interface{})
	if !ok {
		return "", false
	}
	field, ok := first["field"].(string)
	return field, ok
}

func (c *Client) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var wire []transport.ProductResponse
	if _, err := c.do(ctx, call{op: "list products", method: http.MethodGet, path: "/products"}, &wire); err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(wire))
	for _, p := range wire {
		products = append(products, p.Product())
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var wire transport.ProductResponse
	found, err := c.do(ctx, call{op: "get product", method: http.MethodGet, path: "/products/" + url.PathEscape(id), lookup: true}, &wire)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrProductNotFound
	}
	return wire.Product(), nil
}

func (c *Client) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	var wire transport.ProductResponse
	if _, err := c.do(ctx, call{op: "create product", method: http.MethodPost, path: "/products", body: input, auth: true}, &wire); err != nil {
		return nil, err
	}
	return wire.Product(), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	var wire transport.ProductResponse
	found, err := c.do(ctx, call{op: "update product", method: http.MethodPut, path: "/products/" + url.PathEscape(id), body: patch, auth: true, lookup: true}, &wire)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrProductNotFound
	}
	return wire.Product(), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return c.do(ctx, call{op: "delete product", method: http.MethodDelete, path: "/products/" + url.PathEscape(id), auth: true, lookup: true}, nil)
}

func (c *Client) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	var wire []transport.OrderResponse
	if _, err := c.do(ctx, call{op: "list orders", method: http.MethodGet, path: "/orders", auth: true}, &wire); err != nil {
		return nil, err
	}
	return toOrders(wire), nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var wire transport.OrderResponse
	found, err := c.do(ctx, call{op: "get order", method: http.MethodGet, path: "/orders/" + url.PathEscape(id), lookup: true}, &wire)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrOrderNotFound
	}
	return wire.Order(), nil
}

func (c *Client) TrackOrders(ctx context.Context, phone string) ([]*domain.Order, error) {
	if strings.TrimSpace(phone) == "" {
		return []*domain.Order{}, nil
	}
	var wire []transport.OrderResponse
	path := "/orders/track?phone=" + url.QueryEscape(strings.TrimSpace(phone))
	if _, err := c.do(ctx, call{op: "track orders", method: http.MethodGet, path: path}, &wire); err != nil {
		return nil, err
	}
	return toOrders(wire), nil
}

func (c *Client) CreateOrder(ctx context.Context, order domain.NewOrder) (*domain.Order, error) {
	var wire transport.OrderResponse
	body := transport.NewCreateOrderRequest(order)
	if _, err := c.do(ctx, call{op: "create order", method: http.MethodPost, path: "/orders", body: body}, &wire); err != nil {
		return nil, err
	}
	return wire.Order(), nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	var wire transport.OrderResponse
	body := transport.UpdateStatusRequest{Status: string(status)}
	found, err := c.do(ctx, call{op: "update order status", method: http.MethodPut, path: "/orders/" + url.PathEscape(id), body: body, auth: true, lookup: true}, &wire)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrOrderNotFound
	}
	return wire.Order(), nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) (bool, error) {
	return c.do(ctx, call{op: "delete order", method: http.MethodDelete, path: "/orders/" + url.PathEscape(id), auth: true, lookup: true}, nil)
}

func (c *Client) GetOrderStats(ctx context.Context) (*domain.SalesStats, error) {
	var wire transport.StatsResponse
	if _, err := c.do(ctx, call{op: "get order stats", method: http.MethodGet, path: "/orders/stats", auth: true}, &wire); err != nil {
		return nil, err
	}
	return wire.SalesStats(), nil
}

// Login returns the token without storing it; session.Gate owns storage
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var wire transport.LoginResponse
	body := transport.LoginRequest{Username: username, Password: password}
	if _, err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/auth/login", body: body}, &wire); err != nil {
		return "", err
	}
	if wire.Token == "" {
		return "", &TransportError{Op: "login", StatusCode: http.StatusOK, Message: "empty token"}
	}
	return wire.Token, nil
}

func toOrders(wire []transport.OrderResponse) []*domain.Order {
	orders := make([]*domain.Order, 0, len(wire))
	for _, o := range wire {
		orders = append(orders, o.Order())
	}
	return orders
}
