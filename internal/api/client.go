package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"managerpanel/internal/model"

	"github.com/shopspring/decimal"
)

// Client wraps interactions with the remote invoice backend. It holds no
// state beyond the base URL; callers supply the bearer token per request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- DTOs ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the payload of a successful POST /auth/login.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type updateStatusRequest struct {
	Status       string `json:"status"`
	ManagerNotes string `json:"managerNotes"`
}

// OrderUpdate carries the fulfilment stage and tracking fields for
// PUT /invoices/:id/order-status.
type OrderUpdate struct {
	OrderStatus  string `json:"orderStatus"`
	TrackingID   string `json:"trackingId"`
	CourierName  string `json:"courierName"`
	TrackingInfo string `json:"trackingInfo"`
}

type orderUpdateResponse struct {
	CommissionAwarded decimal.Decimal `json:"commissionAwarded"`
}

// Login exchanges credentials for a token and identity. Role admission is the
// caller's concern; any 2xx response is returned as-is.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// InvoicesByStatus fetches all invoices in the given review state, in backend
// order. No pagination; the backend returns the full array.
func (c *Client) InvoicesByStatus(ctx context.Context, token, status string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	path := "/invoices/status/" + url.PathEscape(status)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// DashboardStats fetches the aggregate counters and revenue.
func (c *Client) DashboardStats(ctx context.Context, token string) (*model.Stats, error) {
	var stats model.Stats
	if err := c.do(ctx, http.MethodGet, "/manager/dashboard/stats", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UpdateInvoiceStatus moves an invoice to approved or rejected, attaching the
// manager notes (the rejection reason travels in the same field).
func (c *Client) UpdateInvoiceStatus(ctx context.Context, token, invoiceID, status, managerNotes string) error {
	path := "/invoices/" + url.PathEscape(invoiceID) + "/status"
	body := updateStatusRequest{Status: status, ManagerNotes: managerNotes}
	return c.do(ctx, http.MethodPut, path, token, body, nil)
}

// UpdateOrderStatus updates the fulfilment stage and tracking fields of an
// approved invoice. The backend may award the originating agent a commission;
// the amount is returned for display and never stored.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, invoiceID string, update OrderUpdate) (decimal.Decimal, error) {
	var result orderUpdateResponse
	path := "/invoices/" + url.PathEscape(invoiceID) + "/order-status"
	if err := c.do(ctx, http.MethodPut, path, token, update, &result); err != nil {
		return decimal.Zero, err
	}
	return result.CommissionAwarded, nil
}

// do issues one request and decodes the JSON response into out (when non-nil).
// Non-2xx responses become a *Error carrying the backend-supplied message.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
