// Package api is the typed HTTP client for the zargar backend. The backend
// owns all persistence and pricing; this package only moves JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smoradi/zargar/internal/invoice"
)

// APIError is a non-2xx backend response. Detail carries the backend's
// structured error message when one was present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("api: %s (status %d)", e.Detail, e.StatusCode)
}

// ErrorDetail exposes the structured message to callers that fall back to a
// generic text when it is empty (see invoice.Controller.ApplySubmit).
func (e *APIError) ErrorDetail() string { return e.Detail }

// Client talks to the backend. Safe for use from a single bubbletea program;
// not safe for concurrent Login calls.
type Client struct {
	baseURL string
	client  *http.Client

	token     string
	expiresAt time.Time
}

// New creates a client for the given base URL, e.g. "http://localhost:8090".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates and stores the bearer token for subsequent calls. The
// token's expiry is read from its claims without signature verification; the
// backend remains the authority on validity.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	c.token = resp.Token
	c.expiresAt = time.Time{}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, &claims); err == nil && claims.ExpiresAt != nil {
		c.expiresAt = claims.ExpiresAt.Time
	}

	return nil
}

// Authenticated reports whether the client holds a token that has not
// visibly expired.
func (c *Client) Authenticated() bool {
	if c.token == "" {
		return false
	}

	return c.expiresAt.IsZero() || time.Now().Before(c.expiresAt)
}

// ListCustomers returns all customers.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.do(ctx, http.MethodGet, "/api/v1/customers", nil, &out); err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	return out, nil
}

// CreateCustomer adds a customer record.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/api/v1/customers", params, &out); err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	return &out, nil
}

// UpdateCustomer updates the writable fields of a customer.
func (c *Client) UpdateCustomer(ctx context.Context, id string, params CustomerParams) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPut, "/api/v1/customers/"+id, params, &out); err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}

	return &out, nil
}

// ListInventory returns the item catalog, including inactive items.
func (c *Client) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	var out []InventoryItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/inventory", nil, &out); err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}

	return out, nil
}

// Calculate prices a draft without committing it. Idempotent and
// side-effect-free on the backend.
func (c *Client) Calculate(ctx context.Context, d invoice.Draft) (*invoice.CalculationResult, error) {
	var out invoice.CalculationResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/invoices/calculate", d, &out); err != nil {
		return nil, fmt.Errorf("calculating invoice: %w", err)
	}

	return &out, nil
}

// CreateInvoice commits a draft. The backend decrements stock and increases
// the customer's debt as part of the same operation.
func (c *Client) CreateInvoice(ctx context.Context, d invoice.Draft) (*invoice.CreatedInvoice, error) {
	var out invoice.CreatedInvoice
	if err := c.do(ctx, http.MethodPost, "/api/v1/invoices", d, &out); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	return &out, nil
}

// ListInvoices returns committed invoices, newest first.
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	if err := c.do(ctx, http.MethodGet, "/api/v1/invoices", nil, &out); err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	return out, nil
}

// DashboardSummary returns the dashboard roll-up.
func (c *Client) DashboardSummary(ctx context.Context) (*Summary, error) {
	var out Summary
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/summary", nil, &out); err != nil {
		return nil, fmt.Errorf("fetching dashboard summary: %w", err)
	}

	return &out, nil
}

// ListCampaigns returns SMS campaigns, newest first.
func (c *Client) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var out []Campaign
	if err := c.do(ctx, http.MethodGet, "/api/v1/sms/campaigns", nil, &out); err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}

	return out, nil
}

// SendCampaign creates a campaign and hands it to the backend's SMS gateway.
func (c *Client) SendCampaign(ctx context.Context, params CampaignParams) (*Campaign, error) {
	var out Campaign
	if err := c.do(ctx, http.MethodPost, "/api/v1/sms/campaigns", params, &out); err != nil {
		return nil, fmt.Errorf("sending campaign: %w", err)
	}

	return &out, nil
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Detail = errResp.Detail
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
