// Package points talks to the external points/auth backend.
//
// The backend is a collaborator, not part of this repository: it exposes
// the signed-in user, the current point balance, and a point-deduction
// operation. The export engine checks the balance before rendering and
// deducts one charge per successful export.
//
// Deductions are never retried: a retry could double-charge when only the
// response was lost. Reads (Me, Balance) retry with backoff.
package points

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	kferrors "github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/httputil"
)

// User is the authenticated account as the backend reports it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DeductResult reports the outcome of a deduction.
// Success=false means the export must be reported as failed even if a
// file was already produced.
type DeductResult struct {
	Success bool `json:"success"`
	Balance int  `json:"balance"`
}

// Service is the collaborator surface the studio depends on.
type Service interface {
	// Me returns the signed-in user, or an UNAUTHORIZED error.
	Me(ctx context.Context) (*User, error)

	// Balance returns the current point balance.
	Balance(ctx context.Context) (int, error)

	// Deduct removes amount points with an audit reason. Not retried.
	Deduct(ctx context.Context, amount int, reason string) (*DeductResult, error)
}

// Client is the HTTP implementation of Service.
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a points client for the given backend base URL.
// The API key is sent as a bearer token on every request.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.get(ctx, "/v1/me", &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Balance returns the current point balance.
func (c *Client) Balance(ctx context.Context) (int, error) {
	var resp struct {
		Balance int `json:"balance"`
	}
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.get(ctx, "/v1/points/balance", &resp)
	})
	if err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// Deduct removes points. A single attempt, never retried.
func (c *Client) Deduct(ctx context.Context, amount int, reason string) (*DeductResult, error) {
	body, err := json.Marshal(map[string]any{
		"amount": amount,
		"reason": reason,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/points/deduct", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, kferrors.Wrap(kferrors.ErrCodeNetwork, err, "deduct points")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var result DeductResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, kferrors.Wrap(kferrors.ErrCodeNetwork, err, "decode deduction response")
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: kferrors.Wrap(kferrors.ErrCodeNetwork, err, "GET %s", path)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &httputil.RetryableError{Err: err}
	}
	return json.Unmarshal(data, v)
}

func (c *Client) auth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return kferrors.New(kferrors.ErrCodeUnauthorized, "not signed in")
	case httputil.RetryableStatus(code):
		return &httputil.RetryableError{Err: kferrors.New(kferrors.ErrCodeNetwork, "status %d", code)}
	default:
		return kferrors.New(kferrors.ErrCodeNetwork, "status %d", code)
	}
}

// Ensure Client implements Service.
var _ Service = (*Client)(nil)
