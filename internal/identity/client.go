// Package identity talks to the identity provider that owns credentials.
// The provider hashes passwords and sends OTPs; this package only creates and
// deletes accounts through its admin users API.
package identity

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
	"time"

	"signup/internal/registration/models"
	"signup/pkg/platform/circuit"
	"signup/pkg/platform/sentinel"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Client calls a GoTrue-style admin users API:
//
//	POST   {base}/admin/users        create
//	DELETE {base}/admin/users/{id}   delete
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuit.Breaker
}

type Option func(*Client)

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBreaker guards calls with a circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// NewClient constructs a client. It is safe for concurrent use and meant to
// live for the whole process.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// createUserRequest leaves email_confirm and phone_confirm unset so the
// account is created unconfirmed; the provider's verification flow sends the
// OTP to the unconfirmed contact.
type createUserRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// errorResponse covers the message fields identity providers commonly use.
type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r errorResponse) text() string {
	for _, s := range []string{r.Msg, r.Message, r.ErrorDescription, r.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// CreateAccount creates an unconfirmed account; the provider sends the OTP.
func (c *Client) CreateAccount(ctx context.Context, cred models.Credential) (*models.IdentityRecord, error) {
	body, err := json.Marshal(createUserRequest{
		Email:    cred.Email,
		Phone:    cred.Phone,
		Password: cred.Password,
	})
	if err != nil {
		return nil, &Error{Op: "create", Kind: sentinel.ErrRejected, Err: err}
	}

	var user userResponse
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL+"/admin/users", body, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, &Error{Op: "create", Kind: sentinel.ErrUnavailable, Message: "response missing user id"}
	}
	return &models.IdentityRecord{ID: user.ID, Email: user.Email, Phone: user.Phone}, nil
}

// DeleteAccount removes an account. A missing account returns an error
// wrapping sentinel.ErrNotFound.
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.baseURL+"/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte, out any) error {
	if c.breaker != nil && !c.breaker.Allow() {
		return &Error{Op: op, Kind: sentinel.ErrUnavailable, Message: "circuit open"}
	}
	err := c.roundTrip(ctx, op, method, endpoint, body, out)
	c.record(err)
	return err
}

// record feeds the breaker. Only availability failures count against it; a
// rejected request proves the provider is up.
func (c *Client) record(err error) {
	if c.breaker == nil {
		return
	}
	if err != nil && errors.Is(err, sentinel.ErrUnavailable) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *Client) roundTrip(ctx context.Context, op, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Op: op, Kind: sentinel.ErrUnavailable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: sentinel.ErrUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Op: op, StatusCode: resp.StatusCode, Kind: sentinel.ErrUnavailable, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	msg := readErrorMessage(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Op: op, StatusCode: resp.StatusCode, Kind: sentinel.ErrNotFound, Message: msg}
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return &Error{Op: op, StatusCode: resp.StatusCode, Kind: sentinel.ErrUnavailable, Message: msg}
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		// Our service key is wrong; not something the user can fix.
		return &Error{Op: op, StatusCode: resp.StatusCode, Kind: sentinel.ErrUnavailable, Message: msg}
	default:
		return &Error{Op: op, StatusCode: resp.StatusCode, Kind: sentinel.ErrRejected, Message: msg}
	}
}

func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil {
		if text := er.text(); text != "" {
			return text
		}
	}
	return strings.TrimSpace(string(raw))
}
