// Package client is a Go client for the cinebook API together with the
// booking and OTP flows a front end drives on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinebook/internal/auth"
	"cinebook/internal/bookings"
	"cinebook/internal/cancellation"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// APIError is a failed call. Message is the backend's message, unchanged.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient talks to baseURL, e.g. "http://localhost:8080/api/v1".
// Calls carry the session's access token when there is one.
func NewClient(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// do sends body as JSON and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if len(env.Errors) > 0 {
			// only field errors decode; other shapes keep the message alone
			_ = json.Unmarshal(env.Errors, &apiErr.Errors)
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// Auth

func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", auth.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if c.session != nil {
		c.session.SignIn(out.AccessToken, out.RefreshToken, out.User)
	}
	return &out, nil
}

// Logout tells the backend and signs the session out even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if c.session != nil {
		c.session.SignOut()
	}
	return err
}

func (c *Client) Refresh(ctx context.Context) error {
	if c.session == nil {
		return fmt.Errorf("no session to refresh")
	}
	var out auth.TokenPair
	req := auth.RefreshTokenRequest{RefreshToken: c.session.RefreshToken()}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", req, &out); err != nil {
		return err
	}
	c.session.UpdateTokens(out.AccessToken, out.RefreshToken)
	return nil
}

func (c *Client) RequestOTP(ctx context.Context, email string, purpose auth.OTPPurpose) (*auth.OTPRequestResponse, error) {
	var out auth.OTPRequestResponse
	err := c.do(ctx, http.MethodPost, "/auth/otp/request", auth.OTPRequest{Email: email, Purpose: purpose}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email string, purpose auth.OTPPurpose, code string) (*auth.OTPVerifyResponse, error) {
	var out auth.OTPVerifyResponse
	err := c.do(ctx, http.MethodPost, "/auth/otp/verify", auth.OTPVerifyRequest{Email: email, Purpose: purpose, Code: code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteRegistration(ctx context.Context, req auth.CompleteRegistrationRequest) (*auth.UserResponse, error) {
	var out auth.UserResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register/complete", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/password/reset", req, nil)
}

// Catalog

func (c *Client) GetShowtime(ctx context.Context, id uuid.UUID) (*showtimes.Showtime, error) {
	var out showtimes.Showtime
	if err := c.do(ctx, http.MethodGet, "/showtimes/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSeatCatalog(ctx context.Context, showtimeID uuid.UUID) (*seats.Catalog, error) {
	var out seats.Catalog
	if err := c.do(ctx, http.MethodGet, "/showtimes/"+showtimeID.String()+"/seats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bookings

func (c *Client) CreateBooking(ctx context.Context, req bookings.CreateBookingRequest) (*bookings.BookingResponse, error) {
	var out bookings.BookingResponse
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBooking(ctx context.Context, id uuid.UUID) (*bookings.BookingResponse, error) {
	var out bookings.BookingResponse
	if err := c.do(ctx, http.MethodGet, "/bookings/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type BookingPage struct {
	Items      []bookings.BookingResponse `json:"items"`
	Page       int                        `json:"page"`
	Limit      int                        `json:"limit"`
	Total      int64                      `json:"total"`
	TotalPages int                        `json:"total_pages"`
}

func (c *Client) ListMyBookings(ctx context.Context, status bookings.Status, page, limit int) (*BookingPage, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/bookings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out BookingPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RefundQuote(ctx context.Context, bookingID uuid.UUID) (*cancellation.RefundQuote, error) {
	var out cancellation.RefundQuote
	if err := c.do(ctx, http.MethodGet, "/bookings/"+bookingID.String()+"/refund-quote", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*cancellation.Cancellation, error) {
	var out cancellation.Cancellation
	err := c.do(ctx, http.MethodPost, "/bookings/"+bookingID.String()+"/cancel", cancellation.CancelRequest{Reason: reason}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
