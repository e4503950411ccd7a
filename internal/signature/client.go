// Package signature talks to the external XAdES validation service. The
// core never verifies signatures itself; it only knows the shape of the
// request/response contract and degrades to an "unverifiable" status when
// the service cannot be reached within the deadline.
package signature

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	validatePath   = "/api/validate-signature"
	healthPath     = "/health"
	defaultTimeout = 15 * time.Second
)

// Client is an HTTP client for the validation service
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures the client
type Option func(*Client)

// WithTimeout sets the per-request deadline
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate POSTs the original XML bytes to the service and decodes its
// verdict. Network failures, timeouts and malformed responses never return
// an error: the signature status is reported as unverifiable instead,
// since a missing verdict must not block viewing the invoice.
func (c *Client) Validate(ctx context.Context, xmlContent []byte) *Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "factura.xml")
	if err != nil {
		return Unverifiable(err.Error())
	}
	if _, err := part.Write(xmlContent); err != nil {
		return Unverifiable(err.Error())
	}
	if err := writer.Close(); err != nil {
		return Unverifiable(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+validatePath, &body)
	if err != nil {
		return Unverifiable(err.Error())
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Unverifiable(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := readErrorDetail(resp.Body)
		if detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return Unverifiable(detail)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Unverifiable("invalid response: " + err.Error())
	}
	return &result
}

// Available probes the service health endpoint
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// readErrorDetail extracts the "detail" field from an error response body
func readErrorDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
