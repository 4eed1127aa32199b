// Package client is a thin Go client for the contact service HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/duynhne/contact-service/internal/core/domain"
	"github.com/duynhne/contact-service/internal/core/paging"
)

// Wire types shared with the service.
type (
	Contact        = domain.ContactDto
	Address        = domain.AddressDto
	SearchCriteria = domain.ContactSearchCriteria
	Page           = paging.Result[domain.ContactDto]
)

// APIError is a request the service rejected with 400 Bad Request.
// Message carries the server's failure text, e.g. "Name is required.; Email is invalid.".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contact service rejected request (%d): %s", e.StatusCode, e.Message)
}

// ContactClient handles communication with the contact service
type ContactClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a ContactClient.
type Option func(*ContactClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ContactClient) { c.httpClient = hc }
}

// NewContactClient creates a new contact client for the service at baseURL
func NewContactClient(baseURL string, opts ...Option) *ContactClient {
	c := &ContactClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchContacts calls GET /api/contact/search. Zero-valued criteria are omitted.
func (c *ContactClient) SearchContacts(ctx context.Context, criteria SearchCriteria) (*Page, error) {
	q := url.Values{}
	if criteria.ContactID != nil {
		q.Set("contactId", strconv.Itoa(*criteria.ContactID))
	}
	if criteria.Name != "" {
		q.Set("name", criteria.Name)
	}
	if criteria.Email != "" {
		q.Set("email", criteria.Email)
	}
	if criteria.PhoneNumber != "" {
		q.Set("phoneNumber", criteria.PhoneNumber)
	}
	if criteria.PageNumber != 0 {
		q.Set("pageNumber", strconv.Itoa(criteria.PageNumber))
	}
	if criteria.PageSize != nil {
		q.Set("pageSize", strconv.Itoa(*criteria.PageSize))
	}

	path := "/api/contact/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result Page
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return &result, nil
}

// CreateContact calls POST /api/contact and returns the stored contact.
func (c *ContactClient) CreateContact(ctx context.Context, contact Contact) (*Contact, error) {
	var created Contact
	if err := c.do(ctx, http.MethodPost, "/api/contact", contact, &created); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &created, nil
}

// UpdateContact calls PUT /api/contact and returns the updated contact.
func (c *ContactClient) UpdateContact(ctx context.Context, contact Contact) (*Contact, error) {
	var updated Contact
	if err := c.do(ctx, http.MethodPut, "/api/contact", contact, &updated); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return &updated, nil
}

// DeleteContact calls DELETE /api/contact/{id}.
func (c *ContactClient) DeleteContact(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, "/api/contact/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}

func (c *ContactClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request contact service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("contact service error: %d - %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return string(raw)
	}
	return body.Error
}

// IsRejected reports whether err is a request the service rejected as invalid.
func IsRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
