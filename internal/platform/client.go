// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package platform is the typed HTTP client for the upstream platform API.
// Every call takes the bearer token explicitly — there is no ambient auth
// state; the session layer owns the token and hands it to each call site.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout bounds every platform API call. Aggregation endpoints
// (storage overview) can be slow on large tenants, so this is generous.
const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the platform API. Message carries the
// server-provided "message" field when present, so handlers can surface it
// verbatim to the operator.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("platform API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("platform API error (status %d)", e.StatusCode)
}

// IsUnauthorized reports whether err is an APIError with status 401,
// meaning the session's bearer token is no longer accepted upstream.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ErrorMessage extracts the server-provided message from err, falling back
// to the given generic message. Used by handlers for error flashes.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client talks to the platform REST API at a fixed base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a platform API client. baseURL should not end with a slash.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// do performs an API request with an optional JSON body and bearer token,
// decoding a 2xx JSON response into out (which may be nil). Non-2xx
// responses are returned as *APIError with the server message when the body
// carries one.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("platform marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("platform request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("platform http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("platform read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("platform decode %s %s: %w", method, path, err)
	}
	return nil
}

// extractMessage pulls the "message" field out of an error response body.
// Returns "" when the body isn't JSON or has no message.
func extractMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}

// --- Auth ---

// Login exchanges credentials for a platform user and bearer token.
// Role enforcement (SUPER_ADMIN only) is the caller's responsibility.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- Users ---

// ListUsers returns all platform accounts.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/admin/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole changes a user's role.
func (c *Client) UpdateUserRole(ctx context.Context, token, userID string, role Role) error {
	payload := map[string]string{"role": string(role)}
	return c.do(ctx, http.MethodPatch, "/admin/users/"+userID+"/role", token, payload, nil)
}

// DeleteUser removes a platform account.
func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+userID, token, nil, nil)
}

// --- AI prompts ---

// ListPrompts returns all AI-generation prompts.
func (c *Client) ListPrompts(ctx context.Context, token string) ([]Prompt, error) {
	var prompts []Prompt
	if err := c.do(ctx, http.MethodGet, "/admin/ai-prompts", token, nil, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// CreatePrompt adds a new prompt. PromptType must already be a wire value.
func (c *Client) CreatePrompt(ctx context.Context, token string, req CreatePromptRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/ai-prompts", token, req, nil)
}

// UpdatePrompt changes a prompt's text and type. Key and template key are
// immutable and not part of the payload.
func (c *Client) UpdatePrompt(ctx context.Context, token, promptID string, req UpdatePromptRequest) error {
	return c.do(ctx, http.MethodPut, "/admin/ai-prompts/"+promptID, token, req, nil)
}

// DeletePrompt removes a prompt.
func (c *Client) DeletePrompt(ctx context.Context, token, promptID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/ai-prompts/"+promptID, token, nil, nil)
}

// --- Websites ---

// ListWebsites returns all generated websites with their domain/owner refs.
func (c *Client) ListWebsites(ctx context.Context, token string) ([]Website, error) {
	var websites []Website
	if err := c.do(ctx, http.MethodGet, "/admin/websites", token, nil, &websites); err != nil {
		return nil, err
	}
	return websites, nil
}

// GetWebsite returns a single website by ID.
func (c *Client) GetWebsite(ctx context.Context, token, websiteID string) (*Website, error) {
	var website Website
	if err := c.do(ctx, http.MethodGet, "/admin/websites/"+websiteID, token, nil, &website); err != nil {
		return nil, err
	}
	return &website, nil
}

// UpdateWebsiteSettings replaces the editable settings of a website.
func (c *Client) UpdateWebsiteSettings(ctx context.Context, token, websiteID string, settings WebsiteSettings) error {
	return c.do(ctx, http.MethodPut, "/admin/websites/"+websiteID+"/settings", token, settings, nil)
}

// ApproveAds sets the ads-approval flag for exactly one website.
func (c *Client) ApproveAds(ctx context.Context, token, websiteID string, approved bool) error {
	payload := map[string]bool{"approved": approved}
	return c.do(ctx, http.MethodPut, "/admin/websites/"+websiteID+"/approve-ads", token, payload, nil)
}

// --- Domains ---

// ListDomains returns all customer domains.
func (c *Client) ListDomains(ctx context.Context, token string) ([]Domain, error) {
	var domains []Domain
	if err := c.do(ctx, http.MethodGet, "/admin/domains", token, nil, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// DeleteDomain removes a domain. The server cascades the deletion to
// dependent websites and content.
func (c *Client) DeleteDomain(ctx context.Context, token, domainID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/domains/"+domainID, token, nil, nil)
}

// --- Leads ---

// ListLeads returns all contact-form submissions.
func (c *Client) ListLeads(ctx context.Context, token string) ([]Lead, error) {
	var leads []Lead
	if err := c.do(ctx, http.MethodGet, "/admin/leads", token, nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// DeleteLead removes a lead.
func (c *Client) DeleteLead(ctx context.Context, token, leadID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/leads/"+leadID, token, nil, nil)
}

// --- Storage ---

// StorageOverview returns per-website content aggregates.
func (c *Client) StorageOverview(ctx context.Context, token string) ([]StorageOverviewItem, error) {
	var items []StorageOverviewItem
	if err := c.do(ctx, http.MethodGet, "/admin/storage", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// WebsiteStorage returns the full blog/content breakdown for one website.
func (c *Client) WebsiteStorage(ctx context.Context, token, websiteID string) (*WebsiteStorageDetail, error) {
	var detail WebsiteStorageDetail
	if err := c.do(ctx, http.MethodGet, "/admin/storage/"+websiteID, token, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteBlogSection removes one blog section (title, content, image, blocks)
// as a unit. Irreversible.
func (c *Client) DeleteBlogSection(ctx context.Context, token, sectionID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/storage/section/"+sectionID, token, nil, nil)
}

// DeleteContentBlock removes a single content block. Irreversible.
func (c *Client) DeleteContentBlock(ctx context.Context, token, blockID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/storage/block/"+blockID, token, nil, nil)
}

// DeleteAllWebsiteContent wipes every blog section for a website. Irreversible.
func (c *Client) DeleteAllWebsiteContent(ctx context.Context, token, websiteID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/storage/"+websiteID+"/all-content", token, nil, nil)
}

// --- Storage provider ---

// GetStorageProvider returns the active upload backend.
func (c *Client) GetStorageProvider(ctx context.Context, token string) (StorageProvider, error) {
	var resp struct {
		Provider StorageProvider `json:"provider"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/storage-provider", token, nil, &resp); err != nil {
		return "", err
	}
	if resp.Provider == "" {
		// The platform defaults to Railway when the setting was never written.
		return ProviderRailway, nil
	}
	return resp.Provider, nil
}

// SetStorageProvider switches the active upload backend.
func (c *Client) SetStorageProvider(ctx context.Context, token string, provider StorageProvider) error {
	if !provider.Valid() {
		return fmt.Errorf("platform: unknown storage provider %q", provider)
	}
	payload := map[string]StorageProvider{"provider": provider}
	return c.do(ctx, http.MethodPut, "/admin/storage-provider", token, payload, nil)
}

// --- Stats ---

// Stats returns the dashboard counters and recent lists.
func (c *Client) Stats(ctx context.Context, token string) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
