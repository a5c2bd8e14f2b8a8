// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

/*
client.go - Client API Adapter

Typed calls against the product/auth API: authenticated user profile,
project list and offset/limit-paginated reals. The adapter surfaces
transport failures directly; retry policy belongs to the analytics
adapter, not here.

The project and reals endpoints are served by different upstream
versions in the wild, some returning a bare JSON array and some an
object envelope. Both shapes decode through a single normalization
function per endpoint.
*/
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// ErrUnauthorized indicates the seeded bearer token was rejected. The
// token only refreshes on a successful run, so this is terminal until
// the tracked account is re-seeded.
var ErrUnauthorized = errors.New("client API rejected credentials")

// maxErrorBodySize bounds how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024

// readBodyForError reads at most maxErrorBodySize bytes for error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// ClientAPIInterface defines the client API operations the entity sync
// consumes. Implemented by ClientAPI for production and by mocks in tests.
type ClientAPIInterface interface {
	FetchAuthenticatedUser(ctx context.Context, token string) (*models.ExternalUser, error)
	FetchProjects(ctx context.Context, token string) ([]models.ExternalProject, error)
	FetchReals(ctx context.Context, token string, offset, limit int) (*models.RealsPage, error)
}

// ClientAPI is the HTTP adapter for the product/auth API.
type ClientAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewClientAPI creates a client API adapter for the given base URL.
func NewClientAPI(baseURL string) (*ClientAPI, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid client API base URL: %w", err)
	}
	return &ClientAPI{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// get performs one bearer-authenticated GET and returns the body on 2xx.
func (c *ClientAPI) get(ctx context.Context, path, token string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client API request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnauthorized, path, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("client API %s returned status %d: %s", path, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	return body, nil
}

// FetchAuthenticatedUser returns the profile behind the bearer token.
func (c *ClientAPI) FetchAuthenticatedUser(ctx context.Context, token string) (*models.ExternalUser, error) {
	body, err := c.get(ctx, "/api/auth/me", token, nil)
	if err != nil {
		return nil, err
	}

	var authResp models.AuthUserResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("failed to decode auth user response: %w", err)
	}
	if authResp.User.ID == "" {
		return nil, fmt.Errorf("auth user response missing user id")
	}
	return &authResp.User, nil
}

// FetchProjects returns the account's project list, accepting both the
// bare-array and the envelope response shapes.
func (c *ClientAPI) FetchProjects(ctx context.Context, token string) ([]models.ExternalProject, error) {
	body, err := c.get(ctx, "/api/auth/bff/projects", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeProjects(body)
}

// decodeProjects normalizes the project response: either a bare array or
// a {"projects": [...]} envelope.
func decodeProjects(body []byte) ([]models.ExternalProject, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var projects []models.ExternalProject
		if err := json.Unmarshal(body, &projects); err != nil {
			return nil, fmt.Errorf("failed to decode project list: %w", err)
		}
		return projects, nil
	}

	var envelope struct {
		Projects []models.ExternalProject `json:"projects"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode project envelope: %w", err)
	}
	return envelope.Projects, nil
}

// FetchReals returns one page of the account's reals.
func (c *ClientAPI) FetchReals(ctx context.Context, token string, offset, limit int) (*models.RealsPage, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/auth/bff/reals", token, query)
	if err != nil {
		return nil, err
	}
	return decodeReals(body)
}

// decodeReals normalizes the reals response. The paginated envelope is the
// current upstream shape; a bare array decodes as a single terminal page.
// Each real's full payload is retained alongside the typed fields.
func decodeReals(body []byte) (*models.RealsPage, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		reals, err := decodeRealList(body)
		if err != nil {
			return nil, err
		}
		return &models.RealsPage{
			Reals:      reals,
			Pagination: models.RealsPagination{Total: len(reals), Limit: len(reals)},
		}, nil
	}

	var envelope struct {
		Reals      []json.RawMessage      `json:"reals"`
		Pagination models.RealsPagination `json:"pagination"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode reals envelope: %w", err)
	}

	page := &models.RealsPage{Pagination: envelope.Pagination}
	for _, raw := range envelope.Reals {
		real, err := decodeReal(raw)
		if err != nil {
			return nil, err
		}
		page.Reals = append(page.Reals, real)
	}
	return page, nil
}

func decodeRealList(body []byte) ([]models.ExternalReal, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode real list: %w", err)
	}

	reals := make([]models.ExternalReal, 0, len(raws))
	for _, raw := range raws {
		real, err := decodeReal(raw)
		if err != nil {
			return nil, err
		}
		reals = append(reals, real)
	}
	return reals, nil
}

func decodeReal(raw json.RawMessage) (models.ExternalReal, error) {
	var real models.ExternalReal
	if err := json.Unmarshal(raw, &real); err != nil {
		return models.ExternalReal{}, fmt.Errorf("failed to decode real: %w", err)
	}
	real.Raw = raw
	return real, nil
}
