/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

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

	"screenflow/internal/domain"
)

// Client is the HTTP implementation of the engine's persistence gateway.
// Token is the bearer token; AntiForgery, when set, is sent as
// X-CSRF-Token on every mutating request.
type Client struct {
	BaseURL     string
	Token       string
	AntiForgery string
	client      *http.Client
}

// NewClient creates a backend client. baseURL may include a trailing slash;
// it will be normalized.
func NewClient(baseURL, token, antiForgery string) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Token:       token,
		AntiForgery: antiForgery,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// do sends a JSON request and decodes a JSON response into dest (nil dest
// discards the body). Non-2xx responses become *NetworkError.
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	op := method + " " + path
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if method != http.MethodGet && c.AntiForgery != "" {
		req.Header.Set("X-CSRF-Token", c.AntiForgery)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(b, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(b))
		}
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: e.Error}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// ListCanvases returns the project's canvases in server order.
func (c *Client) ListCanvases(ctx context.Context, projectID string) ([]domain.Canvas, error) {
	var env struct {
		Canvases []domain.Canvas `json:"canvases"`
	}
	path := fmt.Sprintf("/api/projects/%s/canvases", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Canvases, nil
}

// CreateCanvas creates a canvas and returns the stored record.
func (c *Client) CreateCanvas(ctx context.Context, projectID, name string, positions map[string]domain.Position, isDefault bool) (domain.Canvas, error) {
	if positions == nil {
		positions = map[string]domain.Position{}
	}
	req := struct {
		Name             string                     `json:"name"`
		FeaturePositions map[string]domain.Position `json:"feature_positions"`
		IsDefault        bool                       `json:"is_default"`
	}{name, positions, isDefault}
	var env struct {
		Canvas domain.Canvas `json:"canvas"`
	}
	path := fmt.Sprintf("/api/projects/%s/canvases", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodPost, path, req, &env); err != nil {
		return domain.Canvas{}, err
	}
	return env.Canvas, nil
}

// DeleteCanvas removes a canvas.
func (c *Client) DeleteCanvas(ctx context.Context, projectID, canvasID string) error {
	path := fmt.Sprintf("/api/projects/%s/canvases/%s", url.PathEscape(projectID), url.PathEscape(canvasID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// SavePositions overwrites a canvas's position map.
func (c *Client) SavePositions(ctx context.Context, projectID, canvasID string, positions map[string]domain.Position) error {
	req := struct {
		Positions map[string]domain.Position `json:"positions"`
	}{positions}
	path := fmt.Sprintf("/api/projects/%s/canvases/%s/positions", url.PathEscape(projectID), url.PathEscape(canvasID))
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// DesignFeatures fetches the project's features with their pages and
// common elements.
func (c *Client) DesignFeatures(ctx context.Context, projectID string) ([]domain.Feature, error) {
	var env struct {
		Features []domain.Feature `json:"features"`
	}
	path := fmt.Sprintf("/api/projects/%s/design-features", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Features, nil
}

// DeleteScreens permanently removes pages from a feature.
func (c *Client) DeleteScreens(ctx context.Context, projectID, featureID string, pageIDs []string) error {
	req := struct {
		FeatureID string   `json:"feature_id"`
		PageIDs   []string `json:"page_ids"`
	}{featureID, pageIDs}
	path := fmt.Sprintf("/api/projects/%s/screens/delete", url.PathEscape(projectID))
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// GenerateScreen requests a new AI-generated page for a feature.
func (c *Client) GenerateScreen(ctx context.Context, projectID, featureID, description string) (domain.Page, error) {
	req := struct {
		FeatureID   string `json:"feature_id"`
		Description string `json:"description"`
	}{featureID, description}
	var env struct {
		Success bool        `json:"success"`
		Page    domain.Page `json:"page"`
		Error   string      `json:"error"`
	}
	path := fmt.Sprintf("/api/projects/%s/screens/generate", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodPost, path, req, &env); err != nil {
		return domain.Page{}, err
	}
	if !env.Success {
		return domain.Page{}, fmt.Errorf("generate screen: %s", env.Error)
	}
	return env.Page, nil
}

// DesignChat sends a natural-language edit instruction and returns the
// service's result verbatim; the engine decides how to apply it.
func (c *Client) DesignChat(ctx context.Context, projectID string, req domain.ChatRequest) (domain.ChatResult, error) {
	var res domain.ChatResult
	path := fmt.Sprintf("/api/projects/%s/design-chat", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodPost, path, req, &res); err != nil {
		return domain.ChatResult{}, err
	}
	return res, nil
}

// LoadExternalURL asks the service to snapshot an external page onto a
// canvas.
func (c *Client) LoadExternalURL(ctx context.Context, projectID, rawURL, canvasID string) error {
	req := struct {
		URL      string `json:"url"`
		CanvasID string `json:"canvas_id"`
	}{rawURL, canvasID}
	path := fmt.Sprintf("/api/projects/%s/external-url", url.PathEscape(projectID))
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// ConversationCanvas returns the canvas id linked to a conversation, or ""
// when none is linked yet.
func (c *Client) ConversationCanvas(ctx context.Context, conversationID string) (string, error) {
	var env struct {
		CanvasID string `json:"canvas_id"`
	}
	path := fmt.Sprintf("/api/conversations/%s/canvas", url.PathEscape(conversationID))
	err := c.do(ctx, http.MethodGet, path, nil, &env)
	if IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return env.CanvasID, nil
}

// LinkConversationCanvas stores the conversation's active canvas so it is
// restored on reopen.
func (c *Client) LinkConversationCanvas(ctx context.Context, conversationID, canvasID string) error {
	req := struct {
		CanvasID string `json:"canvas_id"`
	}{canvasID}
	path := fmt.Sprintf("/api/conversations/%s/canvas", url.PathEscape(conversationID))
	return c.do(ctx, http.MethodPost, path, req, nil)
}
