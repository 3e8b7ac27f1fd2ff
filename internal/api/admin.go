package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"omniorder/internal/models"
)

// Admin surface: menu builder and settings. All calls carry the bearer
// token from the client's token source.

// CategoryRequest is the create/update body for a menu category.
type CategoryRequest struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// ItemRequest is the create/update body for a menu item.
type ItemRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	Price          int64                  `json:"price"`
	ImageURL       string                 `json:"image_url,omitempty"`
	IsAvailable    bool                   `json:"is_available"`
	CategoryID     string                 `json:"category_id"`
	ModifierGroups []models.ModifierGroup `json:"modifier_groups,omitempty"`
}

// ReorderRequest carries entity ids in their new display order.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// UploadResponse is returned by the media upload endpoint.
type UploadResponse struct {
	URL string `json:"url"`
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.get(ctx, "/api/v1/admin/categories", &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	var out models.Category
	if err := c.post(ctx, "/api/v1/admin/categories", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/v1/admin/categories/"+id, true)
}

func (c *Client) ReorderCategories(ctx context.Context, ids []string) error {
	return c.put(ctx, "/api/v1/admin/categories/reorder", ReorderRequest{IDs: ids}, nil, true)
}

func (c *Client) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	if err := c.get(ctx, "/api/v1/admin/items", &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, req ItemRequest) (*models.MenuItem, error) {
	var out models.MenuItem
	if err := c.post(ctx, "/api/v1/admin/items", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, id string, req ItemRequest) (*models.MenuItem, error) {
	var out models.MenuItem
	if err := c.put(ctx, "/api/v1/admin/items/"+id, req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/v1/admin/items/"+id, true)
}

func (c *Client) ReorderItems(ctx context.Context, ids []string) error {
	return c.put(ctx, "/api/v1/admin/items/reorder", ReorderRequest{IDs: ids}, nil, true)
}

// GetSettings retrieves the tenant settings record for the admin screen.
func (c *Client) GetSettings(ctx context.Context) (*models.TenantConfig, error) {
	var out models.TenantConfig
	if err := c.get(ctx, "/api/v1/admin/settings", &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings writes the tenant settings record. Name is the only
// required field; everything else is an optional override.
func (c *Client) UpdateSettings(ctx context.Context, cfg models.TenantConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("store name is required")
	}
	return c.put(ctx, "/api/v1/admin/settings", cfg, nil, true)
}

// UploadMedia sends a multipart upload and returns the stored asset URL.
func (c *Client) UploadMedia(ctx context.Context, filename string, content io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/media/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}
	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
