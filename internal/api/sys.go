package api

import "context"

// Platform/system surface: tenant provisioning, ephemeral demo sessions,
// and lead capture.

// ProvisionRequest creates a new tenant with optional seed data.
type ProvisionRequest struct {
	Name         string `json:"name"`
	Domain       string `json:"domain"`
	PrimaryColor string `json:"primary_color,omitempty"`
	FontFamily   string `json:"font_family,omitempty"`
	SeedData     bool   `json:"seed_data"`
}

// ProvisionResponse acknowledges a successful tenant creation.
type ProvisionResponse struct {
	ID         string `json:"id"`
	SchemaName string `json:"schema_name"`
	Message    string `json:"message"`
}

// DemoUser is the profile bundled with a demo session token.
type DemoUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"sub"`
}

// DemoSession is returned by the demo session endpoint; the token is a
// short-lived bearer credential for the demo tenant.
type DemoSession struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int      `json:"expires_in,omitempty"`
	User        DemoUser `json:"user"`
}

// ContactRequest is a sales lead captured from the landing page.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message,omitempty"`
}

// Provision creates a new tenant.
func (c *Client) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResponse, error) {
	var out ProvisionResponse
	if err := c.post(ctx, "/api/v1/sys/provision", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDemoSession creates an ephemeral demo session.
func (c *Client) GenerateDemoSession(ctx context.Context) (*DemoSession, error) {
	var out DemoSession
	if err := c.post(ctx, "/api/v1/sys/generate-demo-session", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetDemo restores the demo tenant to its seeded state.
func (c *Client) ResetDemo(ctx context.Context) error {
	return c.post(ctx, "/api/v1/sys/reset-demo", nil, nil, true)
}

// Contact submits a lead capture form.
func (c *Client) Contact(ctx context.Context, req ContactRequest) error {
	return c.post(ctx, "/api/v1/sys/contact", req, nil, false)
}
