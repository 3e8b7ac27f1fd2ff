package models

// TenantConfig is the branding and identity record for the current store,
// as served by GET /api/v1/store/config. Read-only from the storefront;
// the admin settings screen is the only writer.
type TenantConfig struct {
	Name         string `json:"name"`
	Preset       string `json:"preset,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	FontFamily   string `json:"font_family,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Hours        string `json:"hours,omitempty"`
}
