// Package theme resolves the storefront's visual tokens: a named preset of
// CSS-variable values plus the tenant's per-store overrides.
package theme

import "omniorder/internal/models"

// Tokens maps CSS custom property names to their values.
type Tokens map[string]string

// DefaultPreset is applied when a tenant names an unknown preset.
const DefaultPreset = "mono-luxe"

// Presets are the built-in visual bundles a tenant can pick from.
var Presets = map[string]Tokens{
	"stelly": {
		"--color-primary":          "#2563EB",
		"--color-primary-contrast": "#FFFFFF",
		"--color-secondary":        "#4F46E5",
		"--color-bg-app":           "#FFFFFF",
		"--color-bg-surface":       "#FFFFFF",
		"--color-text-main":        "#0F172A",
		"--color-text-muted":       "#64748B",
		"--font-heading-case":      "none",
		"--font-heading-weight":    "800",
		"--color-border":           "#E2E8F0",
		"--radius-sm":              "0.5rem",
		"--radius-md":              "1rem",
		"--radius-lg":              "1.5rem",
		"--glass-blur":             "8px",
		"--overlay-opacity":        "0.05",
	},
	"mono-luxe": {
		"--color-primary":          "#000000",
		"--color-primary-contrast": "#FFFFFF",
		"--color-secondary":        "#6B7280",
		"--color-bg-app":           "#F9FAFB",
		"--color-bg-surface":       "#FFFFFF",
		"--color-text-main":        "#111827",
		"--color-text-muted":       "#6B7280",
		"--font-heading-case":      "uppercase",
		"--font-heading-weight":    "900",
		"--color-border":           "#E5E7EB",
		"--radius-sm":              "0px",
		"--radius-md":              "0px",
		"--radius-lg":              "0px",
		"--glass-blur":             "0px",
		"--overlay-opacity":        "0.1",
	},
	"fresh-market": {
		"--color-primary":          "#16A34A",
		"--color-primary-contrast": "#FFFFFF",
		"--color-secondary":        "#F59E0B",
		"--color-bg-app":           "#F0FDF4",
		"--color-bg-surface":       "#FFFFFF",
		"--color-text-main":        "#14532D",
		"--color-text-muted":       "#15803D",
		"--font-heading-case":      "none",
		"--font-heading-weight":    "700",
		"--color-border":           "#BBF7D0",
		"--radius-sm":              "8px",
		"--radius-md":              "16px",
		"--radius-lg":              "24px",
		"--glass-blur":             "12px",
		"--overlay-opacity":        "0.4",
	},
	"tech-ocean": {
		"--color-primary":          "#3B82F6",
		"--color-primary-contrast": "#FFFFFF",
		"--color-secondary":        "#64748B",
		"--color-bg-app":           "#0F172A",
		"--color-bg-surface":       "#1E293B",
		"--color-text-main":        "#F8FAFC",
		"--color-text-muted":       "#94A3B8",
		"--font-heading-case":      "uppercase",
		"--font-heading-weight":    "600",
		"--color-border":           "#334155",
		"--glass-blur":             "4px",
		"--radius-sm":              "4px",
		"--radius-md":              "8px",
		"--radius-lg":              "12px",
		"--overlay-opacity":        "0.7",
	},
}

// Apply resolves the tenant's tokens: the named preset (falling back to
// DefaultPreset when unknown) with the tenant's primary color and font
// family layered on top. The returned map is a copy.
func Apply(cfg models.TenantConfig) Tokens {
	base, ok := Presets[cfg.Preset]
	if !ok {
		base = Presets[DefaultPreset]
	}
	out := make(Tokens, len(base)+2)
	for k, v := range base {
		out[k] = v
	}
	if cfg.PrimaryColor != "" {
		out["--color-primary"] = cfg.PrimaryColor
	}
	if cfg.FontFamily != "" {
		out["--font-heading"] = cfg.FontFamily
		out["--font-body"] = cfg.FontFamily
	}
	return out
}
