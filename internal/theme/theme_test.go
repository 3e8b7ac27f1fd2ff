package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"omniorder/internal/models"
)

func TestApplyUnknownPresetFallsBack(t *testing.T) {
	tokens := Apply(models.TenantConfig{Preset: "does-not-exist"})
	assert.Equal(t, Presets[DefaultPreset]["--color-primary"], tokens["--color-primary"])
}

func TestApplyOverrides(t *testing.T) {
	tokens := Apply(models.TenantConfig{
		Preset:       "fresh-market",
		PrimaryColor: "#FF00AA",
		FontFamily:   "Inter",
	})

	assert.Equal(t, "#FF00AA", tokens["--color-primary"])
	assert.Equal(t, "Inter", tokens["--font-heading"])
	assert.Equal(t, "Inter", tokens["--font-body"])
	// Non-overridden tokens come from the preset.
	assert.Equal(t, Presets["fresh-market"]["--color-bg-app"], tokens["--color-bg-app"])
}

func TestApplyDoesNotMutatePreset(t *testing.T) {
	before := Presets["stelly"]["--color-primary"]
	_ = Apply(models.TenantConfig{Preset: "stelly", PrimaryColor: "#123456"})
	assert.Equal(t, before, Presets["stelly"]["--color-primary"])
}
