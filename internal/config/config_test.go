package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"zone-matrix-service/internal/domain"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Runs, 5)
	require.Equal(t, len(cfg.View.ThresholdsMinutes)+1, len(cfg.View.Palette))
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Google.ElementCeiling)
	require.Equal(t, 40.0, cfg.Derive.SpeedCapKmh)
	require.Equal(t, string(domain.ProfileMidday), cfg.Derive.DefaultProfile)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	doc := `
[google]
element_ceiling = 625
monthly_limit_usd = 50.0

[derive]
speed_cap_kmh = 50.0

[[node_penalties]]
name = "Pont Houphouet-Boigny"
minutes = 6.0
`
	path := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 625, cfg.Google.ElementCeiling)
	require.Equal(t, 50.0, cfg.Google.MonthlyLimitUSD)
	require.Equal(t, 50.0, cfg.Derive.SpeedCapKmh)
	// Untouched sections keep their defaults.
	require.Equal(t, 5.0, cfg.Google.PricePerThousandUSD)
	require.Equal(t, "fr", cfg.Google.Language)
	require.Len(t, cfg.Runs, 5)

	penalties := cfg.Penalties()
	require.Len(t, penalties, 1)
	require.Equal(t, "Pont Houphouet-Boigny", penalties[0].Name)
	require.Equal(t, 6.0, penalties[0].Minutes)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero ceiling", func(c *AppConfig) { c.Google.ElementCeiling = 0 }},
		{"negative price", func(c *AppConfig) { c.Google.PricePerThousandUSD = -1 }},
		{"zero speed cap", func(c *AppConfig) { c.Derive.SpeedCapKmh = 0 }},
		{"unknown profile key", func(c *AppConfig) { c.Runs[0].Key = "rush" }},
		{"duplicate profile", func(c *AppConfig) { c.Runs[1].Key = c.Runs[0].Key }},
		{"zero coefficient", func(c *AppConfig) { c.Runs[2].Coefficient = 0 }},
		{"default profile not configured", func(c *AppConfig) { c.Derive.DefaultProfile = "night_shift" }},
		{"thresholds not increasing", func(c *AppConfig) { c.View.ThresholdsMinutes = []float64{15, 15, 45} }},
		{"palette wrong size", func(c *AppConfig) { c.View.Palette = c.View.Palette[:2] }},
		{"negative penalty", func(c *AppConfig) { c.NodePenalties = []NodePenaltyConfig{{Name: "x", Minutes: -1}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestProfileSpecsKeepOrderAndCoefficients(t *testing.T) {
	specs := DefaultConfig().ProfileSpecs()
	require.Len(t, specs, 5)
	require.Equal(t, domain.ProfileNight, specs[0].Key)
	require.Equal(t, 1.0, specs[0].Coefficient)
	require.Equal(t, domain.ProfileEveningPeak, specs[3].Key)
	require.Equal(t, 0.5, specs[3].Coefficient)
}

func TestGetPrefersEnvironment(t *testing.T) {
	t.Setenv("ZMS_TEST_KEY", "from-env")
	require.Equal(t, "from-env", Get("ZMS_TEST_KEY", "fallback"))
	require.Equal(t, "fallback", Get("ZMS_TEST_KEY_UNSET", "fallback"))
}
