package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"zone-matrix-service/internal/domain"
)

// AppConfig is the TOML-backed application configuration. Every field has a
// working default; a config file overrides only what it mentions.
type AppConfig struct {
	Zones  ZonesConfig     `toml:"zones"`
	OSRM   OSRMConfig      `toml:"osrm"`
	Google GoogleConfig    `toml:"google"`
	Derive DeriveConfig    `toml:"derive"`
	View   ViewConfig      `toml:"view"`
	Runs   []ProfileConfig `toml:"profiles"`

	NodePenalties []NodePenaltyConfig `toml:"node_penalties"`
}

type ZonesConfig struct {
	// NameProperty is the GeoJSON feature property holding the zone name.
	NameProperty string `toml:"name_property"`
	// SnapDelayMs paces successive nearest-road calls.
	SnapDelayMs int `toml:"snap_delay_ms"`
}

type OSRMConfig struct {
	Profile  string `toml:"profile"`
	TimeoutS int    `toml:"timeout_s"`
}

type GoogleConfig struct {
	ElementCeiling      int     `toml:"element_ceiling"`
	PricePerThousandUSD float64 `toml:"price_per_thousand_usd"`
	MonthlyLimitUSD     float64 `toml:"monthly_limit_usd"`
	PacingDelayMs       int     `toml:"pacing_delay_ms"`
	Language            string  `toml:"language"`
	MorningHour         int     `toml:"morning_hour"`
	EveningHour         int     `toml:"evening_hour"`
	TimeoutS            int     `toml:"timeout_s"`
}

type DeriveConfig struct {
	SpeedCapKmh    float64 `toml:"speed_cap_kmh"`
	DefaultProfile string  `toml:"default_profile"`
}

type ViewConfig struct {
	ThresholdsMinutes []float64 `toml:"thresholds_minutes"`
	Palette           []string  `toml:"palette"`
	OriginColor       string    `toml:"origin_color"`
	NoDataColor       string    `toml:"no_data_color"`
	SessionTTLMinutes int       `toml:"session_ttl_minutes"`
	WelcomeNotice     string    `toml:"welcome_notice"`
	NoticeSeconds     int       `toml:"notice_seconds"`
}

type ProfileConfig struct {
	Key         string  `toml:"key"`
	Label       string  `toml:"label"`
	Hours       string  `toml:"hours"`
	Coefficient float64 `toml:"coefficient"`
	SpeedRange  string  `toml:"speed_range"`
	Traffic     string  `toml:"traffic"`
}

type NodePenaltyConfig struct {
	Name    string  `toml:"name"`
	Minutes float64 `toml:"minutes"`
}

// DefaultConfig returns the reference deployment settings.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Zones: ZonesConfig{
			NameProperty: "name",
			SnapDelayMs:  300,
		},
		OSRM: OSRMConfig{
			Profile:  "driving",
			TimeoutS: 30,
		},
		Google: GoogleConfig{
			ElementCeiling:      100,
			PricePerThousandUSD: 5.0,
			MonthlyLimitUSD:     180.0,
			PacingDelayMs:       1100,
			Language:            "fr",
			MorningHour:         8,
			EveningHour:         18,
			TimeoutS:            20,
		},
		Derive: DeriveConfig{
			SpeedCapKmh:    40,
			DefaultProfile: string(domain.ProfileMidday),
		},
		View: ViewConfig{
			ThresholdsMinutes: []float64{15, 30, 45, 60, 90},
			Palette:           []string{"#1a9850", "#91cf60", "#d9ef8b", "#fee08b", "#fc8d59", "#d73027"},
			OriginColor:       "#2166ac",
			NoDataColor:       "#bdbdbd",
			SessionTTLMinutes: 120,
			WelcomeNotice:     "Select an origin zone to color travel times.",
			NoticeSeconds:     8,
		},
		Runs: []ProfileConfig{
			{Key: "night", Label: "Night", Hours: "22:00-06:00", Coefficient: 1.0, SpeedRange: "~40 km/h", Traffic: "free-flow"},
			{Key: "morning_peak", Label: "Morning peak", Hours: "07:00-09:00", Coefficient: 0.55, SpeedRange: "~22 km/h", Traffic: "heavy"},
			{Key: "midday", Label: "Midday", Hours: "09:00-17:00", Coefficient: 0.75, SpeedRange: "~30 km/h", Traffic: "moderate"},
			{Key: "evening_peak", Label: "Evening peak", Hours: "17:00-20:00", Coefficient: 0.50, SpeedRange: "~20 km/h", Traffic: "saturated"},
			{Key: "evening", Label: "Evening", Hours: "20:00-22:00", Coefficient: 0.85, SpeedRange: "~34 km/h", Traffic: "light"},
		},
		NodePenalties: []NodePenaltyConfig{},
	}
}

// Load returns defaults when path is empty, otherwise defaults overlaid with
// the TOML document at path. The result is always validated.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks the cross-field invariants a run depends on.
func (c *AppConfig) Validate() error {
	if c.Zones.NameProperty == "" {
		return fmt.Errorf("config: zones.name_property must not be empty")
	}
	if c.Zones.SnapDelayMs < 0 {
		return fmt.Errorf("config: zones.snap_delay_ms must not be negative")
	}
	if c.Google.ElementCeiling < 1 {
		return fmt.Errorf("config: google.element_ceiling must be at least 1")
	}
	if c.Google.PricePerThousandUSD < 0 || c.Google.MonthlyLimitUSD < 0 {
		return fmt.Errorf("config: google pricing values must not be negative")
	}
	if c.Google.PacingDelayMs < 0 {
		return fmt.Errorf("config: google.pacing_delay_ms must not be negative")
	}
	if h := c.Google.MorningHour; h < 0 || h > 23 {
		return fmt.Errorf("config: google.morning_hour %d out of range", h)
	}
	if h := c.Google.EveningHour; h < 0 || h > 23 {
		return fmt.Errorf("config: google.evening_hour %d out of range", h)
	}
	if c.Derive.SpeedCapKmh <= 0 {
		return fmt.Errorf("config: derive.speed_cap_kmh must be positive")
	}
	if len(c.Runs) == 0 {
		return fmt.Errorf("config: at least one profile is required")
	}

	seen := make(map[string]struct{}, len(c.Runs))
	for _, p := range c.Runs {
		key, err := domain.ParseProfileKey(p.Key)
		if err != nil {
			return fmt.Errorf("config: profile %q: %w", p.Key, err)
		}
		if _, dup := seen[string(key)]; dup {
			return fmt.Errorf("config: duplicate profile %q", p.Key)
		}
		seen[string(key)] = struct{}{}
		if p.Coefficient <= 0 {
			return fmt.Errorf("config: profile %q coefficient must be positive, got %g", p.Key, p.Coefficient)
		}
	}
	if _, ok := seen[c.Derive.DefaultProfile]; !ok {
		return fmt.Errorf("config: derive.default_profile %q is not a configured profile", c.Derive.DefaultProfile)
	}

	if len(c.View.ThresholdsMinutes) == 0 {
		return fmt.Errorf("config: view.thresholds_minutes must not be empty")
	}
	prev := 0.0
	for i, th := range c.View.ThresholdsMinutes {
		if th <= prev {
			return fmt.Errorf("config: view.thresholds_minutes must be strictly increasing and positive (index %d)", i)
		}
		prev = th
	}
	if len(c.View.Palette) != len(c.View.ThresholdsMinutes)+1 {
		return fmt.Errorf("config: view.palette needs %d colors for %d thresholds, got %d",
			len(c.View.ThresholdsMinutes)+1, len(c.View.ThresholdsMinutes), len(c.View.Palette))
	}
	for _, np := range c.NodePenalties {
		if np.Name == "" {
			return fmt.Errorf("config: node penalty with empty name")
		}
		if np.Minutes < 0 {
			return fmt.Errorf("config: node penalty %q minutes must not be negative", np.Name)
		}
	}
	return nil
}

// ProfileSpecs converts configured profiles to domain specs in file order.
func (c *AppConfig) ProfileSpecs() []domain.ProfileSpec {
	specs := make([]domain.ProfileSpec, 0, len(c.Runs))
	for _, p := range c.Runs {
		specs = append(specs, domain.ProfileSpec{
			Key:         domain.ProfileKey(p.Key),
			Label:       p.Label,
			Hours:       p.Hours,
			Coefficient: p.Coefficient,
			SpeedRange:  p.SpeedRange,
			Traffic:     p.Traffic,
		})
	}
	return specs
}

// Penalties converts configured node penalties to domain metadata.
func (c *AppConfig) Penalties() []domain.NodePenalty {
	out := make([]domain.NodePenalty, 0, len(c.NodePenalties))
	for _, np := range c.NodePenalties {
		out = append(out, domain.NodePenalty{Name: np.Name, Minutes: np.Minutes})
	}
	return out
}

// SnapDelay returns the pacing delay between nearest-road calls.
func (c *AppConfig) SnapDelay() time.Duration {
	return time.Duration(c.Zones.SnapDelayMs) * time.Millisecond
}

// PacingDelay returns the pacing delay between paid batch calls.
func (c *AppConfig) PacingDelay() time.Duration {
	return time.Duration(c.Google.PacingDelayMs) * time.Millisecond
}

// SessionTTL returns how long an untouched serving session survives.
func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.View.SessionTTLMinutes) * time.Minute
}

// NoticeFor returns how long the welcome notice stays in views.
func (c *AppConfig) NoticeFor() time.Duration {
	return time.Duration(c.View.NoticeSeconds) * time.Second
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
