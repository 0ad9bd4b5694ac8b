package domain

import "fmt"

// ProfileKey identifies one time-of-day congestion profile. The set is
// closed; anything outside it is rejected at the boundary so downstream
// code can switch exhaustively.
type ProfileKey string

const (
	ProfileNight       ProfileKey = "night"
	ProfileMorningPeak ProfileKey = "morning_peak"
	ProfileMidday      ProfileKey = "midday"
	ProfileEveningPeak ProfileKey = "evening_peak"
	ProfileEvening     ProfileKey = "evening"
)

// ProfileKeys lists every valid key in display order.
func ProfileKeys() []ProfileKey {
	return []ProfileKey{
		ProfileNight,
		ProfileMorningPeak,
		ProfileMidday,
		ProfileEveningPeak,
		ProfileEvening,
	}
}

// Valid reports whether k belongs to the closed profile set.
func (k ProfileKey) Valid() bool {
	switch k {
	case ProfileNight, ProfileMorningPeak, ProfileMidday, ProfileEveningPeak, ProfileEvening:
		return true
	}
	return false
}

// ParseProfileKey validates a wire-level profile string.
func ParseProfileKey(s string) (ProfileKey, error) {
	k := ProfileKey(s)
	if !k.Valid() {
		return "", fmt.Errorf("parse profile key %q: %w", s, ErrUnknownProfile)
	}
	return k, nil
}

// ProfileSpec configures one derivable profile.
//
// The coefficient multiplies the capped base speed: 1.0 keeps the baseline,
// smaller values mean slower traffic, so durations grow as base/coefficient.
type ProfileSpec struct {
	Key         ProfileKey
	Label       string
	Hours       string
	Coefficient float64
	SpeedRange  string
	Traffic     string
}

// Profile is a derived, read-only duration matrix for one time-of-day
// variant, carried inside the persisted artifact.
type Profile struct {
	Label       string  `json:"label"`
	Hours       string  `json:"hours"`
	Coefficient float64 `json:"coeff"`
	SpeedRange  string  `json:"speedRange"`
	Traffic     string  `json:"traffic"`
	Durations   Matrix  `json:"durations"`
}
