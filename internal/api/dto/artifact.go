package dto

import "time"

type ProfileResponse struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Hours       string  `json:"hours"`
	Coefficient float64 `json:"coefficient"`
	SpeedRange  string  `json:"speed_range"`
	Traffic     string  `json:"traffic"`
}

type NodePenaltyResponse struct {
	Name    string  `json:"name"`
	Minutes float64 `json:"minutes"`
}

type ArtifactResponse struct {
	Source         string                `json:"source"`
	ComputedAt     time.Time             `json:"computed_at"`
	Methodology    string                `json:"methodology"`
	DurationUnit   string                `json:"duration_unit"`
	DistanceUnit   string                `json:"distance_unit"`
	ZoneCount      int                   `json:"zone_count"`
	DefaultProfile string                `json:"default_profile,omitempty"`
	Profiles       []ProfileResponse     `json:"profiles"`
	NodePenalties  []NodePenaltyResponse `json:"node_penalties"`
}

type ZonesResponse struct {
	Zones []string `json:"zones"`
}
