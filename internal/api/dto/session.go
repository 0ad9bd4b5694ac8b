package dto

type SelectOriginRequest struct {
	// Zone is a pointer so "missing" and "zone 0" stay distinguishable.
	Zone *int `json:"zone"`
}

type SwitchProfileRequest struct {
	Profile string `json:"profile"`
}

type ZoneStyleResponse struct {
	Zone    string   `json:"zone"`
	Minutes *float64 `json:"minutes,omitempty"`
	Color   string   `json:"color"`
	Origin  bool     `json:"origin,omitempty"`
}

type SessionResponse struct {
	SessionID   string              `json:"session_id"`
	State       string              `json:"state"`
	OriginIndex *int                `json:"origin_index,omitempty"`
	OriginZone  string              `json:"origin_zone,omitempty"`
	Profile     string              `json:"profile,omitempty"`
	Notice      string              `json:"notice,omitempty"`
	Zones       []ZoneStyleResponse `json:"zones"`
}

type HoverResponse struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Profile     string   `json:"profile,omitempty"`
	Minutes     *float64 `json:"minutes"`
	Kilometers  *float64 `json:"kilometers"`
	AvgSpeedKmh *float64 `json:"avg_speed_kmh"`
}
