package osrm

import (
	"context"
	"encoding/json"
	"fmt"

	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/ports"
)

type nearestResponse struct {
	Code      string `json:"code"`
	Waypoints []struct {
		// Location is [lon, lat] per the OSRM convention.
		Location []float64 `json:"location"`
		Name     string    `json:"name"`
	} `json:"waypoints"`
}

// Nearest snaps a coordinate onto the nearest routable road segment.
func (c *Client) Nearest(ctx context.Context, pt domain.Coordinates) (ports.SnapResult, error) {
	endpoint := fmt.Sprintf("%s/nearest/v1/%s/%s?number=1", c.baseURL, c.profile, pt.OSRMParam())

	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return ports.SnapResult{}, err
	}

	resp, err := c.do(req)
	if err != nil {
		return ports.SnapResult{}, fmt.Errorf("nearest request failed: %w", err)
	}
	defer resp.Body.Close()

	var nr nearestResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return ports.SnapResult{}, fmt.Errorf("decode nearest response: %w", err)
	}

	if nr.Code != "Ok" {
		return ports.SnapResult{}, fmt.Errorf("nearest returned code %q", nr.Code)
	}
	if len(nr.Waypoints) == 0 {
		return ports.SnapResult{}, fmt.Errorf("nearest returned no waypoints for %s", pt.OSRMParam())
	}

	wp := nr.Waypoints[0]
	if len(wp.Location) != 2 {
		return ports.SnapResult{}, fmt.Errorf("nearest waypoint has malformed location %v", wp.Location)
	}

	return ports.SnapResult{
		Point: domain.Coordinates{Lat: wp.Location[1], Lng: wp.Location[0]},
		Name:  wp.Name,
	}, nil
}
