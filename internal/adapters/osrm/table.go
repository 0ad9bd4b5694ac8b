package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/platform/obs"
)

type tableResponse struct {
	Code      string       `json:"code"`
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// FullMatrix fetches the complete NxN table in a single request. OSRM
// reports seconds and meters; the result is converted to minutes and
// kilometers, null holes preserved, diagonal forced to zero.
func (c *Client) FullMatrix(ctx context.Context, points []domain.Coordinates) (_ *domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "osrm.FullMatrix")(&err)

	if len(points) == 0 {
		return nil, errors.New("table requires at least one point")
	}

	coords := make([]string, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.OSRMParam())
	}
	endpoint := fmt.Sprintf(
		"%s/table/v1/%s/%s?annotations=duration,distance",
		c.baseURL, c.profile, strings.Join(coords, ";"),
	)

	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("table request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode table response: %w", err)
	}

	if tr.Code != "Ok" {
		return nil, fmt.Errorf("table returned code %q", tr.Code)
	}

	n := len(points)
	if len(tr.Durations) != n || len(tr.Distances) != n {
		return nil, fmt.Errorf(
			"table row counts do not match points: durations=%d distances=%d points=%d",
			len(tr.Durations), len(tr.Distances), n,
		)
	}

	tm := domain.NewTravelMatrix(n)
	for i := 0; i < n; i++ {
		if len(tr.Durations[i]) != n || len(tr.Distances[i]) != n {
			return nil, fmt.Errorf("table row %d is not %d cells wide", i, n)
		}
		for j := 0; j < n; j++ {
			if sec := tr.Durations[i][j]; sec != nil {
				tm.Durations.Set(i, j, domain.MinutesFromSeconds(*sec))
			}
			if m := tr.Distances[i][j]; m != nil {
				tm.Distances.Set(i, j, domain.KilometersFromMeters(*m))
			}
		}
	}

	tm.Durations.ForceZeroDiagonal()
	tm.Distances.ForceZeroDiagonal()

	return tm, nil
}
