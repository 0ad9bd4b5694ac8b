package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"zone-matrix-service/internal/domain"
)

type dmValue struct {
	Value float64 `json:"value"`
}

type dmElement struct {
	Status            string   `json:"status"`
	Duration          *dmValue `json:"duration"`
	DurationInTraffic *dmValue `json:"duration_in_traffic"`
	Distance          *dmValue `json:"distance"`
}

type dmRow struct {
	Elements []dmElement `json:"elements"`
}

type dmResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Rows         []dmRow `json:"rows"`
}

// fetchBatch fetches one rectangle of the matrix and writes the converted
// cells into tm at their global indices. A top-level API failure is fatal;
// a per-element failure leaves that cell null.
func (p *Provider) fetchBatch(
	ctx context.Context,
	points []domain.Coordinates,
	rect domain.BatchRect,
	departure string,
	tm *domain.TravelMatrix,
) error {
	q := url.Values{}
	q.Set("origins", pipeJoin(points[rect.Origins.Start:rect.Origins.End]))
	q.Set("destinations", pipeJoin(points[rect.Destinations.Start:rect.Destinations.End]))
	q.Set("mode", "driving")
	q.Set("language", p.language)
	q.Set("departure_time", departure)
	q.Set("key", p.apiKey)

	endpoint := p.baseURL + "/maps/api/distancematrix/json?" + q.Encode()

	req, err := p.newRequest(ctx, endpoint)
	if err != nil {
		return err
	}

	resp, err := p.do(req)
	if err != nil {
		return fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr dmResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("decode distance matrix response: %w", err)
	}

	if dr.Status != "OK" {
		return fmt.Errorf("distance matrix returned status %q: %s", dr.Status, dr.ErrorMessage)
	}
	if len(dr.Rows) != rect.Origins.Len() {
		return fmt.Errorf("expected %d rows, got %d", rect.Origins.Len(), len(dr.Rows))
	}

	for ri, row := range dr.Rows {
		if len(row.Elements) != rect.Destinations.Len() {
			return fmt.Errorf("row %d: expected %d elements, got %d", ri, rect.Destinations.Len(), len(row.Elements))
		}
		gi := rect.Origins.Start + ri
		for ci, el := range row.Elements {
			gj := rect.Destinations.Start + ci
			if el.Status != "OK" {
				continue
			}

			// Traffic-aware duration when the API computed one.
			duration := el.Duration
			if el.DurationInTraffic != nil {
				duration = el.DurationInTraffic
			}
			if duration != nil {
				tm.Durations.Set(gi, gj, domain.MinutesFromSeconds(duration.Value))
			}
			if el.Distance != nil {
				tm.Distances.Set(gi, gj, domain.KilometersFromMeters(el.Distance.Value))
			}
		}
	}

	return nil
}

func pipeJoin(points []domain.Coordinates) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, p.GoogleParam())
	}
	return strings.Join(parts, "|")
}
