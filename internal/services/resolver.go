package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/platform/obs"
	"zone-matrix-service/internal/ports"
)

// ZoneResolver turns a GeoJSON FeatureCollection of zone polygons into the
// ordered, road-snapped zone list a matrix run works on. Snap failures
// degrade per zone to the raw centroid; bad input fails before the first
// network call.
type ZoneResolver struct {
	snapper      ports.RoadSnapper
	nameProperty string
	snapDelay    time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewZoneResolver(snapper ports.RoadSnapper, nameProperty string, snapDelay time.Duration) *ZoneResolver {
	if nameProperty == "" {
		nameProperty = "name"
	}
	return &ZoneResolver{
		snapper:      snapper,
		nameProperty: nameProperty,
		snapDelay:    snapDelay,
		sleep:        sleepCtx,
	}
}

// Preview parses and validates the GeoJSON without issuing a single network
// call, returning the zone names in input order. Dry runs plan batches and
// cost from its length.
func (z *ZoneResolver) Preview(raw []byte) ([]string, error) {
	_, names, err := z.parse(raw)
	return names, err
}

// Resolve decodes raw GeoJSON and produces one zone per feature in input
// order, plus diagnostics about how the snapping went.
func (z *ZoneResolver) Resolve(ctx context.Context, raw []byte) (_ []domain.Zone, _ *domain.SnappingDiagnostics, err error) {
	defer obs.Time(ctx, "resolver.Resolve")(&err)

	fc, names, err := z.parse(raw)
	if err != nil {
		return nil, nil, err
	}

	zones := make([]domain.Zone, 0, len(fc.Features))
	diag := &domain.SnappingDiagnostics{}
	var offsetSum float64

	for i, f := range fc.Features {
		if i > 0 {
			if err := z.sleep(ctx, z.snapDelay); err != nil {
				return nil, nil, err
			}
		}

		point, _ := planar.CentroidArea(f.Geometry)
		centroid := domain.Coordinates{Lat: point.Lat(), Lng: point.Lon()}

		zone := domain.Zone{Name: names[i], Centroid: centroid}

		snapped, err := z.snapper.Nearest(ctx, centroid)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			log.Printf("zone=%q snap failed, using raw centroid: %v", names[i], err)
			zone.SnappedPoint = centroid
			diag.Fallbacks++
			zones = append(zones, zone)
			continue
		}

		offset := geo.DistanceHaversine(point, orb.Point{snapped.Point.Lng, snapped.Point.Lat})
		zone.SnappedPoint = snapped.Point
		zone.SnapOffsetMeters = offset

		diag.Snapped++
		offsetSum += offset
		if offset > diag.MaxOffsetMeters {
			diag.MaxOffsetMeters = offset
		}

		zones = append(zones, zone)
	}

	if diag.Snapped > 0 {
		diag.MeanOffsetMeters = offsetSum / float64(diag.Snapped)
	}

	return zones, diag, nil
}

// parse decodes the FeatureCollection and extracts the unique, non-empty
// zone names that define matrix index order.
func (z *ZoneResolver) parse(raw []byte) (*geojson.FeatureCollection, []string, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse zones geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, nil, fmt.Errorf("zones geojson has no features")
	}

	names := make([]string, 0, len(fc.Features))
	seen := make(map[string]struct{}, len(fc.Features))
	for i, f := range fc.Features {
		name, ok := f.Properties[z.nameProperty].(string)
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("feature %d: missing or empty %q property", i, z.nameProperty)
		}
		if _, dup := seen[name]; dup {
			return nil, nil, fmt.Errorf("duplicate zone name %q", name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return fc, names, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
