package osrm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zone-matrix-service/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "driving", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c, srv
}

func TestNearestSnapsToRoad(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "Ok",
			"waypoints": [{"location": [-4.012340, 5.345670], "name": "Boulevard Lagunaire"}]
		}`))
	})

	got, err := c.Nearest(context.Background(), domain.Coordinates{Lat: 5.3460, Lng: -4.0125})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/nearest/v1/driving/") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotPath, "-4.012500,5.346000") {
		t.Fatalf("expected lon,lat order in path, got %q", gotPath)
	}
	if got.Point.Lat != 5.345670 || got.Point.Lng != -4.012340 {
		t.Fatalf("unexpected snapped point %+v", got.Point)
	}
	if got.Name != "Boulevard Lagunaire" {
		t.Fatalf("unexpected road name %q", got.Name)
	}
}

func TestNearestRejectsNotOkCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "InvalidQuery", "waypoints": []}`))
	})

	if _, err := c.Nearest(context.Background(), domain.Coordinates{Lat: 5.3, Lng: -4.0}); err == nil {
		t.Fatal("expected error for non-Ok code")
	}
}

func TestFullMatrixConvertsUnits(t *testing.T) {
	var gotURL string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{
			"code": "Ok",
			"durations": [[7.5, 750, null], [630, 0, 90], [610, 95, 0]],
			"distances": [[123, 12345, null], [11000, 0, 1540], [10499, 1499, 0]]
		}`))
	})

	points := []domain.Coordinates{
		{Lat: 5.30, Lng: -4.02},
		{Lat: 5.35, Lng: -3.99},
		{Lat: 5.32, Lng: -4.01},
	}
	tm, err := c.FullMatrix(context.Background(), points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gotURL, "/table/v1/driving/") {
		t.Fatalf("unexpected URL %q", gotURL)
	}
	if !strings.Contains(gotURL, "-4.020000,5.300000;-3.990000,5.350000;-4.010000,5.320000") {
		t.Fatalf("expected semicolon-joined lon,lat coords, got %q", gotURL)
	}
	if !strings.Contains(gotURL, "annotations=duration,distance") {
		t.Fatalf("expected duration+distance annotations, got %q", gotURL)
	}

	// 750 s -> 13 min, 12345 m -> 12.3 km.
	if v, ok := tm.Durations.At(0, 1); !ok || v != 13 {
		t.Fatalf("duration (0,1) = %v, %v; want 13", v, ok)
	}
	if v, ok := tm.Distances.At(0, 1); !ok || v != 12.3 {
		t.Fatalf("distance (0,1) = %v, %v; want 12.3", v, ok)
	}

	// Null cells stay null.
	if _, ok := tm.Durations.At(0, 2); ok {
		t.Fatal("expected null duration at (0,2)")
	}
	if _, ok := tm.Distances.At(0, 2); ok {
		t.Fatal("expected null distance at (0,2)")
	}

	// Diagonal is zero even when the server reports otherwise.
	if v, ok := tm.Durations.At(0, 0); !ok || v != 0 {
		t.Fatalf("diagonal duration = %v, %v; want 0", v, ok)
	}
	if v, ok := tm.Distances.At(0, 0); !ok || v != 0 {
		t.Fatalf("diagonal distance = %v, %v; want 0", v, ok)
	}
}

func TestFullMatrixFailsOnServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "table too big", http.StatusInternalServerError)
	})

	if _, err := c.FullMatrix(context.Background(), []domain.Coordinates{{Lat: 5.3, Lng: -4.0}}); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestFullMatrixRejectsRaggedResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"code": "Ok",
			"durations": [[0, 60], [60]],
			"distances": [[0, 500], [500, 0]]
		}`))
	})

	points := []domain.Coordinates{{Lat: 5.3, Lng: -4.0}, {Lat: 5.35, Lng: -3.99}}
	if _, err := c.FullMatrix(context.Background(), points); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}
