package routing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

const validBody = `{
	"code": "Ok",
	"routes": [{
		"geometry": {"type": "LineString", "coordinates": [[21.0, 52.0], [21.1, 52.1]]},
		"distance": 1234.5,
		"duration": 987.6
	}],
	"waypoints": [{"name": "start"}, {"name": "end"}]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "walking", 5*time.Second), srv
}

func TestRoute_DecodesResponse(t *testing.T) {
	var gotPath string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Query().Get("overview") != "full" || r.URL.Query().Get("geometries") != "geojson" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, validBody)
	})
	defer srv.Close()

	resp, err := client.Route(context.Background(), []orb.Point{{21.0, 52.0}, {21.1, 52.1}})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/route/v1/walking/") {
		t.Errorf("unexpected request path: %s", gotPath)
	}
	if !strings.Contains(gotPath, "21,52;21.1,52.1") {
		t.Errorf("coordinates not encoded as lng,lat pairs: %s", gotPath)
	}

	if len(resp.Geometry) != 2 {
		t.Fatalf("expected 2 geometry coordinates, got %d", len(resp.Geometry))
	}
	if resp.Geometry[0] != (orb.Point{21.0, 52.0}) {
		t.Errorf("unexpected first coordinate: %v", resp.Geometry[0])
	}
	if resp.Distance != 1234.5 || resp.Duration != 987.6 {
		t.Errorf("unexpected distance/duration: %v / %v", resp.Distance, resp.Duration)
	}
	if len(resp.Waypoints) != 2 || resp.Waypoints[0].WaypointIndex != nil {
		t.Errorf("unexpected waypoints: %+v", resp.Waypoints)
	}
}

func TestRoute_TooFewCoordinates(t *testing.T) {
	client := NewClient("http://localhost:0", "walking", time.Second)
	if _, err := client.Route(context.Background(), []orb.Point{{21.0, 52.0}}); err == nil {
		t.Fatal("expected an error for fewer than 2 coordinates")
	}
}

func TestRoute_ProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json")
		}},
		{"no routes", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code": "NoRoute", "routes": []}`)
		}},
		{"missing geometry", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code": "Ok", "routes": [{"distance": 1}]}`)
		}},
		{"non linestring geometry", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code": "Ok", "routes": [{"geometry": {"type": "Point", "coordinates": [21.0, 52.0]}}]}`)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, srv := newTestClient(tc.handler)
			defer srv.Close()

			if _, err := client.Route(context.Background(), []orb.Point{{21.0, 52.0}, {21.1, 52.1}}); err == nil {
				t.Fatal("expected a provider failure")
			}
		})
	}
}

func TestRoute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, validBody)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "walking", 20*time.Millisecond)
	if _, err := client.Route(context.Background(), []orb.Point{{21.0, 52.0}, {21.1, 52.1}}); err == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestSegment_UsesPair(t *testing.T) {
	var gotPath string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, validBody)
	})
	defer srv.Close()

	if _, err := client.Segment(context.Background(), orb.Point{21.0, 52.0}, orb.Point{21.1, 52.1}); err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if !strings.Contains(gotPath, "21,52;21.1,52.1") {
		t.Errorf("unexpected segment path: %s", gotPath)
	}
}
