package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Client calls an OSRM-compatible routing provider. Every call is bounded
// by the client timeout; a timed-out call is treated like any other
// provider failure and is never retried.
type Client struct {
	baseURL string
	profile string
	client  *http.Client
}

// NewClient creates a routing client for the given provider base URL and
// travel profile (e.g. "walking").
func NewClient(baseURL, profile string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// RouteResponse is the decoded result of a provider route call.
type RouteResponse struct {
	Geometry orb.LineString
	Distance float64
	Duration float64
	// Waypoints echoes the provider's via points. WaypointIndex is set when
	// the provider reorders the input.
	Waypoints []Waypoint
}

// Waypoint describes one via point of a provider response.
type Waypoint struct {
	Name          string
	WaypointIndex *int
}

type routeEnvelope struct {
	Code      string            `json:"code"`
	Routes    []routePayload    `json:"routes"`
	Waypoints []waypointPayload `json:"waypoints"`
}

type routePayload struct {
	Geometry json.RawMessage `json:"geometry"`
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
}

type waypointPayload struct {
	Name          string `json:"name"`
	WaypointIndex *int   `json:"waypoint_index"`
}

// Route requests one path through all coordinates in order, with full
// geometry overview.
func (c *Client) Route(ctx context.Context, coords []orb.Point) (*RouteResponse, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("route requires at least 2 coordinates, got %d", len(coords))
	}

	parts := make([]string, 0, len(coords))
	for _, p := range coords {
		parts = append(parts, formatCoord(p))
	}
	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		c.baseURL, c.profile, strings.Join(parts, ";"))

	return c.fetch(ctx, url)
}

// Segment requests the path between a single pair of coordinates.
func (c *Client) Segment(ctx context.Context, from, to orb.Point) (*RouteResponse, error) {
	return c.Route(ctx, []orb.Point{from, to})
}

// fetch performs the HTTP call and decodes the provider response. Missing
// routes or a non-LineString geometry count as provider failure.
func (c *Client) fetch(ctx context.Context, url string) (*RouteResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call routing provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope routeEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}
	if len(envelope.Routes) == 0 {
		return nil, fmt.Errorf("provider returned no routes")
	}

	payload := envelope.Routes[0]
	if len(payload.Geometry) == 0 {
		return nil, fmt.Errorf("provider response missing geometry")
	}

	var geom geojson.Geometry
	if err := json.Unmarshal(payload.Geometry, &geom); err != nil {
		return nil, fmt.Errorf("failed to parse route geometry: %w", err)
	}
	line, ok := geom.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("provider geometry is not a LineString")
	}

	result := &RouteResponse{
		Geometry: line,
		Distance: payload.Distance,
		Duration: payload.Duration,
	}
	for _, wp := range envelope.Waypoints {
		result.Waypoints = append(result.Waypoints, Waypoint{
			Name:          wp.Name,
			WaypointIndex: wp.WaypointIndex,
		})
	}
	return result, nil
}

// formatCoord renders a point as the provider's "lng,lat" path segment.
func formatCoord(p orb.Point) string {
	return strconv.FormatFloat(p[0], 'f', -1, 64) + "," + strconv.FormatFloat(p[1], 'f', -1, 64)
}
