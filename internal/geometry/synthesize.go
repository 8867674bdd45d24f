package geometry

import (
	"context"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/harn0ld/HackNation/internal/points"
	"github.com/harn0ld/HackNation/internal/routes"
	"github.com/harn0ld/HackNation/internal/routing"
)

// Provenance tags recorded in the feature properties.
const (
	SourceRoute           = "route"
	SourceSegmentFallback = "segment-fallback"
)

// Provider is the routing backend the synthesizer delegates to.
type Provider interface {
	Route(ctx context.Context, coords []orb.Point) (*routing.RouteResponse, error)
	Segment(ctx context.Context, from, to orb.Point) (*routing.RouteResponse, error)
}

// Path is a synthesized walking-path geometry together with the via-point
// order it was built for and its provenance.
type Path struct {
	Collection *geojson.FeatureCollection
	Resolved   []string
	Source     string
}

// Synthesizer produces one connected path geometry for an ordered point
// sequence. It holds no cache; every call re-issues provider requests.
type Synthesizer struct {
	provider Provider
}

// NewSynthesizer creates a synthesizer over the given provider.
func NewSynthesizer(provider Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize builds the path geometry for the sequence. The returned
// resolved order is always usable: the provider's via order after a
// successful bulk call, the input sequence otherwise. A nil path means no
// geometry could be produced.
func (s *Synthesizer) Synthesize(ctx context.Context, registry points.Registry, sequence []string) (*Path, []string) {
	coords := make([]orb.Point, 0, len(sequence))
	ids := make([]string, 0, len(sequence))
	for _, id := range sequence {
		point, ok := registry[id]
		if !ok {
			continue
		}
		coords = append(coords, orb.Point{point.Lng, point.Lat})
		ids = append(ids, id)
	}

	if len(coords) < 2 {
		log.Println("synthesize: not enough resolvable points for a route")
		return nil, sequence
	}

	resp, err := s.provider.Route(ctx, coords)
	if err == nil {
		resolved := resolveOrder(ids, resp.Waypoints)
		return &Path{
			Collection: buildCollection(resp.Geometry, resolved, SourceRoute, resp.Distance, resp.Duration),
			Resolved:   resolved,
			Source:     SourceRoute,
		}, resolved
	}
	log.Printf("synthesize: bulk route call failed, trying segment fallback: %v", err)

	if path := s.stitchSegments(ctx, registry, sequence); path != nil {
		return path, sequence
	}
	return nil, sequence
}

// stitchSegments walks the sequence as consecutive pairs and concatenates
// the per-pair geometries, skipping pairs that cannot be resolved or routed.
func (s *Synthesizer) stitchSegments(ctx context.Context, registry points.Registry, sequence []string) *Path {
	var combined orb.LineString
	var totalDistance, totalDuration float64

	for _, pair := range routes.Chain(sequence) {
		from, okFrom := registry[pair[0]]
		to, okTo := registry[pair[1]]
		if !okFrom || !okTo {
			continue
		}

		resp, err := s.provider.Segment(ctx, orb.Point{from.Lng, from.Lat}, orb.Point{to.Lng, to.Lat})
		if err != nil {
			log.Printf("synthesize: segment %s-%s skipped: %v", pair[0], pair[1], err)
			continue
		}
		if len(resp.Geometry) == 0 {
			continue
		}

		segment := resp.Geometry
		if len(combined) > 0 && combined[len(combined)-1] == segment[0] {
			// Shared endpoint; drop the duplicate boundary vertex.
			segment = segment[1:]
		}
		combined = append(combined, segment...)

		totalDistance += resp.Distance
		totalDuration += resp.Duration
	}

	if len(combined) < 2 {
		log.Println("synthesize: failed to compose segment fallback geometry")
		return nil
	}

	return &Path{
		Collection: buildCollection(combined, sequence, SourceSegmentFallback, totalDistance, totalDuration),
		Resolved:   sequence,
		Source:     SourceSegmentFallback,
	}
}

// resolveOrder applies the provider's waypoint_index reordering when
// present; otherwise the input order stands.
func resolveOrder(ids []string, waypoints []routing.Waypoint) []string {
	if len(waypoints) != len(ids) {
		return ids
	}
	for _, wp := range waypoints {
		if wp.WaypointIndex == nil {
			return ids
		}
	}

	ordered := make([]string, len(ids))
	for i, wp := range waypoints {
		pos := *wp.WaypointIndex
		if pos < 0 || pos >= len(ids) {
			return ids
		}
		ordered[pos] = ids[i]
	}
	return ordered
}

// buildCollection wraps a line geometry in a single-feature collection
// carrying the via order, provenance and totals. Totals of exactly zero are
// omitted so "no data" is distinguishable from a zero-length path.
func buildCollection(line orb.LineString, via []string, source string, distance, duration float64) *geojson.FeatureCollection {
	feature := geojson.NewFeature(line)
	feature.Properties["via_points"] = via
	feature.Properties["source"] = source
	if distance != 0 {
		feature.Properties["distance_m"] = distance
	}
	if duration != 0 {
		feature.Properties["duration_s"] = duration
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(feature)
	return fc
}
