package server

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/harn0ld/HackNation/internal/config"
	"github.com/harn0ld/HackNation/internal/geometry"
	"github.com/harn0ld/HackNation/internal/points"
	"github.com/harn0ld/HackNation/internal/routes"
)

// Server owns the shared in-memory state: the point registry, the route
// graph and the last synthesized geometry. Every operation runs under one
// mutex, so a reader can never observe a route set that has been cleared
// but not yet repopulated.
type Server struct {
	cfg   *config.Config
	synth *geometry.Synthesizer

	mu       sync.RWMutex
	registry points.Registry
	order    []string // registry ids in load order (primary rows, then secondary additions)
	natural  []string
	resolved []string
	graph    *routes.Graph
	routeGeo *geojson.FeatureCollection
}

// New creates a server with an empty registry. Call Reload to populate it.
func New(cfg *config.Config, synth *geometry.Synthesizer) *Server {
	registry := make(points.Registry)
	return &Server{
		cfg:      cfg,
		synth:    synth,
		registry: registry,
		graph:    routes.NewGraph(registry),
	}
}

// Reload runs the reload state machine: load both CSV sources, synthesize
// the geometry over the natural sequence, then reseed the route set from
// the resolved order. A loader error aborts the reload and leaves the
// previous state untouched. Returns the refreshed point list.
func (s *Server) Reload(ctx context.Context) ([]points.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reloadID := strings.Split(uuid.NewString(), "-")[0]

	registry, natural, err := points.LoadPrimary(s.cfg.PointsCSV)
	if err != nil {
		log.Printf("reload %s: primary source failed: %v", reloadID, err)
		return nil, err
	}
	added, err := points.LoadSecondary(s.cfg.DatabaseCSV, registry)
	if err != nil {
		log.Printf("reload %s: secondary source failed: %v", reloadID, err)
		return nil, err
	}

	path, resolved := s.synth.Synthesize(ctx, registry, natural)

	graph := routes.NewGraph(registry)
	for _, pair := range routes.Chain(resolved) {
		graph.Add(pair[0], pair[1])
	}

	s.registry = registry
	s.order = append(append([]string{}, natural...), added...)
	s.natural = natural
	s.resolved = resolved
	s.graph = graph
	if path != nil {
		s.routeGeo = path.Collection
		log.Printf("reload %s: route order: %s (source=%s)", reloadID, strings.Join(resolved, " -> "), path.Source)
	} else {
		s.routeGeo = nil
		log.Printf("reload %s: no route geometry available", reloadID)
	}
	log.Printf("reload %s: %d points, %d routes", reloadID, len(s.registry), graph.Len())

	return s.pointListLocked(), nil
}

// Points returns all registry points in load order.
func (s *Server) Points() []points.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pointListLocked()
}

func (s *Server) pointListLocked() []points.Point {
	out := make([]points.Point, 0, len(s.order))
	for _, id := range s.order {
		if point, ok := s.registry[id]; ok {
			out = append(out, point)
		}
	}
	return out
}

// Routes returns the stored routes in insertion order.
func (s *Server) Routes() []routes.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.List()
}

// Geometry returns the last synthesized feature collection, or nil.
func (s *Server) Geometry() *geojson.FeatureCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.routeGeo
}

// AddRoute registers a route between two known points; see Graph.Add for
// the rejection rules.
func (s *Server) AddRoute(fromID, toID string) (routes.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Add(fromID, toID)
}

// RemoveRoute deletes the route with the canonical pair of the two ids.
func (s *Server) RemoveRoute(fromID, toID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Remove(fromID, toID)
}

// Endpoint is one end of the suggested route configuration.
type Endpoint struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RouteConfig is the suggested start/end pair for the frontend.
type RouteConfig struct {
	Start Endpoint `json:"start"`
	End   Endpoint `json:"end"`
}

// RouteConfig suggests the endpoints of the first stored route or, when no
// routes exist, the first two registry points in canonical (lexicographic)
// id order. Reports false when fewer than two points are known.
func (s *Server) RouteConfig() (*RouteConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a, b string
	if list := s.graph.List(); len(list) > 0 {
		a, b = list[0].FromID, list[0].ToID
	} else {
		if len(s.registry) < 2 {
			return nil, false
		}
		ids := make([]string, 0, len(s.registry))
		for id := range s.registry {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		a, b = routes.Canonical(ids[0], ids[1])
	}

	start, okStart := s.registry[a]
	end, okEnd := s.registry[b]
	if !okStart || !okEnd {
		return nil, false
	}
	return &RouteConfig{
		Start: Endpoint{ID: start.ID, Name: start.Name},
		End:   Endpoint{ID: end.ID, Name: end.Name},
	}, true
}
