package routes

import (
	"github.com/harn0ld/HackNation/internal/points"
)

// Route represents a bidirectional connection between two points. Stored
// routes are always in canonical order: FromID < ToID lexicographically.
type Route struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// Canonical returns the two ids in canonical order, which doubles as the
// dedup key for stored routes.
func Canonical(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Graph maintains the deduplicated, undirected route set over a point
// registry. Routes are listed in insertion order; a canonical-pair set
// backs O(1) duplicate and removal lookups. Both structures are only ever
// updated together.
type Graph struct {
	registry points.Registry
	list     []Route
	index    map[[2]string]struct{}
}

// NewGraph creates an empty graph over the given registry. The graph is
// rebuilt together with the registry on every reload, so the reference
// never outlives the points it validates against.
func NewGraph(registry points.Registry) *Graph {
	return &Graph{
		registry: registry,
		index:    make(map[[2]string]struct{}),
	}
}

// Add registers a route between two known points. It rejects self-loops,
// unknown endpoints and duplicates without mutating anything; a repeated
// identical request is a no-op rejection, not an error.
func (g *Graph) Add(fromID, toID string) (Route, bool) {
	if fromID == toID {
		return Route{}, false
	}
	if _, ok := g.registry[fromID]; !ok {
		return Route{}, false
	}
	if _, ok := g.registry[toID]; !ok {
		return Route{}, false
	}

	a, b := Canonical(fromID, toID)
	key := [2]string{a, b}
	if _, exists := g.index[key]; exists {
		return Route{}, false
	}

	route := Route{FromID: a, ToID: b}
	g.list = append(g.list, route)
	g.index[key] = struct{}{}
	return route, true
}

// Remove deletes the route matching the canonical pair of the two ids.
// It reports whether a stored route was found.
func (g *Graph) Remove(fromID, toID string) bool {
	a, b := Canonical(fromID, toID)
	key := [2]string{a, b}
	if _, exists := g.index[key]; !exists {
		return false
	}

	delete(g.index, key)
	for i, route := range g.list {
		if route.FromID == a && route.ToID == b {
			g.list = append(g.list[:i], g.list[i+1:]...)
			break
		}
	}
	return true
}

// List returns the stored routes in insertion order.
func (g *Graph) List() []Route {
	out := make([]Route, len(g.list))
	copy(out, g.list)
	return out
}

// Len returns the number of stored routes.
func (g *Graph) Len() int {
	return len(g.list)
}

// Chain converts an ordered id sequence into consecutive pairs forming an
// open path: max(L-1, 0) edges, no edge from the last element back to the
// first.
func Chain(sequence []string) [][2]string {
	if len(sequence) < 2 {
		return nil
	}
	pairs := make([][2]string, 0, len(sequence)-1)
	for i := 0; i < len(sequence)-1; i++ {
		pairs = append(pairs, [2]string{sequence[i], sequence[i+1]})
	}
	return pairs
}
