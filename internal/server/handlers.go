package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb/geojson"

	"github.com/harn0ld/HackNation/internal/points"
	"github.com/harn0ld/HackNation/internal/routes"
)

// Service defines the facade operations the transport shell exposes.
type Service interface {
	Points() []points.Point
	Routes() []routes.Route
	Geometry() *geojson.FeatureCollection
	AddRoute(fromID, toID string) (routes.Route, bool)
	RemoveRoute(fromID, toID string) bool
	Reload(ctx context.Context) ([]points.Point, error)
	RouteConfig() (*RouteConfig, bool)
}

// Handler handles HTTP requests for points, routes and route geometry
type Handler struct {
	service  Service
	validate *validator.Validate
}

// NewHandler creates a new handler over the given service
func NewHandler(service Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// RouteRequest is the request body for adding or removing routes
type RouteRequest struct {
	FromID string `json:"from_id" validate:"required"`
	ToID   string `json:"to_id" validate:"required"`
}

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetPoints handles GET /points
func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Points())
}

// GetRoutes handles GET /routes
func (h *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Routes())
}

// GetRouteGeoJSON handles GET /route-geojson
func (h *Handler) GetRouteGeoJSON(w http.ResponseWriter, r *http.Request) {
	geometry := h.service.Geometry()
	if geometry == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "route geometry not available; try reloading later",
		})
		return
	}
	writeJSON(w, http.StatusOK, geometry)
}

// AddRoute handles POST /routes
func (h *Handler) AddRoute(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	route, created := h.service.AddRoute(request.FromID, request.ToID)
	if !created {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid route (duplicate or unknown points)",
		})
		return
	}
	writeJSON(w, http.StatusCreated, route)
}

// DeleteRoute handles DELETE /routes
func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	if !h.service.RemoveRoute(request.FromID, request.ToID) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "route not found between points",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "route removed successfully"})
}

// ReloadPoints handles POST /reload-points
func (h *Handler) ReloadPoints(w http.ResponseWriter, r *http.Request) {
	refreshed, err := h.service.Reload(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, refreshed)
}

// GetRouteConfig handles GET /api/route-config
func (h *Handler) GetRouteConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.service.RouteConfig()
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "not enough points to suggest a route",
		})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) decodeRouteRequest(w http.ResponseWriter, r *http.Request) (RouteRequest, bool) {
	var request RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return request, false
	}
	if err := h.validate.Struct(request); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "from_id and to_id are required"})
		return request, false
	}
	return request, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
