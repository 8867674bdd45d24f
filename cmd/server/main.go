package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/harn0ld/HackNation/internal/config"
	"github.com/harn0ld/HackNation/internal/geometry"
	"github.com/harn0ld/HackNation/internal/routing"
	"github.com/harn0ld/HackNation/internal/server"
)

func main() {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Config loaded: provider=%s profile=%s timeout=%v",
		cfg.RouterBaseURL, cfg.RouterProfile, cfg.RouterTimeout())

	client := routing.NewClient(cfg.RouterBaseURL, cfg.RouterProfile, cfg.RouterTimeout())
	synth := geometry.NewSynthesizer(client)
	srv := server.New(cfg, synth)

	// Initial load; the server still starts when the sources are not ready.
	if _, err := srv.Reload(context.Background()); err != nil {
		log.Printf("Warning: failed to load points on startup: %v", err)
	}

	router := server.NewRouter(cfg, server.NewHandler(srv))

	log.Printf("Server starting on :%d", cfg.Port)
	log.Println("Endpoints:")
	log.Println("  GET    /points")
	log.Println("  GET    /routes")
	log.Println("  POST   /routes")
	log.Println("  DELETE /routes")
	log.Println("  GET    /route-geojson")
	log.Println("  POST   /reload-points")
	log.Println("  GET    /api/route-config")
	log.Println("  GET    /points.csv")
	log.Println("  GET    /database.csv")
	log.Println("  GET    /healthz")

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
