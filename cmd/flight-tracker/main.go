package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/aviapedia/flight-tracker/internal/api/http"
	"github.com/aviapedia/flight-tracker/internal/config"
	"github.com/aviapedia/flight-tracker/internal/flight"
	"github.com/aviapedia/flight-tracker/internal/flight/generate"
	"github.com/aviapedia/flight-tracker/internal/flight/providers"
	"github.com/aviapedia/flight-tracker/internal/monitor"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Source adapters. The position feed needs no credentials; each keyed
	// adapter is registered only when its secret is configured, so a missing
	// key narrows the provider set instead of failing requests.
	provs := []flight.Provider{
		providers.NewOpenSkyProvider(httpClient),
	}
	if cfg.AviationStackAPIKey != "" {
		provs = append(provs, providers.NewAviationStackProvider(httpClient, cfg.AviationStackAPIKey))
	}
	if cfg.FlightLabsAPIKey != "" {
		provs = append(provs, providers.NewFlightLabsProvider(httpClient, cfg.FlightLabsAPIKey))
	}
	if cfg.SerpAPIKey != "" {
		provs = append(provs, providers.NewSerpAPIProvider(httpClient, cfg.SerpAPIKey))
	}

	// Optional text-generation pass; without a key the pipeline composes
	// responses deterministically.
	var generator flight.Generator
	if cfg.AnthropicAPIKey != "" {
		gen, err := generate.NewClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Fatalf("failed to build generation client: %v", err)
		}
		generator = gen
	}

	// Optional reverse geocoding for the deterministic city/region fields.
	var geocode flight.ReverseGeocoder
	if cfg.GeocoderAPIKey != "" {
		geocode = flight.NewGoogleReverseGeocoder(cfg.GeocoderAPIKey)
	}

	// Core service orchestrating adapters, merge policy, and fallbacks.
	service := flight.NewService(provs, generator, geocode)

	// Periodic provider reachability probe.
	targets := []monitor.Target{
		{Name: "opensky", URL: "https://opensky-network.org/api/states/all?lamin=35&lomin=139&lamax=36&lomax=140"},
	}
	if cfg.AviationStackAPIKey != "" {
		targets = append(targets, monitor.Target{Name: "aviationstack", URL: "https://api.aviationstack.com/v1/flights"})
	}
	if cfg.FlightLabsAPIKey != "" {
		targets = append(targets, monitor.Target{Name: "flightlabs", URL: "https://app.goflightlabs.com/flights"})
	}
	if cfg.SerpAPIKey != "" {
		targets = append(targets, monitor.Target{Name: "serpapi", URL: "https://serpapi.com/search.json"})
	}
	mon := monitor.New(targets, cfg.ProbeInterval, httpClient)
	if err := mon.Start(); err != nil {
		log.Fatalf("failed to start monitor: %v", err)
	}
	defer mon.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "flight-tracker",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			message := "failed to fetch flight information"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error": message,
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "flight-tracker",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
