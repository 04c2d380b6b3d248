package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FrameLink/backend/internal/server"
)

func main() {
	// Parse flags; flags override environment
	port := flag.String("port", "", "Server port (overrides PORT)")
	origin := flag.String("origin", "", "Gateway origin (overrides GATEWAY_ORIGIN)")
	routes := flag.String("routes", "", "Routes file (overrides ROUTES_FILE)")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *origin != "" {
		cfg.Messaging.Origin = *origin
	}
	if *routes != "" {
		cfg.Messaging.RoutesFile = *routes
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
