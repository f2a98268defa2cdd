package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MihaKr/ljubljana-transit/internal/api"
	"github.com/MihaKr/ljubljana-transit/internal/config"
	"github.com/MihaKr/ljubljana-transit/internal/directions"
)

var (
	configPath = flag.String("config", config.DefaultPath, "Path to YAML config file")
	listenAddr = flag.String("listen", "", "HTTP listen address (overrides the configured port)")
)

// InitLogging configures the standard logger
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

func main() {
	flag.Parse()
	InitLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	addr := cfg.Addr()
	if *listenAddr != "" {
		addr = *listenAddr
	}

	// Set up API server
	client := directions.NewClient(cfg.Directions)
	apiServer := api.NewServer(cfg.Server, client)
	server := &http.Server{
		Addr:              addr,
		Handler:           apiServer.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Start server
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Server listening on %s (webhook at %s)", addr, cfg.Server.WebhookPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for termination signal
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	wg.Wait()
	log.Println("Server exited properly")
}
