/*
main.go - Application entry point

PURPOSE:

	Initializes and starts the Store Analytics server. Handles
	configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
 1. Parse command-line flags
 2. Build the engine config (defaults, JSON file, -tz override)
 3. Initialize SQLite store
 4. Create API handler with dependencies
 5. Configure HTTP router
 6. Start server with graceful shutdown

COMMAND-LINE FLAGS:

	-port    HTTP server port (default: 8080)
	-db      SQLite database path (default: storeops.db)
	         Use ":memory:" for in-memory database
	-config  Optional JSON file of engine tuning overrides
	-tz      Business timezone override (e.g. America/Chicago)

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM:
	1. Stop accepting new connections
	2. Wait for active requests to complete (30s timeout)
	3. Close database connection
	4. Exit

EXAMPLES:

	# Run with file database
	./server -db="./data/storeops.db"

	# Run with tuning overrides and a local business timezone
	./server -config=./tuning.json -tz=America/Chicago

ENVIRONMENT:

	No environment variables currently. All config via flags.

SEE ALSO:
  - api/server.go: Router configuration
  - factory/config.go: JSON tuning overrides
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keystone/store-analytics/analytics"
	"github.com/keystone/store-analytics/api"
	"github.com/keystone/store-analytics/factory"
	"github.com/keystone/store-analytics/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "storeops.db", "SQLite database path")
	configPath := flag.String("config", "", "JSON file of engine tuning overrides")
	tz := flag.String("tz", "", "business timezone override (e.g. America/Chicago)")
	flag.Parse()

	// Engine config: defaults, then the JSON file, then the -tz flag.
	cfg := analytics.DefaultConfig()
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
		cfg, err = factory.NewConfigFactory().ParseConfig(string(raw))
		if err != nil {
			log.Fatalf("Failed to parse config file: %v", err)
		}
	}
	if *tz != "" {
		loc, err := time.LoadLocation(*tz)
		if err != nil {
			log.Fatalf("Invalid -tz value %q: %v", *tz, err)
		}
		cfg.Timezone = loc
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, analytics.NewEngine(cfg))

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		log.Printf("🕐 Business timezone: %s", cfg.Location())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
