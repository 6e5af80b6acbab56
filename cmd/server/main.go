package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meur/bistracker/internal/api"
	"github.com/meur/bistracker/internal/config"
	"github.com/meur/bistracker/internal/storage"
	"github.com/meur/bistracker/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Parse flags
	host := flag.String("host", cfg.Host, "Listen address")
	port := flag.String("port", cfg.Port, "Server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path for snapshots")
	statePath := flag.String("state", cfg.StateFile, "Gear state JSON path")
	bisPath := flag.String("bis", cfg.BisFile, "BIS table JSON path")
	storeKind := flag.String("store", cfg.Store, "Where gear documents live: file or profile")
	flag.Parse()

	// Initialize storage
	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	blobs, err := storage.OpenBlobs(*storeKind, *statePath, *bisPath, cfg.Profile)
	if err != nil {
		log.Fatalf("Failed to open gear documents: %v", err)
	}

	gear := tracker.New(storage.NewGearStore(blobs))
	if err := gear.Load(); err != nil {
		log.Printf("Continuing with partial data")
	}

	// Create router
	s := api.New(store, gear)

	srv := &http.Server{
		Addr:              net.JoinHostPort(*host, *port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 BIS tracker API starting on http://%s", srv.Addr)
		log.Printf("📦 Snapshots: %s", *dbPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}

	if err := gear.Save(); err != nil {
		log.Printf("⚠ Gear state was not saved: %v", err)
		os.Exit(1)
	}
	log.Println("💾 Gear state saved")
}

