package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidshare/backend/internal/api"
	"github.com/vidshare/backend/internal/auth"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/storage"
)

// defaultCategories are seeded at startup. "All" is the no-filter sentinel
// on the list endpoint, never a stored category.
var defaultCategories = []string{
	"Music", "Gaming", "Education", "Entertainment", "Sports", "Technology", "News",
}

func main() {
	cfg := config.Load()

	// Initialize the in-memory store. Uploaded files are the only state
	// that survives a restart.
	store, err := db.NewStore()
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// Ensure admin user exists
	if err := store.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	if err := store.SeedCategories(defaultCategories); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	uploads, err := storage.NewUploads(cfg.UploadPath)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Initialize session token service
	jwtService := auth.NewJWTService(cfg.SessionSecret)

	// Create router
	router := api.NewRouter(store, jwtService, uploads, cfg)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Upload path: %s", cfg.UploadPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
