// omnidev runs the development backend: the full store/admin/sys/media/ws
// surface over an embedded sqlite database, seeded with the demo tenant.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"omniorder/internal/devserver"
)

func main() {
	port := flag.IntP("port", "p", 8080, "listen port")
	dbPath := flag.String("db", "omnidev.db", "sqlite database path")
	mediaDir := flag.String("media-dir", "media", "directory for uploaded assets")
	secret := flag.String("secret", "", "JWT signing secret (defaults to OMNI_DEV_SECRET or a dev value)")
	reseed := flag.Bool("reseed", false, "reset the demo tenant on startup")
	flag.Parse()

	if *secret == "" {
		*secret = os.Getenv("OMNI_DEV_SECRET")
	}
	if *secret == "" {
		*secret = "omnidev-local-secret"
		log.Println("using the default dev signing secret; set OMNI_DEV_SECRET to override")
	}

	store, err := devserver.OpenStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	if _, err := store.TenantConfig(); err != nil || *reseed {
		log.Println("seeding demo tenant")
		if err := store.SeedDemo(); err != nil {
			log.Fatalf("Failed to seed demo tenant: %v", err)
		}
	}

	srv := devserver.NewServer(store, *secret, *mediaDir)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: srv.Router(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Dev backend listening on :%d", *port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
