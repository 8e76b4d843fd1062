package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/pverdant/leafval/internal/adapters/http"
	filestore "github.com/pverdant/leafval/internal/adapters/storage/file"
	firestorestore "github.com/pverdant/leafval/internal/adapters/storage/firestore"
	memstore "github.com/pverdant/leafval/internal/adapters/storage/memory"
	"github.com/pverdant/leafval/internal/app/review"
	"github.com/pverdant/leafval/internal/catalog"
	"github.com/pverdant/leafval/internal/config"
	"github.com/pverdant/leafval/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	items, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("error loading catalog: %v", err)
	}
	log.Printf("[CATALOG] loaded %d items from %s", len(items), cfg.CatalogPath)

	// Storage: file (default), Firestore, or plain memory for dev
	var (
		sessionStore  domain.SessionStore
		reviewedStore domain.ReviewedStore
		artifactStore domain.ArtifactStore
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		defer fsStore.Close()

		// 1 store, implements 3 interfaces
		sessionStore = fsStore
		reviewedStore = fsStore
		artifactStore = fsStore

	case "memory":
		log.Println("[STORE] Using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		reviewedStore = memstore.NewReviewedStore()
		artifactStore = memstore.NewArtifactStore()

	default:
		log.Printf("[STORE] Using file storage (dir=%s)", cfg.DataDir)
		store, err := filestore.NewStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("error initializing file store: %v", err)
		}
		defer store.Close()

		sessionStore = store
		reviewedStore = store
		artifactStore = store
	}

	svc := review.NewService(items, sessionStore, reviewedStore, artifactStore,
		review.WithBatchSize(cfg.BatchSize))

	handler := httpadapter.NewServer(svc)

	addr := ":" + cfg.Port
	log.Println("Leafval API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
