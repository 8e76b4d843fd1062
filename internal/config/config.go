package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// StorageBackend selects "memory", "file" or "firestore".
	StorageBackend string

	// DataDir is where the file backend keeps its JSON documents and CSV
	// artifacts.
	DataDir string

	// CatalogPath points at the delimited validation set loaded at startup.
	CatalogPath string

	// BatchSize is both the size of a batch and the minimum number of
	// available items required to start one.
	BatchSize int

	GCPProjectID string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("ignoring invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

// Load reads all env vars and builds the config. A .env file in the working
// directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("LEAFVAL_PORT", "8080"),

		StorageBackend: getEnv("LEAFVAL_STORAGE_BACKEND", "file"),
		DataDir:        getEnv("LEAFVAL_DATA_DIR", "data"),
		CatalogPath:    getEnv("LEAFVAL_CATALOG", "expert_validation_set.csv"),
		BatchSize:      getIntEnv("LEAFVAL_BATCH_SIZE", 50),

		GCPProjectID: getEnv("LEAFVAL_GCP_PROJECT", ""),
	}

	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("LEAFVAL_GCP_PROJECT must be set for the firestore backend")
	}

	return cfg
}
