package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/hanafuda/koikoi-go/internal/api"
	"github.com/hanafuda/koikoi-go/internal/integrity"
	"github.com/hanafuda/koikoi-go/internal/save"
	"github.com/hanafuda/koikoi-go/internal/secret"
)

type config struct {
	Port          int    `env:"PORT" envDefault:"8787"`
	DBPath        string `env:"KOIKOI_DB_PATH"`
	IntegritySalt string `env:"SAVE_INTEGRITY_SALT"`
	KeyringOff    bool   `env:"KOIKOI_NO_KEYRING"`
}

func main() {
	logger := log.New(os.Stdout, "[koikoi] ", log.LstdFlags)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatalf("config: %v", err)
	}

	dataDir, err := os.UserConfigDir()
	if err != nil {
		dataDir = "."
	}
	dataDir = filepath.Join(dataDir, "koikoi")
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dataDir, "koikoi.db")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	salt := cfg.IntegritySalt
	if !cfg.KeyringOff {
		secrets := secret.NewStore("", filepath.Join(dataDir, "secrets.json"))
		salt, err = secrets.EnsureSalt(cfg.IntegritySalt)
		if err != nil {
			logger.Fatalf("integrity salt: %v", err)
		}
	}

	store, err := save.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()

	manager := save.NewManager(integrity.NewCipher(salt), logger)
	server := api.NewServer(manager, store)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Printf("listening on %s (db %s)", addr, cfg.DBPath)
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}
