package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/smartkollect/kollect/internal/api"
	"github.com/smartkollect/kollect/internal/common"
	"github.com/smartkollect/kollect/internal/llm"
	"github.com/smartkollect/kollect/internal/postgres"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("kollect: .env file not loaded", "error", err)
	} else {
		logger.Info("kollect: environment loaded from .env")
	}

	addr := flag.String("addr", ":8080", "listen address")
	databaseURL := flag.String("db", "", "postgres connection url (overrides DATABASE_URL)")
	maxUpload := flag.Int64("max-upload", 0, "maximum payment file upload size in bytes")
	flag.Parse()

	logger.Info("kollect: startup initiated", "addr", *addr)

	pgCfg, err := postgres.LoadConfig()
	if err != nil {
		logger.Error("kollect: database config load failed", "error", err)
		fmt.Println("database config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*databaseURL); trimmed != "" {
		pgCfg.URL = trimmed
	}

	// A missing URL keeps the process serving so operators still reach
	// /healthz and /api/logs; data endpoints report the configuration error.
	var store *postgres.Store
	if strings.TrimSpace(pgCfg.URL) == "" {
		logger.Error("kollect: DATABASE_URL not set; starting without database")
	} else {
		store, err = postgres.OpenWithConfig(pgCfg)
		if err != nil {
			logger.Error("kollect: database connection failed", "error", err)
			fmt.Println("database error:", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("kollect: database connected")
	}

	provider := llm.NewProvider()
	logger.Info("kollect: analysis provider ready", "provider", provider.Name())

	cfg := api.DefaultConfig()
	if *maxUpload > 0 {
		cfg.MaxUploadBytes = *maxUpload
	}

	var server *api.Server
	if store != nil {
		server = api.NewServer(store, provider, &cfg)
	} else {
		server = api.NewServer(nil, provider, &cfg)
	}

	logger.Info("kollect: server listening", "addr", *addr, "health", "/healthz", "metrics", "/metrics")
	fmt.Printf("Serving on %s\n", *addr)
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("kollect: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
