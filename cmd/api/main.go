package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"underwriting_engine/pkg/api/loans"
	"underwriting_engine/pkg/core/pipeline"
	"underwriting_engine/pkg/core/store"
)

// ServerConfig is the shape of config/engine.yaml.
type ServerConfig struct {
	Port     int  `yaml:"port"`
	Database bool `yaml:"database"` // enable pgx persistence
}

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := ServerConfig{Port: 8080}
	if data, err := os.ReadFile("config/engine.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fmt.Printf("[WARNING] bad config/engine.yaml: %v\n", err)
		}
	} else {
		fmt.Println("[CONFIG] config/engine.yaml not found, using defaults")
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	orch := pipeline.NewOrchestrator()
	var repo store.SizingRepository

	if cfg.Database {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] database disabled: %v\n", err)
		} else {
			defer store.Close()
			orch.EnablePersistence()
			repo = store.NewSizingRepo()
			fmt.Println("[DB] connected, runs will be persisted")
		}
	}

	loans.InitHandler(orch, repo)

	http.HandleFunc("/api/loans/revolver", loans.HandleRevolver)
	http.HandleFunc("/api/loans/term", loans.HandleTerm)
	http.HandleFunc("/api/loans/sensitivity", loans.HandleSensitivity)
	http.HandleFunc("/api/loans/size", loans.HandleSizeRun)
	http.HandleFunc("/api/loans/runs", loans.HandleRuns)

	addr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - POST /api/loans/revolver")
	fmt.Println("  - POST /api/loans/term")
	fmt.Println("  - POST /api/loans/sensitivity")
	fmt.Println("  - POST /api/loans/size")
	fmt.Println("  - GET  /api/loans/runs")

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
