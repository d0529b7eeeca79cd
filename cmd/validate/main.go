package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/config"
	"github.com/claimshield/compliance-engine/internal/validation"
)

// validate runs a single claim file through the engine and prints the
// validation report as JSON. It is meant for batch scripts and local rule
// catalog testing; no database or broker is touched.
func main() {
	var configPath string
	var claimPath string
	var historyPath string

	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&claimPath, "claim", "", "Path to a claim snapshot JSON file")
	flag.StringVar(&historyPath, "history", "", "Path to a patient history JSON file (optional)")
	flag.Parse()

	if claimPath == "" {
		fmt.Fprintln(os.Stderr, "usage: validate -claim <claim.json> [-history <history.json>] [-config <config.yaml>]")
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatalf("failed to load configuration: %v", err)
	}

	cat := catalog.Default()
	if cfg.Engine.CatalogPath != "" {
		cat, err = catalog.Load(cfg.Engine.CatalogPath)
		if err != nil {
			fatalf("failed to load catalog: %v", err)
		}
	}

	var snapshot claims.ClaimSnapshot
	if err := readJSON(claimPath, &snapshot); err != nil {
		fatalf("failed to read claim: %v", err)
	}

	req := validation.Request{Snapshot: &snapshot}
	if historyPath != "" {
		var history claims.PatientHistory
		if err := readJSON(historyPath, &history); err != nil {
			fatalf("failed to read history: %v", err)
		}
		req.History = &history
	}

	engine, err := validation.NewEngine(cat, cfg.Engine, clockwork.NewRealClock(), nil, zap.NewNop())
	if err != nil {
		fatalf("failed to create engine: %v", err)
	}

	report, err := engine.Validate(context.Background(), req)
	if err != nil {
		fatalf("validation failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fatalf("failed to encode report: %v", err)
	}
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
