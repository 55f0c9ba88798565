package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"underwriting_engine/pkg/core/cashflow"
	"underwriting_engine/pkg/core/pipeline"
	"underwriting_engine/pkg/core/store"
)

// Batch scenario runner: sizes every scenario file given on the command line
// and prints the resulting commitments and schedules' summary figures.
//
// Usage:
//
//	pipeline [-save] scenario.yaml [scenario2.hjson ...]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	args := os.Args[1:]
	save := false
	if len(args) > 0 && args[0] == "-save" {
		save = true
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Println("usage: pipeline [-save] <scenario file> ...")
		os.Exit(2)
	}

	ctx := context.Background()
	orch := pipeline.NewOrchestrator()
	if save {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[FATAL] -save requires a database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		orch.EnablePersistence()
	}

	failures := 0
	for _, path := range args {
		scenario, err := cashflow.LoadScenario(path)
		if err != nil {
			fmt.Printf("[ERROR] %s: %v\n", path, err)
			failures++
			continue
		}

		run, err := orch.RunScenario(ctx, scenario)
		if err != nil {
			fmt.Printf("[ERROR] %s: %v\n", path, err)
			failures++
			continue
		}

		rev := run.Revolver
		fmt.Printf("\n=== %s (run %s) ===\n", run.ProjectName, run.ID)
		fmt.Printf("  Commitment:        %14.2f\n", rev.CommitmentAmount)
		fmt.Printf("  Interest reserve:  %14.2f\n", rev.InterestReserveFunded)
		fmt.Printf("  Origination fee:   %14.2f\n", rev.OriginationFee)
		fmt.Printf("  Total interest:    %14.2f\n", rev.TotalInterest)
		fmt.Printf("  Total releases:    %14.2f\n", rev.TotalReleasePayments)
		fmt.Printf("  Peak balance:      %14.2f  (%.1f%% of commitment)\n", rev.PeakBalance, rev.PeakBalancePct*100)
		fmt.Printf("  Iterations:        %d\n", rev.IterationsToConverge)
		if run.Term != nil {
			fmt.Printf("  Term balloon:      %14.2f\n", run.Term.BalloonAmount)
		}
	}

	if failures > 0 {
		fmt.Printf("\n%d scenario(s) failed\n", failures)
		os.Exit(1)
	}
}
