// Package pipeline wires one scenario end to end: period expansion, revolver
// sizing, term amortization, ledger projection, persistence. The engine
// packages stay pure; everything stateful lives here and in store.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"underwriting_engine/pkg/core/cashflow"
	"underwriting_engine/pkg/core/debt"
	"underwriting_engine/pkg/core/ledger"
	"underwriting_engine/pkg/core/store"
	"underwriting_engine/pkg/models"
)

// Orchestrator runs sizing scenarios and optionally persists the results.
type Orchestrator struct {
	repo    store.SizingRepository
	persist bool
}

// NewOrchestrator creates an orchestrator backed by the pgx repository.
// Persistence is off until EnablePersistence; the engine runs fine without a
// database.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{repo: store.NewSizingRepo()}
}

// SetRepository injects a custom repository (e.g., for testing).
func (o *Orchestrator) SetRepository(repo store.SizingRepository) {
	o.repo = repo
}

// EnablePersistence turns on run storage.
func (o *Orchestrator) EnablePersistence() {
	o.persist = true
}

// RunScenario executes the full flow for one scenario and returns the run.
// A storage failure does not fail the run: the schedules are already
// computed, so the error is logged and the run returned.
func (o *Orchestrator) RunScenario(ctx context.Context, scenario *cashflow.ProjectScenario) (*models.SizingRun, error) {
	if scenario.Revolver == nil {
		return nil, fmt.Errorf("scenario %q has no revolver parameters", scenario.ProjectName)
	}

	periods, err := scenario.BuildPeriods()
	if err != nil {
		return nil, err
	}
	fmt.Printf("[PIPELINE] %s: %d periods, %.0f total cost basis\n",
		scenario.ProjectName, len(periods), scenario.TotalCostBasis())

	revolver, err := debt.SizeRevolver(*scenario.Revolver, periods)
	if err != nil {
		return nil, fmt.Errorf("revolver sizing failed: %w", err)
	}
	fmt.Printf("[PIPELINE] %s: commitment %.0f after %d iterations (peak %.1f%%)\n",
		scenario.ProjectName, revolver.CommitmentAmount, revolver.IterationsToConverge,
		revolver.PeakBalancePct*100)
	if revolver.IterationsToConverge == debt.MaxSolverIterations {
		fmt.Printf("[WARNING] %s: solver hit the iteration cap; result may not be converged\n",
			scenario.ProjectName)
	}

	drawLedger := ledger.BuildDrawSchedule(revolver)

	run := &models.SizingRun{
		ID:          uuid.NewString(),
		ProjectName: scenario.ProjectName,
		CreatedAt:   time.Now().UTC(),
		Scenario:    scenario,
		Revolver:    &revolver,
		DrawLedger:  &drawLedger,
	}

	if scenario.Term != nil {
		term := debt.AmortizeTerm(*scenario.Term, scenario.NumPeriods)
		run.Term = &term
		fmt.Printf("[PIPELINE] %s: term schedule, balloon %.0f\n", scenario.ProjectName, term.BalloonAmount)
	}

	if o.persist && o.repo != nil {
		if err := o.repo.SaveRun(ctx, run); err != nil {
			fmt.Printf("[WARNING] failed to persist run %s: %v\n", run.ID, err)
		}
	}

	return run, nil
}
