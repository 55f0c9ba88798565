package pipeline

import (
	"context"
	"fmt"
	"testing"

	"underwriting_engine/pkg/core/cashflow"
	"underwriting_engine/pkg/core/debt"
	"underwriting_engine/pkg/models"
)

// --- Mocks ---

type MockRepository struct {
	SaveFunc func(ctx context.Context, run *models.SizingRun) error
	Saved    []*models.SizingRun
}

func (m *MockRepository) SaveRun(ctx context.Context, run *models.SizingRun) error {
	m.Saved = append(m.Saved, run)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, run)
	}
	return nil
}

func (m *MockRepository) LoadRun(ctx context.Context, id string) (*models.SizingRun, error) {
	for _, run := range m.Saved {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, fmt.Errorf("no sizing run found for id %s", id)
}

func (m *MockRepository) ListRecent(ctx context.Context, limit int) ([]models.RunHeader, error) {
	headers := make([]models.RunHeader, 0, len(m.Saved))
	for _, run := range m.Saved {
		headers = append(headers, models.RunHeader{ID: run.ID, ProjectName: run.ProjectName, CreatedAt: run.CreatedAt})
	}
	return headers, nil
}

func testScenario() *cashflow.ProjectScenario {
	costs := make([]float64, 18)
	for i := range costs {
		costs[i] = 300000
	}
	return &cashflow.ProjectScenario{
		ProjectName:  "Meadow Creek Phase 2",
		StartDate:    "2026-03",
		NumPeriods:   24,
		MonthlyCosts: costs,
		Products: []cashflow.ProductAssumptions{
			{ProductID: "SFD-50", CostPerLot: 90000, TotalLots: 40, LotsPerMonth: 4, SalesStartPeriod: 10},
		},
		Revolver: &debt.RevolverLoanParams{
			LoanToCostPct:           0.65,
			InterestRateAnnual:      0.07,
			OriginationFeePct:       0.01,
			InterestReserveInflator: 1.2,
			RepaymentAcceleration:   1.0,
			ReleasePricePct:         0.85,
			ClosingCosts:            40000,
			LoanTermMonths:          24,
		},
		Term: &debt.TermLoanParams{
			LoanAmount:         2500000,
			InterestRateAnnual: 0.065,
			AmortizationMonths: 300,
			InterestOnlyMonths: 6,
			LoanTermMonths:     24,
		},
	}
}

func TestRunScenarioProducesFullRun(t *testing.T) {
	orch := NewOrchestrator()
	repo := &MockRepository{}
	orch.SetRepository(repo)
	orch.EnablePersistence()

	run, err := orch.RunScenario(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.ID == "" {
		t.Error("run has no id")
	}
	if run.Revolver == nil || run.Revolver.CommitmentAmount <= 0 {
		t.Fatal("revolver not sized")
	}
	if run.DrawLedger == nil || len(run.DrawLedger.Rows) != 24 {
		t.Fatal("draw ledger missing or wrong length")
	}
	if run.Term == nil || len(run.Term.Periods) != 24 {
		t.Fatal("term schedule missing or wrong length")
	}
	if run.DrawLedger.IterationsToConverge != run.Revolver.IterationsToConverge {
		t.Error("ledger does not carry the solver iteration count")
	}

	if len(repo.Saved) != 1 || repo.Saved[0].ID != run.ID {
		t.Errorf("run not persisted exactly once: %d", len(repo.Saved))
	}
}

func TestRunScenarioStorageFailureDoesNotFailRun(t *testing.T) {
	orch := NewOrchestrator()
	orch.SetRepository(&MockRepository{
		SaveFunc: func(ctx context.Context, run *models.SizingRun) error {
			return fmt.Errorf("connection refused")
		},
	})
	orch.EnablePersistence()

	run, err := orch.RunScenario(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("storage failure leaked into the run: %v", err)
	}
	if run == nil || run.Revolver == nil {
		t.Fatal("run missing despite successful sizing")
	}
}

func TestRunScenarioRequiresRevolver(t *testing.T) {
	orch := NewOrchestrator()
	s := testScenario()
	s.Revolver = nil

	if _, err := orch.RunScenario(context.Background(), s); err == nil {
		t.Fatal("expected an error for a scenario without revolver params")
	}
}

func TestRunScenarioWithoutPersistence(t *testing.T) {
	orch := NewOrchestrator()
	repo := &MockRepository{}
	orch.SetRepository(repo)
	// persistence not enabled

	if _, err := orch.RunScenario(context.Background(), testScenario()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Saved) != 0 {
		t.Errorf("run persisted with persistence disabled: %d", len(repo.Saved))
	}
}
