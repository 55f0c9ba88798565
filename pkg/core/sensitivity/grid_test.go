package sensitivity

import (
	"errors"
	"testing"
	"time"

	"underwriting_engine/pkg/core/debt"
)

func gridFixture() (debt.RevolverLoanParams, []debt.PeriodCosts) {
	base := debt.RevolverLoanParams{
		LoanToCostPct:           0.60,
		InterestRateAnnual:      0.07,
		OriginationFeePct:       0.01,
		InterestReserveInflator: 1.2,
		LoanTermMonths:          12,
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periods := make([]debt.PeriodCosts, 12)
	for i := range periods {
		periods[i] = debt.PeriodCosts{PeriodIndex: i, Date: start.AddDate(0, i, 0), TotalCosts: 250000}
	}
	return base, periods
}

func TestRunGridOrderAndOverrides(t *testing.T) {
	base, periods := gridFixture()
	rates := []float64{0.06, 0.08}
	ltcs := []float64{0.55, 0.65, 0.75}

	cells, err := RunGrid(base, rates, ltcs, periods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) != 6 {
		t.Fatalf("expected 6 cells, got %d", len(cells))
	}

	// Row-major: rates outer, LTCs inner.
	for i, rate := range rates {
		for j, ltc := range ltcs {
			cell := cells[i*len(ltcs)+j]
			if cell.InterestRateAnnual != rate || cell.LoanToCostPct != ltc {
				t.Errorf("cell %d: got (%.2f, %.2f), want (%.2f, %.2f)",
					i*len(ltcs)+j, cell.InterestRateAnnual, cell.LoanToCostPct, rate, ltc)
			}
			if cell.CommitmentAmount <= 0 {
				t.Errorf("cell %d: commitment not sized", i*len(ltcs)+j)
			}
		}
	}

	// More leverage means a larger commitment at the same rate.
	if cells[0].CommitmentAmount >= cells[2].CommitmentAmount {
		t.Errorf("commitment should grow with LTC: %.2f vs %.2f",
			cells[0].CommitmentAmount, cells[2].CommitmentAmount)
	}
}

func TestRunGridDeterministic(t *testing.T) {
	base, periods := gridFixture()
	rates := []float64{0.05, 0.06, 0.07, 0.08}
	ltcs := []float64{0.55, 0.60, 0.65, 0.70}

	first, err := RunGrid(base, rates, ltcs, periods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := RunGrid(base, rates, ltcs, periods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cell %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRunGridRejectsBadTrigger(t *testing.T) {
	base, periods := gridFixture()
	base.DrawTriggerType = "SCHEDULED"

	if _, err := RunGrid(base, []float64{0.07}, []float64{0.6}, periods); !errors.Is(err, debt.ErrUnsupportedDrawTrigger) {
		t.Fatalf("expected ErrUnsupportedDrawTrigger, got %v", err)
	}
}
