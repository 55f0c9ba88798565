package ledger

import (
	"math"
	"testing"

	"underwriting_engine/pkg/core/debt"
)

func TestBuildDrawSchedule(t *testing.T) {
	res := debt.RevolverResult{
		CommitmentAmount:      1000,
		InterestReserveFunded: 100,
		OriginationFee:        10,
		ClosingCosts:          40,
		PeakBalance:           800,
		PeakBalancePct:        0.8,
		IterationsToConverge:  4,
		Periods: []debt.RevolverPeriod{
			{PeriodIndex: 0, CostDraw: 400, AccruedInterest: 0, InterestReserveDraw: 0, EndingBalance: 450},
			{PeriodIndex: 1, CostDraw: 450, AccruedInterest: 30, InterestReserveDraw: 20, EndingBalance: 930},
			{PeriodIndex: 2, CostDraw: 0, AccruedInterest: 31, InterestReserveDraw: 15, EndingBalance: 961},
		},
	}

	ds := BuildDrawSchedule(res)

	// 1000 - (100 + 10 + 40) = 850 available for cost draws.
	if ds.AvailableForCosts != 850 {
		t.Errorf("expected available 850, got %.2f", ds.AvailableForCosts)
	}
	if len(ds.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(ds.Rows))
	}

	wantCumDrawn := []float64{400, 850, 850}
	wantCapacity := []float64{450, 0, 0}
	wantCumInterest := []float64{0, 30, 61}
	// Deferred = cumulative accrued - cumulative reserve-paid.
	wantDeferred := []float64{0, 10, 26}
	for i, row := range ds.Rows {
		if row.CumulativeDrawn != wantCumDrawn[i] {
			t.Errorf("row %d: cum drawn %.2f, want %.2f", i, row.CumulativeDrawn, wantCumDrawn[i])
		}
		if row.AvailableCapacity != wantCapacity[i] {
			t.Errorf("row %d: capacity %.2f, want %.2f", i, row.AvailableCapacity, wantCapacity[i])
		}
		if row.CumulativeInterest != wantCumInterest[i] {
			t.Errorf("row %d: cum interest %.2f, want %.2f", i, row.CumulativeInterest, wantCumInterest[i])
		}
		if math.Abs(row.DeferredInterest-wantDeferred[i]) > 1e-9 {
			t.Errorf("row %d: deferred %.2f, want %.2f", i, row.DeferredInterest, wantDeferred[i])
		}
	}

	if ds.IterationsToConverge != 4 {
		t.Errorf("iterations not carried through: %d", ds.IterationsToConverge)
	}
}
