// Package ledger derives the draw-schedule ledger consumed by the reporting
// side from a sized revolver result. It is a pure projection of the engine's
// schedule: cumulative series plus remaining-capacity figures, no new
// financial logic.
package ledger

import "underwriting_engine/pkg/core/debt"

// Row is one ledger line per period.
type Row struct {
	PeriodIndex        int     `json:"period_index"`
	CostDraw           float64 `json:"cost_draw"`
	CumulativeDrawn    float64 `json:"cumulative_drawn"`
	AccruedInterest    float64 `json:"accrued_interest"`
	CumulativeInterest float64 `json:"cumulative_interest"`
	// DeferredInterest is cumulative interest accrued but not covered by
	// the reserve; it rides the balance until releases repay it.
	DeferredInterest  float64 `json:"deferred_interest"`
	AvailableCapacity float64 `json:"available_capacity"` // cost capacity not yet drawn
	EndingBalance     float64 `json:"ending_balance"`
}

// DrawSchedule is the ledger plus the summary block reporting reads from.
type DrawSchedule struct {
	Rows                 []Row   `json:"rows"`
	CommitmentAmount     float64 `json:"commitment_amount"`
	AvailableForCosts    float64 `json:"available_for_costs"`
	TotalReleasePayments float64 `json:"total_release_payments"`
	PeakBalance          float64 `json:"peak_balance"`
	PeakBalancePct       float64 `json:"peak_balance_pct"`
	// IterationsToConverge mirrors the solver's count. The engine returns
	// no error on non-convergence, so a value at the solver cap (15) is
	// the only signal a consumer gets.
	IterationsToConverge int `json:"iterations_to_converge"`
}

// BuildDrawSchedule projects a revolver result into ledger form.
func BuildDrawSchedule(res debt.RevolverResult) DrawSchedule {
	available := res.CommitmentAmount - (res.InterestReserveFunded + res.OriginationFee + res.ClosingCosts)

	rows := make([]Row, 0, len(res.Periods))
	var cumDrawn, cumInterest, cumReservePaid float64
	for _, p := range res.Periods {
		cumDrawn += p.CostDraw
		cumInterest += p.AccruedInterest
		cumReservePaid += p.InterestReserveDraw
		rows = append(rows, Row{
			PeriodIndex:        p.PeriodIndex,
			CostDraw:           p.CostDraw,
			CumulativeDrawn:    cumDrawn,
			AccruedInterest:    p.AccruedInterest,
			CumulativeInterest: cumInterest,
			DeferredInterest:   cumInterest - cumReservePaid,
			AvailableCapacity:  available - cumDrawn,
			EndingBalance:      p.EndingBalance,
		})
	}

	return DrawSchedule{
		Rows:                 rows,
		CommitmentAmount:     res.CommitmentAmount,
		AvailableForCosts:    available,
		TotalReleasePayments: res.TotalReleasePayments,
		PeakBalance:          res.PeakBalance,
		PeakBalancePct:       res.PeakBalancePct,
		IterationsToConverge: res.IterationsToConverge,
	}
}
