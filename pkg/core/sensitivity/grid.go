// Package sensitivity runs rate/LTC scenario grids over the debt engine.
// The engine is pure and holds no cross-call state, so cells are sized
// concurrently without any locking beyond the result slice partition.
package sensitivity

import (
	"sync"

	"underwriting_engine/pkg/core/debt"
)

// Cell is one grid point's summary output.
type Cell struct {
	InterestRateAnnual   float64 `json:"interest_rate_annual"`
	LoanToCostPct        float64 `json:"loan_to_cost_pct"`
	CommitmentAmount     float64 `json:"commitment_amount"`
	TotalInterest        float64 `json:"total_interest"`
	PeakBalance          float64 `json:"peak_balance"`
	PeakBalancePct       float64 `json:"peak_balance_pct"`
	IterationsToConverge int     `json:"iterations_to_converge"`
}

// RunGrid sizes the revolver for every rate x LTC combination, holding all
// other parameters at base. Cells come back in row-major order (rates outer,
// LTCs inner) regardless of goroutine scheduling.
func RunGrid(base debt.RevolverLoanParams, rates, loanToCosts []float64, periods []debt.PeriodCosts) ([]Cell, error) {
	// Fail the whole grid up front on a bad configuration instead of
	// erroring per cell; rate and LTC overrides cannot introduce one.
	if _, err := debt.SizeRevolver(base, nil); err != nil {
		return nil, err
	}

	cells := make([]Cell, len(rates)*len(loanToCosts))
	var wg sync.WaitGroup
	for i, rate := range rates {
		for j, ltc := range loanToCosts {
			wg.Add(1)
			go func(idx int, rate, ltc float64) {
				defer wg.Done()
				params := base
				params.InterestRateAnnual = rate
				params.LoanToCostPct = ltc
				res, _ := debt.SizeRevolver(params, periods)
				cells[idx] = Cell{
					InterestRateAnnual:   rate,
					LoanToCostPct:        ltc,
					CommitmentAmount:     res.CommitmentAmount,
					TotalInterest:        res.TotalInterest,
					PeakBalance:          res.PeakBalance,
					PeakBalancePct:       res.PeakBalancePct,
					IterationsToConverge: res.IterationsToConverge,
				}
			}(i*len(loanToCosts)+j, rate, ltc)
		}
	}
	wg.Wait()
	return cells, nil
}
