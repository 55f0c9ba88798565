package debt

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedDrawTrigger is returned when a revolver is configured with a
// draw trigger other than cost-incurred.
var ErrUnsupportedDrawTrigger = errors.New("unsupported draw trigger type")

const (
	// reserveTolerance is the convergence tolerance on the interest
	// reserve, in dollars. Output compatibility depends on this exact
	// value; do not tighten it.
	reserveTolerance = 1.0

	// MaxSolverIterations bounds the fixed-point loop. If the loop hits
	// the cap the last triple is returned as-is with
	// IterationsToConverge == MaxSolverIterations; callers that care
	// about non-convergence must check that field.
	MaxSolverIterations = 15
)

// SizeRevolver sizes a construction revolver and returns its full schedule.
//
// Commitment, origination fee and interest reserve are mutually dependent:
// the commitment covers costs plus closing costs plus the reserve (grossed up
// for the fee), the fee is a percentage of the commitment, and the reserve is
// sized from total interest, which requires running the draw schedule, which
// depends on the commitment and reserve. The cycle is resolved by fixed-point
// iteration on the reserve, starting from zero.
func SizeRevolver(params RevolverLoanParams, periods []PeriodCosts) (RevolverResult, error) {
	if params.DrawTriggerType != "" && params.DrawTriggerType != DrawTriggerCostIncurred {
		return RevolverResult{}, fmt.Errorf("%w: %q", ErrUnsupportedDrawTrigger, params.DrawTriggerType)
	}

	loanStart := params.LoanStartPeriod
	loanEnd := loanStart + params.LoanTermMonths
	if loanEnd > len(periods) {
		loanEnd = len(periods)
	}
	baseCosts := 0.0
	for i := loanStart; i < loanEnd && i >= 0; i++ {
		baseCosts += periods[i].TotalCosts
	}

	reserve := 0.0
	iterations := 0
	for i := 0; i < MaxSolverIterations; i++ {
		iterations = i + 1
		commitment, fee := commitmentAndFee(params, baseCosts, reserve)
		_, totals := generateRevolverSchedule(params, periods, commitment, reserve, fee)
		newReserve := totals.TotalInterest / (2.0 - params.InterestReserveInflator)
		converged := math.Abs(newReserve-reserve) < reserveTolerance
		reserve = newReserve
		if converged {
			break
		}
	}

	// One more closed-form pass so the returned triple is internally
	// consistent with the final reserve.
	commitment, fee := commitmentAndFee(params, baseCosts, reserve)
	rows, totals := generateRevolverSchedule(params, periods, commitment, reserve, fee)

	result := RevolverResult{
		Periods:               rows,
		CommitmentAmount:      commitment,
		TotalInterest:         totals.TotalInterest,
		InterestReserveFunded: reserve,
		OriginationFee:        fee,
		ClosingCosts:          params.ClosingCosts,
		TotalReleasePayments:  totals.TotalReleasePayments,
		PeakBalance:           totals.PeakBalance,
		IterationsToConverge:  iterations,
	}
	if commitment != 0 {
		result.PeakBalancePct = totals.PeakBalance / commitment
	}
	return result, nil
}

// commitmentAndFee applies the closed-form sizing for a given reserve
// estimate. The fee is funded out of the commitment, hence the gross-up
// denominator.
func commitmentAndFee(params RevolverLoanParams, baseCosts, reserve float64) (commitment, fee float64) {
	denom := 1.0 - params.LoanToCostPct*params.OriginationFeePct
	if denom == 0 {
		return 0, 0
	}
	commitment = (baseCosts + params.ClosingCosts + reserve) * params.LoanToCostPct / denom
	fee = commitment * params.OriginationFeePct
	return commitment, fee
}
