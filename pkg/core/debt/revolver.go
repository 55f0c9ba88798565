package debt

import "math"

// scheduleTotals carries the aggregate figures the solver needs without
// forcing it to re-walk the period rows.
type scheduleTotals struct {
	TotalInterest        float64
	TotalReleasePayments float64
	PeakBalance          float64
}

// generateRevolverSchedule builds the full period-by-period schedule for a
// fixed (commitment, reserve, fee) triple. It is pure: the solver re-runs it
// on every iteration, and the final call produces the returned rows.
//
// Two passes:
//  1. Reverse-fill draw pre-allocation. Capacity left for cost draws is
//     commitment - (reserve + fee + closingCosts). Walking active periods
//     from last to first, each takes min(periodCost, remainingCapacity), so
//     when capacity runs short the residual lands in the earliest period.
//     This mirrors the spreadsheet GoalSeek convention the sizing model was
//     built against and must not be replaced with forward-fill.
//  2. Forward period walk accruing interest on the beginning balance,
//     capitalizing it, paying it from the reserve, and applying release
//     payments.
func generateRevolverSchedule(
	params RevolverLoanParams,
	periods []PeriodCosts,
	commitment float64,
	interestReserve float64,
	originationFee float64,
) ([]RevolverPeriod, scheduleTotals) {

	numPeriods := len(periods)
	loanStart := params.LoanStartPeriod
	loanEnd := loanStart + params.LoanTermMonths // exclusive
	if loanEnd > numPeriods {
		loanEnd = numPeriods
	}
	monthlyRate := params.InterestRateAnnual / 12.0

	// Pass 1: reverse-fill cost draws into the active window.
	costDraws := make(map[int]float64, numPeriods)
	availableForCosts := commitment - (interestReserve + originationFee + params.ClosingCosts)
	remaining := availableForCosts
	for i := loanEnd - 1; i >= loanStart && i >= 0; i-- {
		if remaining <= 0 {
			break
		}
		draw := math.Min(periods[i].TotalCosts, remaining)
		costDraws[i] = draw
		remaining -= draw
	}

	// Pass 2: forward walk over the full period sequence.
	rows := make([]RevolverPeriod, 0, numPeriods)
	var totals scheduleTotals
	balance := 0.0
	reserveBalance := 0.0

	for i, pc := range periods {
		row := RevolverPeriod{
			PeriodIndex:      pc.PeriodIndex,
			Date:             pc.Date,
			BeginningBalance: balance,
		}

		if i == loanStart {
			row.OriginationCost = originationFee + params.ClosingCosts
			balance += row.OriginationCost
			reserveBalance += interestReserve
		}

		if i >= loanStart && i < loanEnd {
			// Interest accrues on the beginning balance only and
			// capitalizes into principal.
			accrued := row.BeginningBalance * monthlyRate
			balance += costDraws[i] + accrued

			// The reserve pays the lender directly; it never flows
			// through the loan balance.
			reserveDraw := math.Min(accrued, reserveBalance)
			reserveBalance -= reserveDraw

			releases, releaseTotal := releasePayments(params, pc, balance)
			balance -= releaseTotal

			row.CostDraw = costDraws[i]
			row.AccruedInterest = accrued
			row.InterestReserveDraw = reserveDraw
			row.ReleasePayments = releaseTotal
			row.ReleasePaymentsByProduct = releases

			totals.TotalInterest += accrued
			totals.TotalReleasePayments += releaseTotal
		}

		row.InterestReserveBalance = reserveBalance
		row.EndingBalance = math.Max(balance, 0)
		balance = row.EndingBalance
		row.LoanActivity = row.EndingBalance - row.BeginningBalance
		if row.EndingBalance > totals.PeakBalance {
			totals.PeakBalance = row.EndingBalance
		}
		rows = append(rows, row)
	}

	return rows, totals
}

// releasePayments computes the per-product balance paydowns triggered by lot
// sales this period. Each product pays
// max(costPerLot * releasePricePct * repaymentAcceleration, releasePriceMinimum)
// per lot sold; the summed total is capped at the current balance, scaling the
// per-product amounts proportionally so the breakdown always sums to the total.
func releasePayments(params RevolverLoanParams, pc PeriodCosts, balance float64) (map[string]float64, float64) {
	if len(pc.LotsSoldByProduct) == 0 {
		return nil, 0
	}

	byProduct := make(map[string]float64, len(pc.LotsSoldByProduct))
	total := 0.0
	for product, lots := range pc.LotsSoldByProduct {
		if lots == 0 {
			continue
		}
		perLot := pc.CostPerLotByProduct[product] * params.ReleasePricePct * params.RepaymentAcceleration
		perLot = math.Max(perLot, params.ReleasePriceMinimum)
		payment := perLot * lots
		byProduct[product] = payment
		total += payment
	}
	if total == 0 {
		return nil, 0
	}

	payable := math.Max(balance, 0)
	if total > payable {
		scale := payable / total
		for product := range byProduct {
			byProduct[product] *= scale
		}
		total = payable
	}
	return byProduct, total
}
