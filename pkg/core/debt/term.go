package debt

import "math"

// AmortizeTerm builds the amortization schedule for a fixed-amount term loan
// over numPeriods calendar periods. Each active period is one of:
// interest-only, amortizing on a level payment, or the terminal balloon.
// Degenerate inputs (zero amount, zero periods, a start beyond the horizon)
// produce all-zero schedules rather than errors. A term longer than the
// remaining horizon is silently truncated to numPeriods - LoanStartPeriod.
func AmortizeTerm(params TermLoanParams, numPeriods int) TermResult {
	loanStart := params.LoanStartPeriod
	term := params.LoanTermMonths
	if term > numPeriods-loanStart {
		term = numPeriods - loanStart
	}
	monthlyRate := params.InterestRateAnnual / 12.0

	rows := make([]TermPeriod, 0, numPeriods)
	result := TermResult{LoanAmount: params.LoanAmount}
	if term > 0 && params.LoanAmount > 0 {
		result.OriginationFee = params.LoanAmount * params.OriginationFeePct
	}

	balance := 0.0
	levelPayment := 0.0
	levelPaymentSet := false

	for i := 0; i < numPeriods; i++ {
		row := TermPeriod{PeriodIndex: i}
		monthsIn := i - loanStart

		if monthsIn >= 0 && monthsIn < term {
			if monthsIn == 0 {
				balance = params.LoanAmount
			}
			row.BeginningBalance = balance
			interest := balance * monthlyRate
			row.InterestComponent = interest

			switch {
			case monthsIn == term-1 && balance > 0:
				// Terminal period: the remaining balance is repaid
				// in full, overriding the regular payment.
				row.IsBalloon = true
				row.BalloonAmount = balance
				row.ScheduledPayment = interest
				result.BalloonAmount = balance
				balance = 0

			case monthsIn < params.InterestOnlyMonths || params.AmortizationMonths <= 0:
				row.IsIOPeriod = true
				row.ScheduledPayment = interest

			default:
				// The level payment is sized once, from the balance
				// at the moment amortization begins, over the full
				// amortization horizon.
				if !levelPaymentSet {
					levelPayment = annuityPayment(balance, monthlyRate, params.AmortizationMonths)
					levelPaymentSet = true
				}
				principal := levelPayment - interest
				row.ScheduledPayment = levelPayment
				if principal > balance {
					principal = balance
					row.ScheduledPayment = interest + principal
				}
				row.PrincipalComponent = principal
				balance -= principal
			}

			row.EndingBalance = balance
			result.TotalInterest += row.InterestComponent
			result.TotalPrincipal += row.PrincipalComponent + row.BalloonAmount
		}

		rows = append(rows, row)
	}

	result.Periods = rows
	return result
}

// annuityPayment is the standard level payment for a fully amortizing loan:
// P * r / (1 - (1+r)^-n). A zero rate degrades to straight-line principal.
func annuityPayment(principal, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return principal / float64(months)
	}
	return principal * monthlyRate / (1.0 - math.Pow(1.0+monthlyRate, -float64(months)))
}
