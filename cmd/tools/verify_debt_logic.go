package main

import (
	"fmt"
	"math"
	"time"

	"underwriting_engine/pkg/core/debt"
	"underwriting_engine/pkg/core/ledger"
)

// Hand-check harness for the debt engine: sizes a reference deal, prints the
// schedule head, and re-derives the key identities so a reviewer can compare
// against the sizing spreadsheet.
func main() {
	params := debt.RevolverLoanParams{
		LoanToCostPct:           0.65,
		InterestRateAnnual:      0.07,
		OriginationFeePct:       0.01,
		InterestReserveInflator: 1.2,
		RepaymentAcceleration:   1.0,
		ReleasePricePct:         0.85,
		ReleasePriceMinimum:     25000,
		ClosingCosts:            50000,
		LoanTermMonths:          24,
	}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periods := make([]debt.PeriodCosts, 24)
	for i := range periods {
		periods[i] = debt.PeriodCosts{
			PeriodIndex: i,
			Date:        start.AddDate(0, i, 0),
			TotalCosts:  10000000.0 / 24.0,
		}
		if i >= 12 {
			periods[i].LotsSoldByProduct = map[string]float64{"SFD-60": 3}
			periods[i].CostPerLotByProduct = map[string]float64{"SFD-60": 95000}
		}
	}

	res, err := debt.SizeRevolver(params, periods)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("--- Revolver Sizing ---")
	fmt.Printf("Commitment:       %.2f\n", res.CommitmentAmount)
	fmt.Printf("Interest reserve: %.2f\n", res.InterestReserveFunded)
	fmt.Printf("Origination fee:  %.2f\n", res.OriginationFee)
	fmt.Printf("Total interest:   %.2f\n", res.TotalInterest)
	fmt.Printf("Iterations:       %d\n", res.IterationsToConverge)

	fmt.Println("\nFirst 6 periods:")
	fmt.Println("  idx      begin       draw   interest  rsv draw   releases        end")
	for _, p := range res.Periods[:6] {
		fmt.Printf("  %3d %10.0f %10.0f %10.0f %9.0f %10.0f %10.0f\n",
			p.PeriodIndex, p.BeginningBalance, p.CostDraw, p.AccruedInterest,
			p.InterestReserveDraw, p.ReleasePayments, p.EndingBalance)
	}

	check := func(name string, ok bool) {
		status := "PASS"
		if !ok {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s\n", status, name)
	}

	fmt.Println("\n--- Checks ---")
	check("fee == commitment * fee pct",
		res.OriginationFee == res.CommitmentAmount*params.OriginationFeePct)
	check("reserve == total interest / (2 - inflator)",
		math.Abs(res.InterestReserveFunded-res.TotalInterest/(2.0-params.InterestReserveInflator)) < 1.0)

	sumDraws, sumReservePaid, nonNeg := 0.0, 0.0, true
	for _, p := range res.Periods {
		sumDraws += p.CostDraw
		sumReservePaid += p.InterestReserveDraw
		if p.EndingBalance < 0 || p.InterestReserveBalance < 0 {
			nonNeg = false
		}
	}
	available := res.CommitmentAmount - (res.InterestReserveFunded + res.OriginationFee + res.ClosingCosts)
	check("draws within available capacity", sumDraws <= available+1e-6)
	check("no negative balances", nonNeg)
	check("converged before the cap", res.IterationsToConverge < debt.MaxSolverIterations)

	ds := ledger.BuildDrawSchedule(res)
	lastRow := ds.Rows[len(ds.Rows)-1]
	check("ledger cumulative draws match engine draws",
		math.Abs(lastRow.CumulativeDrawn-sumDraws) < 1e-6)
	check("ledger deferred interest = accrued - reserve paid",
		math.Abs(lastRow.DeferredInterest-(res.TotalInterest-sumReservePaid)) < 1e-6)

	fmt.Println("\n--- Term Loan ---")
	term := debt.AmortizeTerm(debt.TermLoanParams{
		LoanAmount:         1000000,
		InterestRateAnnual: 0.06,
		AmortizationMonths: 360,
		LoanTermMonths:     60,
	}, 60)
	last := term.Periods[59]
	fmt.Printf("Level payment: %.2f   Balloon: %.2f\n", term.Periods[0].ScheduledPayment, term.BalloonAmount)
	check("balloon equals final beginning balance", last.BalloonAmount == last.BeginningBalance)
	check("schedule ends at zero", last.EndingBalance == 0)
}
