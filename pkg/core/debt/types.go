package debt

import "time"

// DrawTrigger controls what event causes capacity to be drawn on a revolver.
// Only cost-incurred draws are supported; the zero value means the same thing.
type DrawTrigger string

const DrawTriggerCostIncurred DrawTrigger = "COST_INCURRED"

// RevolverLoanParams holds the contractual terms of a construction revolver.
// The commitment itself is not an input: it is sized by the solver from the
// loan-to-cost target and the period cost stream.
type RevolverLoanParams struct {
	LoanToCostPct           float64     `json:"loan_to_cost_pct" yaml:"loan_to_cost_pct"`                   // commitment as a fraction of cost basis, e.g. 0.65
	InterestRateAnnual      float64     `json:"interest_rate_annual" yaml:"interest_rate_annual"`           // e.g. 0.07
	OriginationFeePct       float64     `json:"origination_fee_pct" yaml:"origination_fee_pct"`             // charged on commitment at closing
	InterestReserveInflator float64     `json:"interest_reserve_inflator" yaml:"interest_reserve_inflator"` // >= 1.0; 1.2 means a 20% unused cushion
	RepaymentAcceleration   float64     `json:"repayment_acceleration" yaml:"repayment_acceleration"`       // multiplier on the per-lot release price
	ReleasePricePct         float64     `json:"release_price_pct" yaml:"release_price_pct"`                 // fraction of per-lot cost basis
	ReleasePriceMinimum     float64     `json:"release_price_minimum" yaml:"release_price_minimum"`         // floor on the per-lot release price
	ClosingCosts            float64     `json:"closing_costs" yaml:"closing_costs"`                         // funded into the balance at loan start
	LoanStartPeriod         int         `json:"loan_start_period" yaml:"loan_start_period"`                 // index into the period sequence
	LoanTermMonths          int         `json:"loan_term_months" yaml:"loan_term_months"`
	DrawTriggerType         DrawTrigger `json:"draw_trigger_type,omitempty" yaml:"draw_trigger_type,omitempty"`
}

// PeriodCosts is one calendar period of the project's cost and absorption
// stream, produced by the cash-flow side and consumed read-only here.
type PeriodCosts struct {
	PeriodIndex         int                `json:"period_index"`
	Date                time.Time          `json:"date"`
	TotalCosts          float64            `json:"total_costs"`
	LotsSoldByProduct   map[string]float64 `json:"lots_sold_by_product"`
	CostPerLotByProduct map[string]float64 `json:"cost_per_lot_by_product"`
}

// RevolverPeriod is one row of the generated revolver schedule.
type RevolverPeriod struct {
	PeriodIndex              int                `json:"period_index"`
	Date                     time.Time          `json:"date"`
	BeginningBalance         float64            `json:"beginning_balance"`
	CostDraw                 float64            `json:"cost_draw"`
	AccruedInterest          float64            `json:"accrued_interest"`
	InterestReserveDraw      float64            `json:"interest_reserve_draw"`
	InterestReserveBalance   float64            `json:"interest_reserve_balance"`
	OriginationCost          float64            `json:"origination_cost"` // fee + closing costs, loan start period only
	ReleasePayments          float64            `json:"release_payments"`
	ReleasePaymentsByProduct map[string]float64 `json:"release_payments_by_product"`
	EndingBalance            float64            `json:"ending_balance"`
	LoanActivity             float64            `json:"loan_activity"` // ending - beginning
}

// RevolverResult is the converged sizing plus the full period schedule.
type RevolverResult struct {
	Periods               []RevolverPeriod `json:"periods"`
	CommitmentAmount      float64          `json:"commitment_amount"`
	TotalInterest         float64          `json:"total_interest"`
	InterestReserveFunded float64          `json:"interest_reserve_funded"`
	OriginationFee        float64          `json:"origination_fee"`
	ClosingCosts          float64          `json:"closing_costs"`
	TotalReleasePayments  float64          `json:"total_release_payments"`
	PeakBalance           float64          `json:"peak_balance"`
	PeakBalancePct        float64          `json:"peak_balance_pct"` // peak / commitment
	IterationsToConverge  int              `json:"iterations_to_converge"`
}

// TermLoanParams describes a fixed-amount permanent or bridge loan.
type TermLoanParams struct {
	LoanAmount         float64 `json:"loan_amount" yaml:"loan_amount"`
	InterestRateAnnual float64 `json:"interest_rate_annual" yaml:"interest_rate_annual"`
	AmortizationMonths int     `json:"amortization_months" yaml:"amortization_months"`
	InterestOnlyMonths int     `json:"interest_only_months" yaml:"interest_only_months"`
	LoanTermMonths     int     `json:"loan_term_months" yaml:"loan_term_months"`
	OriginationFeePct  float64 `json:"origination_fee_pct" yaml:"origination_fee_pct"`
	LoanStartPeriod    int     `json:"loan_start_period" yaml:"loan_start_period"`
	PaymentFrequency   string  `json:"payment_frequency,omitempty" yaml:"payment_frequency,omitempty"` // informational only
}

// TermPeriod is one row of the term loan amortization schedule.
type TermPeriod struct {
	PeriodIndex        int     `json:"period_index"`
	BeginningBalance   float64 `json:"beginning_balance"`
	ScheduledPayment   float64 `json:"scheduled_payment"`
	InterestComponent  float64 `json:"interest_component"`
	PrincipalComponent float64 `json:"principal_component"`
	EndingBalance      float64 `json:"ending_balance"`
	IsIOPeriod         bool    `json:"is_io_period"`
	IsBalloon          bool    `json:"is_balloon"`
	BalloonAmount      float64 `json:"balloon_amount"`
}

// TermResult is the amortization schedule plus summary figures.
type TermResult struct {
	Periods        []TermPeriod `json:"periods"`
	LoanAmount     float64      `json:"loan_amount"`
	TotalInterest  float64      `json:"total_interest"`
	TotalPrincipal float64      `json:"total_principal"`
	OriginationFee float64      `json:"origination_fee"`
	BalloonAmount  float64      `json:"balloon_amount"`
}
