package cashflow

import (
	"fmt"
	"time"

	"underwriting_engine/pkg/core/debt"
)

// DateLayout is the month format used in scenario files ("2026-01").
const DateLayout = "2006-01"

// ProductAssumptions describes one lot product's cost basis and absorption
// pace. Lots sell at LotsPerMonth starting at SalesStartPeriod until
// TotalLots is exhausted.
type ProductAssumptions struct {
	ProductID        string  `yaml:"product_id" json:"product_id"`
	CostPerLot       float64 `yaml:"cost_per_lot" json:"cost_per_lot"`
	TotalLots        float64 `yaml:"total_lots" json:"total_lots"`
	LotsPerMonth     float64 `yaml:"lots_per_month" json:"lots_per_month"`
	SalesStartPeriod int     `yaml:"sales_start_period" json:"sales_start_period"`
}

// ProjectScenario is the file-level description of one sizing run: the
// project's cost curve and absorption assumptions plus the loan terms to size
// against them. Loaded from YAML or HJSON (see LoadScenario).
type ProjectScenario struct {
	ProjectName  string                   `yaml:"project_name" json:"project_name"`
	StartDate    string                   `yaml:"start_date" json:"start_date"` // DateLayout
	NumPeriods   int                      `yaml:"num_periods" json:"num_periods"`
	MonthlyCosts []float64                `yaml:"monthly_costs" json:"monthly_costs"`
	Products     []ProductAssumptions     `yaml:"products" json:"products"`
	Revolver     *debt.RevolverLoanParams `yaml:"revolver" json:"revolver"`
	Term         *debt.TermLoanParams     `yaml:"term" json:"term"`
}

// Validate checks the scenario is internally consistent before any engine
// run. The engine itself does not validate its period stream, so this is the
// one place malformed scenarios are caught.
func (s *ProjectScenario) Validate() error {
	if s.NumPeriods <= 0 {
		return fmt.Errorf("scenario %q: num_periods must be positive", s.ProjectName)
	}
	if _, err := time.Parse(DateLayout, s.StartDate); err != nil {
		return fmt.Errorf("scenario %q: bad start_date %q (want YYYY-MM): %w", s.ProjectName, s.StartDate, err)
	}
	if len(s.MonthlyCosts) > s.NumPeriods {
		return fmt.Errorf("scenario %q: %d monthly costs exceed %d periods", s.ProjectName, len(s.MonthlyCosts), s.NumPeriods)
	}
	for _, p := range s.Products {
		if p.ProductID == "" {
			return fmt.Errorf("scenario %q: product with empty id", s.ProjectName)
		}
		if p.LotsPerMonth > 0 && p.CostPerLot <= 0 {
			return fmt.Errorf("scenario %q: product %q sells lots but has no cost basis", s.ProjectName, p.ProductID)
		}
	}
	if s.Revolver != nil {
		if end := s.Revolver.LoanStartPeriod + s.Revolver.LoanTermMonths; end > s.NumPeriods {
			return fmt.Errorf("scenario %q: revolver window ends at period %d but only %d periods are modeled",
				s.ProjectName, end, s.NumPeriods)
		}
	}
	return nil
}

// BuildPeriods expands the scenario into the ordered period cost stream the
// debt engine consumes. Deterministic: the same scenario always yields the
// same stream.
func (s *ProjectScenario) BuildPeriods() ([]debt.PeriodCosts, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	start, _ := time.Parse(DateLayout, s.StartDate)

	remaining := make(map[string]float64, len(s.Products))
	for _, p := range s.Products {
		remaining[p.ProductID] = p.TotalLots
	}

	periods := make([]debt.PeriodCosts, 0, s.NumPeriods)
	for i := 0; i < s.NumPeriods; i++ {
		pc := debt.PeriodCosts{
			PeriodIndex: i,
			Date:        start.AddDate(0, i, 0),
		}
		if i < len(s.MonthlyCosts) {
			pc.TotalCosts = s.MonthlyCosts[i]
		}

		for _, p := range s.Products {
			if i < p.SalesStartPeriod || p.LotsPerMonth <= 0 {
				continue
			}
			lots := p.LotsPerMonth
			if left := remaining[p.ProductID]; lots > left {
				lots = left
			}
			if lots <= 0 {
				continue
			}
			remaining[p.ProductID] -= lots
			if pc.LotsSoldByProduct == nil {
				pc.LotsSoldByProduct = make(map[string]float64)
				pc.CostPerLotByProduct = make(map[string]float64)
			}
			pc.LotsSoldByProduct[p.ProductID] = lots
			pc.CostPerLotByProduct[p.ProductID] = p.CostPerLot
		}
		periods = append(periods, pc)
	}
	return periods, nil
}

// TotalCostBasis is the project cost incurred across all modeled periods.
func (s *ProjectScenario) TotalCostBasis() float64 {
	total := 0.0
	for _, c := range s.MonthlyCosts {
		total += c
	}
	return total
}
