package models

import (
	"time"

	"underwriting_engine/pkg/core/cashflow"
	"underwriting_engine/pkg/core/debt"
	"underwriting_engine/pkg/core/ledger"
)

// SizingRun is one complete orchestrated engine run: the scenario that drove
// it and everything the engine produced. This is the unit of persistence.
type SizingRun struct {
	ID          string                    `json:"id"`
	ProjectName string                    `json:"project_name"`
	CreatedAt   time.Time                 `json:"created_at"`
	Scenario    *cashflow.ProjectScenario `json:"scenario,omitempty"`
	Revolver    *debt.RevolverResult      `json:"revolver,omitempty"`
	Term        *debt.TermResult          `json:"term,omitempty"`
	DrawLedger  *ledger.DrawSchedule      `json:"draw_ledger,omitempty"`
}

// RunHeader identifies a stored run without its payload.
type RunHeader struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	CreatedAt   time.Time `json:"created_at"`
}
