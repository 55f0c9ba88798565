package loans

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"underwriting_engine/pkg/core/cashflow"
	"underwriting_engine/pkg/core/debt"
	"underwriting_engine/pkg/core/pipeline"
	"underwriting_engine/pkg/core/sensitivity"
	"underwriting_engine/pkg/core/store"
)

var orchestrator *pipeline.Orchestrator
var sizingRepo store.SizingRepository

// InitHandler wires the shared orchestrator and repository used by the
// stateful endpoints. The pure calculation endpoints work without it.
func InitHandler(orch *pipeline.Orchestrator, repo store.SizingRepository) {
	orchestrator = orch
	sizingRepo = repo
}

func allowCORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type RevolverRequest struct {
	Params  debt.RevolverLoanParams `json:"params"`
	Periods []debt.PeriodCosts      `json:"periods"`
}

// HandleRevolver sizes a revolver from explicit period costs.
// POST /api/loans/revolver
func HandleRevolver(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RevolverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := debt.SizeRevolver(req.Params, req.Periods)
	if err != nil {
		if errors.Is(err, debt.ErrUnsupportedDrawTrigger) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

type TermRequest struct {
	Params     debt.TermLoanParams `json:"params"`
	NumPeriods int                 `json:"num_periods"`
}

// HandleTerm amortizes a fixed-amount term loan.
// POST /api/loans/term
func HandleTerm(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, debt.AmortizeTerm(req.Params, req.NumPeriods))
}

type SensitivityRequest struct {
	Params      debt.RevolverLoanParams `json:"params"`
	Periods     []debt.PeriodCosts      `json:"periods"`
	Rates       []float64               `json:"rates"`
	LoanToCosts []float64               `json:"loan_to_costs"`
}

// HandleSensitivity sizes a rate x LTC grid around a base parameter set.
// POST /api/loans/sensitivity
func HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Rates) == 0 || len(req.LoanToCosts) == 0 {
		http.Error(w, "rates and loan_to_costs must be non-empty", http.StatusBadRequest)
		return
	}

	cells, err := sensitivity.RunGrid(req.Params, req.Rates, req.LoanToCosts, req.Periods)
	if err != nil {
		if errors.Is(err, debt.ErrUnsupportedDrawTrigger) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"cells": cells})
}

type SizeRunRequest struct {
	Scenario *cashflow.ProjectScenario `json:"scenario"`
}

// HandleSizeRun runs the full orchestrated flow for a scenario, persisting
// the run when storage is configured.
// POST /api/loans/size
func HandleSizeRun(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if orchestrator == nil {
		http.Error(w, "orchestrator not initialized", http.StatusServiceUnavailable)
		return
	}

	var req SizeRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Scenario == nil {
		http.Error(w, "scenario is required", http.StatusBadRequest)
		return
	}
	if err := req.Scenario.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := orchestrator.RunScenario(r.Context(), req.Scenario)
	if err != nil {
		if errors.Is(err, debt.ErrUnsupportedDrawTrigger) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, run)
}

// HandleRuns serves stored runs: ?id=<run id> for one run, otherwise the
// most recent headers.
// GET /api/loans/runs
func HandleRuns(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r) {
		return
	}
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if sizingRepo == nil {
		http.Error(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		run, err := sizingRepo.LoadRun(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, run)
		return
	}

	headers, err := sizingRepo.ListRecent(r.Context(), 20)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list runs: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"runs": headers})
}
