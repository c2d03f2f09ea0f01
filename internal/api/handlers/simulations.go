// Package handlers contains the HTTP handler implementations for the
// StressCast API. Each handler binds a service to a set of chi routes and
// translates between the wire format and the service types.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stresscast/internal/core"
	"stresscast/internal/simulations"
	"stresscast/internal/types"
)

// SimulationServiceInterface defines the service contract for the simulation
// handler. Defined locally to avoid tight coupling per the handler injection
// pattern.
type SimulationServiceInterface interface {
	Run(ctx context.Context, sc types.Scenario) (*simulations.SimulationResponse, error)
	Outlook(ctx context.Context, startDate, endDate string) (*simulations.OutlookResponse, error)
}

// SimulationHandler maps HTTP requests to simulation service methods.
type SimulationHandler struct {
	service   SimulationServiceInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(svc SimulationServiceInterface, val *core.Validator, logger *slog.Logger) *SimulationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationHandler{
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the simulation endpoints onto the mux.
func (h *SimulationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/simulations/{domain}", h.HandleRunSimulation)
	r.Get("/outlook", h.HandleOutlook)
}

// HandleRunSimulation handles POST /v1/simulations/{domain}.
//
//  1. Parse the domain path segment.
//  2. Decode the scenario body; the path domain is authoritative and
//     overrides any domain field in the body.
//  3. Validate the wire shape (required fields, date format) before the
//     service applies the semantic parameter bounds.
//  4. Run the simulation and return the full response.
func (h *SimulationHandler) HandleRunSimulation(w http.ResponseWriter, r *http.Request) {
	domainParam := chi.URLParam(r, "domain")
	domain, err := types.ParseDomain(domainParam)
	if err != nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidDomain,
			fmt.Sprintf("domain must be one of energy, water, agriculture; got %q", domainParam),
			nil,
		))
		return
	}

	var scenario types.Scenario
	if err := core.DecodeJSON(w, r, &scenario); err != nil {
		core.Error(w, r, err)
		return
	}
	scenario.Domain = domain

	if err := h.validator.ValidateStruct(scenario); err != nil {
		core.Error(w, r, err)
		return
	}

	resp, err := h.service.Run(r.Context(), scenario)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}

// outlookQuery is the validated shape of the outlook query string.
type outlookQuery struct {
	Start string `validate:"required,sim_date"`
	End   string `validate:"required,sim_date"`
}

// HandleOutlook handles GET /v1/outlook?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Runs the zero-adjustment baseline scenario across all domains.
func (h *SimulationHandler) HandleOutlook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := outlookQuery{
		Start: q.Get("start"),
		End:   q.Get("end"),
	}
	if err := h.validator.ValidateStruct(query); err != nil {
		core.Error(w, r, err)
		return
	}

	resp, err := h.service.Outlook(r.Context(), query.Start, query.End)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}
