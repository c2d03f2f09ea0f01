package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stresscast/internal/core"
	"stresscast/internal/types"
)

// RegionDirectoryInterface defines the directory contract for the region
// handler.
type RegionDirectoryInterface interface {
	ListRegions(ctx context.Context) ([]types.Region, error)
}

// RegionHandler serves the region reference data.
type RegionHandler struct {
	directory RegionDirectoryInterface
	logger    *slog.Logger
}

// NewRegionHandler creates a new RegionHandler.
func NewRegionHandler(directory RegionDirectoryInterface, logger *slog.Logger) *RegionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegionHandler{
		directory: directory,
		logger:    logger,
	}
}

// RegisterRoutes mounts the region endpoints onto the mux.
func (h *RegionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/regions", h.HandleListRegions)
}

// regionListResponse is the payload of GET /v1/regions.
type regionListResponse struct {
	Regions []types.Region `json:"regions"`
	Count   int            `json:"count"`
}

// HandleListRegions handles GET /v1/regions. Returns every known region in
// stable ID order.
func (h *RegionHandler) HandleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.directory.ListRegions(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	if regions == nil {
		regions = []types.Region{}
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: regionListResponse{
			Regions: regions,
			Count:   len(regions),
		},
	})
}
