package handlers

import (
	"net/http"

	"parking-backend/internal/services"
	"parking-backend/pkg/utils"
)

type OccupancyHandler struct {
	Service *services.OccupancyService
}

func NewOccupancyHandler(s *services.OccupancyService) *OccupancyHandler {
	return &OccupancyHandler{Service: s}
}

func (h *OccupancyHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, overview)
}

func (h *OccupancyHandler) Grid(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "category_id")
	if !ok {
		return
	}
	grid, err := h.Service.Grid(r.Context(), categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, grid)
}

// Select is a click on a grid cell. Body: {"confirm": true} to free an
// occupied slot.
func (h *OccupancyHandler) Select(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "category_id")
	if !ok {
		return
	}
	slotNumber, ok := pathID(w, r, "slot_number")
	if !ok {
		return
	}
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if !decodeJSON(w, r, &req, true) {
		return
	}

	res, err := h.Service.Select(r.Context(), categoryID, slotNumber, req.Confirm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
