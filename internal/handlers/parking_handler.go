package handlers

import (
	"net/http"

	"parking-backend/internal/models"
	"parking-backend/internal/services"
	"parking-backend/pkg/utils"
)

type ParkingHandler struct {
	Service *services.IntakeService
}

func NewParkingHandler(s *services.IntakeService) *ParkingHandler {
	return &ParkingHandler{Service: s}
}

// Create checks a vehicle in and returns the entry with its unpaid ticket
func (h *ParkingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateParkingRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	res, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, res)
}

func (h *ParkingHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *ParkingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}
