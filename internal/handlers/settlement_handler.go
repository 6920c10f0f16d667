package handlers

import (
	"log"
	"net/http"

	"parking-backend/internal/middleware"
	"parking-backend/internal/models"
	"parking-backend/internal/services"
	"parking-backend/pkg/utils"
)

type SettlementHandler struct {
	Service *services.SettlementService
}

func NewSettlementHandler(s *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{Service: s}
}

func (h *SettlementHandler) Quote(w http.ResponseWriter, r *http.Request) {
	parkingID, ok := pathID(w, r, "parking_id")
	if !ok {
		return
	}
	quote, err := h.Service.Quote(r.Context(), parkingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, quote)
}

func (h *SettlementHandler) Pay(w http.ResponseWriter, r *http.Request) {
	parkingID, ok := pathID(w, r, "parking_id")
	if !ok {
		return
	}
	var req models.PayRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	paid, err := h.Service.Pay(r.Context(), parkingID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	operator, _ := middleware.GetUsernameFromContext(r.Context())
	log.Printf("[Settlement] Ticket %s settled by operator %s", paid.TicketNumber, operator)
	utils.JSON(w, http.StatusOK, paid)
}
