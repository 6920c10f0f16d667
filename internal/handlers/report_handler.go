package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"parking-backend/internal/models"
	"parking-backend/internal/services"
	"parking-backend/pkg/utils"
)

const reportTimeout = 30 * time.Second

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// Chart returns one chart view as JSON. Query: from, to (YYYY-MM-DD).
func (h *ReportHandler) Chart(w http.ResponseWriter, r *http.Request) {
	view := models.ChartView(mux.Vars(r)["view"])
	rng, err := services.ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	report, err := h.Service.Chart(ctx, view, rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

func (h *ReportHandler) ChartPDF(w http.ResponseWriter, r *http.Request) {
	view := models.ChartView(mux.Vars(r)["view"])
	rng, err := services.ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	data, err := h.Service.ChartPDF(ctx, view, rng)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("report_%s.pdf", view)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(data)
}
