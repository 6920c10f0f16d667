package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"parking-backend/internal/models"
	"parking-backend/internal/services"
	"parking-backend/internal/timeutil"
	"parking-backend/internal/validation"
	"parking-backend/pkg/utils"
)

// PaymentHandler serves the ledger, its CSV export and printable tickets
type PaymentHandler struct {
	Ledger  *services.LedgerService
	Tickets *services.TicketRenderer
}

func NewPaymentHandler(ledger *services.LedgerService, tickets *services.TicketRenderer) *PaymentHandler {
	return &PaymentHandler{Ledger: ledger, Tickets: tickets}
}

func ledgerFilter(w http.ResponseWriter, r *http.Request) (models.LedgerFilter, bool) {
	q := r.URL.Query()
	f := models.LedgerFilter{
		Status: models.PaymentStatus(q.Get("status")),
		Query:  q.Get("q"),
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			utils.JSON(w, http.StatusBadRequest, validation.New("limit", "Must be a positive number"))
			return f, false
		}
		f.Limit = n
	}
	return f, true
}

// List returns ledger rows. Query: status, q (ticket or vehicle), limit.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := ledgerFilter(w, r)
	if !ok {
		return
	}
	rows, err := h.Ledger.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *PaymentHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	f, ok := ledgerFilter(w, r)
	if !ok {
		return
	}
	data, err := h.Ledger.ExportCSV(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("payments_%s.csv", timeutil.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(data)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.Ledger.GetByTicket(r.Context(), mux.Vars(r)["ticket_number"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, row)
}

// Ticket renders one ticket. ?format=json (default), html or pdf.
func (h *PaymentHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "html" && format != "pdf" {
		utils.JSON(w, http.StatusBadRequest, validation.New("format", "Format must be json, html or pdf"))
		return
	}

	row, err := h.Ledger.GetByTicket(r.Context(), mux.Vars(r)["ticket_number"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format {
	case "html":
		doc, err := h.Tickets.HTML(row)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(doc)
	case "pdf":
		data, err := h.Tickets.PDF(r.Context(), row)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s.pdf\"", row.TicketNumber))
		w.Write(data)
	default:
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"ticket_number": row.TicketNumber,
			"fields":        h.Tickets.Fields(row),
		})
	}
}
