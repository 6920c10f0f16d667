package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"github.com/jung-kurt/gofpdf/v2"
	"parking-backend/internal/models"
	"parking-backend/internal/timeutil"
)

// TicketArchiver stores a rendered ticket PDF
type TicketArchiver interface {
	SaveTicket(ctx context.Context, year int, ticketNumber string, pdf []byte) (string, error)
}

// TicketRenderer turns a ledger row into a printable ticket
type TicketRenderer struct {
	Currency string
	Archive  TicketArchiver // nil disables archiving
}

func NewTicketRenderer(currency string, archive TicketArchiver) *TicketRenderer {
	return &TicketRenderer{Currency: currency, Archive: archive}
}

// Fields are the ticket lines in print order
func (t *TicketRenderer) Fields(r *models.LedgerRow) []models.TicketField {
	return ticketFields(r, t.Currency)
}

func ticketFields(r *models.LedgerRow, currency string) []models.TicketField {
	exitLayout := timeutil.TimeLayout
	if timeutil.FormatIST(r.EntryTime, timeutil.DateLayout) != timeutil.FormatIST(r.ExitTime, timeutil.DateLayout) {
		exitLayout = timeutil.DateTimeLayout
	}
	return []models.TicketField{
		{Label: "Ticket Number", Value: r.TicketNumber},
		{Label: "Customer Name", Value: r.CustomerName},
		{Label: "Vehicle Number", Value: r.VehicleNumber},
		{Label: "Contact No", Value: r.ContactNumber},
		{Label: "Aadhar Number", Value: r.IdentityNumber},
		{Label: "Parking Date", Value: timeutil.FormatIST(r.EntryTime, timeutil.DateLayout)},
		{Label: "Entry Time", Value: timeutil.FormatIST(r.EntryTime, timeutil.TimeLayout)},
		{Label: "Exit Time", Value: timeutil.FormatIST(r.ExitTime, exitLayout)},
		{Label: "Slot Name", Value: fmt.Sprintf("%s #%d", r.CategoryName, r.SlotNumber)},
		{Label: "Hours Parked", Value: fmt.Sprintf("%d", r.HoursParked)},
		{Label: "Amount Paid", Value: FormatAmount(currency, r.Amount)},
		{Label: "Payment Status", Value: string(r.Status)},
	}
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Parking Ticket {{.Ticket}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; }
h1 { text-align: center; }
table { width: 100%; border-collapse: collapse; }
td { border: 1px solid #444; padding: 6px 10px; }
td.label { font-weight: bold; width: 40%; }
p.footer { text-align: center; margin-top: 24px; }
</style>
</head>
<body onload="window.print()">
<h1>Parking Ticket</h1>
<table>
{{range .Fields}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
<p class="footer">Thank You for Choosing Us!</p>
</body>
</html>
`))

// HTML renders a self-printing ticket document
func (t *TicketRenderer) HTML(r *models.LedgerRow) ([]byte, error) {
	var buf bytes.Buffer
	err := ticketTemplate.Execute(&buf, struct {
		Ticket string
		Fields []models.TicketField
	}{r.TicketNumber, t.Fields(r)})
	if err != nil {
		return nil, fmt.Errorf("render ticket %s: %w", r.TicketNumber, err)
	}
	return buf.Bytes(), nil
}

// PDF renders the ticket with gofpdf and archives it when an archive is set.
// The core fonts have no rupee glyph so amounts use "Rs. ".
func (t *TicketRenderer) PDF(ctx context.Context, r *models.LedgerRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(128, 10, "Parking Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	for _, f := range ticketFields(r, "Rs. ") {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 8, f.Label, "1", 0, "L", true, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(78, 8, f.Value, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 11)
	pdf.CellFormat(128, 8, "Thank You for Choosing Us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket %s: %w", r.TicketNumber, err)
	}
	data := buf.Bytes()

	if t.Archive != nil {
		year := timeutil.ToIST(r.EntryTime).Year()
		if _, err := t.Archive.SaveTicket(ctx, year, r.TicketNumber, data); err != nil {
			// archive errors are logged, the ticket is still returned
			log.Printf("[Ticket] archive failed for %s: %v", r.TicketNumber, err)
		}
	}
	return data, nil
}
