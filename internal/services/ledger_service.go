package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"parking-backend/internal/models"
	"parking-backend/internal/timeutil"
	"parking-backend/internal/validation"
)

type LedgerService struct {
	Ledger   LedgerStore
	Currency string
}

func NewLedgerService(ledger LedgerStore, currency string) *LedgerService {
	return &LedgerService{Ledger: ledger, Currency: currency}
}

// List returns one row per payment, newest first
func (s *LedgerService) List(ctx context.Context, f models.LedgerFilter) ([]*models.LedgerRow, error) {
	if f.Status != "" && f.Status != models.PaymentStatusPaid && f.Status != models.PaymentStatusUnpaid {
		return nil, validation.New("status", "Status must be Paid or Unpaid")
	}
	f.Query = strings.TrimSpace(f.Query)

	rows, err := s.Ledger.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.LedgerRow{}
	}
	for _, r := range rows {
		s.decorate(r)
	}
	return rows, nil
}

func (s *LedgerService) GetByTicket(ctx context.Context, ticket string) (*models.LedgerRow, error) {
	ticket = strings.ToUpper(strings.TrimSpace(ticket))
	if _, _, err := models.ParseTicketNumber(ticket); err != nil {
		return nil, validation.New("ticket_number", "Ticket number format: PK-YY-NNNN")
	}

	row, err := s.Ledger.GetByTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}
	s.decorate(row)
	return row, nil
}

// ExportCSV writes the filtered ledger with the same columns as the table view
func (s *LedgerService) ExportCSV(ctx context.Context, f models.LedgerFilter) ([]byte, error) {
	rows, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"Ticket Number", "Customer Name", "Vehicle Number", "Contact No", "Aadhar Number",
		"Parking Date", "Entry Time", "Exit Time", "Slot Name", "Hours Parked", "Amount", "Payment Status",
	})
	for _, r := range rows {
		w.Write([]string{
			r.TicketNumber,
			r.CustomerName,
			r.VehicleNumber,
			r.ContactNumber,
			r.IdentityNumber,
			r.ParkingDate,
			timeutil.FormatIST(r.EntryTime, timeutil.DateTimeLayout),
			timeutil.FormatIST(r.ExitTime, timeutil.DateTimeLayout),
			r.CategoryName,
			fmt.Sprintf("%d", r.HoursParked),
			fmt.Sprintf("%.2f", r.Amount),
			string(r.Status),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *LedgerService) decorate(r *models.LedgerRow) {
	r.ParkingDate = timeutil.FormatIST(r.EntryTime, timeutil.DateLayout)
	r.HoursParked = timeutil.WholeHours(r.EntryTime, r.ExitTime)
	r.AmountDisplay = FormatAmount(s.Currency, r.Amount)
}

// FormatAmount renders an amount with its currency symbol, e.g. ₹30.00
func FormatAmount(symbol string, amount float64) string {
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
