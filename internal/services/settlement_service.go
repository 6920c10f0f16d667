package services

import (
	"context"
	"log"
	"time"

	"parking-backend/internal/cache"
	"parking-backend/internal/metrics"
	"parking-backend/internal/models"
	"parking-backend/internal/timeutil"
	"parking-backend/internal/validation"
)

type SettlementService struct {
	Payments PaymentStore
	Clock    timeutil.Clock
}

func NewSettlementService(payments PaymentStore, clock timeutil.Clock) *SettlementService {
	return &SettlementService{Payments: payments, Clock: clock}
}

// Quote recomputes the bill of an entry and stores the corrected amount
// while the payment is still Unpaid
func (s *SettlementService) Quote(ctx context.Context, parkingID int) (*models.Settlement, error) {
	rec, err := s.Payments.GetSettlement(ctx, parkingID)
	if err != nil {
		return nil, err
	}

	exit, hours, amount := s.bill(rec)
	if rec.Payment.Status == models.PaymentStatusUnpaid && amount != rec.Payment.Amount {
		if err := s.Payments.UpdateAmount(ctx, parkingID, amount); err != nil {
			return nil, err
		}
		rec.Payment.Amount = amount
		cache.InvalidateReportCaches(ctx)
	}

	return settlementView(rec, exit, hours), nil
}

// Pay settles the bill by cash or card. Both methods behave the same and
// are only recorded. The operator must confirm.
func (s *SettlementService) Pay(ctx context.Context, parkingID int, req *models.PayRequest) (*models.Settlement, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !req.Confirm {
		return nil, validation.New("confirm", "Please confirm the payment")
	}

	rec, err := s.Payments.GetSettlement(ctx, parkingID)
	if err != nil {
		return nil, err
	}
	exit, hours, amount := s.bill(rec)

	paid, err := s.Payments.MarkPaid(ctx, parkingID, amount, req.Method, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	rec.Payment = *paid

	metrics.Settlements.WithLabelValues(string(req.Method)).Inc()
	metrics.RevenueSettled.Add(paid.Amount)
	cache.InvalidateReportCaches(ctx)
	log.Printf("[Settlement] Ticket %s paid by %s, amount %.2f", paid.TicketNumber, req.Method, paid.Amount)

	view := settlementView(rec, exit, hours)
	view.Next = &models.Next{Screen: models.ScreenLedger}
	return view, nil
}

// bill is max(1, whole hours from entry to exit) times the fare. Exit is
// the expected exit, or now when it was never set.
func (s *SettlementService) bill(rec *models.SettlementRecord) (exit time.Time, hours int, amount float64) {
	exit = rec.Entry.ExpectedExit
	if exit.IsZero() {
		exit = s.Clock.Now()
	}
	hours = timeutil.BillableHours(rec.Entry.EntryTime, exit)
	return exit, hours, fareFor(hours, rec.Fare)
}

func settlementView(rec *models.SettlementRecord, exit time.Time, hours int) *models.Settlement {
	return &models.Settlement{
		ParkingID:     rec.Entry.ID,
		TicketNumber:  rec.Payment.TicketNumber,
		CustomerName:  rec.Entry.CustomerName,
		VehicleNumber: rec.Entry.VehicleNumber,
		ContactNumber: rec.Entry.ContactNumber,
		CategoryName:  rec.CategoryName,
		SlotNumber:    rec.Entry.SlotNumber,
		EntryTime:     rec.Entry.EntryTime,
		ExitTime:      exit,
		HoursParked:   hours,
		Fare:          rec.Fare,
		Amount:        rec.Payment.Amount,
		Status:        rec.Payment.Status,
		Method:        rec.Payment.Method,
		PaidAt:        rec.Payment.PaidAt,
		Methods:       models.PaymentMethods,
	}
}
