package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"parking-backend/internal/cache"
	"parking-backend/internal/metrics"
	"parking-backend/internal/models"
	"parking-backend/internal/repositories"
	"parking-backend/internal/timeutil"
	"parking-backend/internal/validation"
)

type IntakeService struct {
	Categories SlotCategoryStore
	Parking    ParkingStore
	Clock      timeutil.Clock
}

func NewIntakeService(categories SlotCategoryStore, parking ParkingStore, clock timeutil.Clock) *IntakeService {
	return &IntakeService{Categories: categories, Parking: parking, Clock: clock}
}

// Create checks a vehicle into a free slot and issues its ticket
func (s *IntakeService) Create(ctx context.Context, req *models.CreateParkingRequest) (*models.IntakeResult, error) {
	normalizeIntake(req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c, err := s.Categories.Get(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, validation.New("category_id", fmt.Sprintf("%s slots are not available", c.Name))
	}
	if req.SlotNumber > c.Capacity {
		return nil, validation.New("slot_number", fmt.Sprintf("Slot %d does not exist in %s", req.SlotNumber, c.Name))
	}

	occupied, err := s.Parking.SlotOccupied(ctx, c.ID, req.SlotNumber)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, repositories.ErrSlotOccupied
	}

	now := s.Clock.Now()
	entry := &models.ParkingEntry{
		CategoryID:     c.ID,
		SlotNumber:     req.SlotNumber,
		CustomerName:   req.CustomerName,
		VehicleNumber:  req.VehicleNumber,
		ContactNumber:  req.ContactNumber,
		IdentityNumber: req.IdentityNumber,
		DurationHours:  req.DurationHours,
		EntryTime:      now,
		ExpectedExit:   now.Add(time.Duration(req.DurationHours) * time.Hour),
	}
	payment := &models.Payment{Amount: fareFor(req.DurationHours, c.Fare)}

	if err := s.Parking.CreateWithPayment(ctx, entry, payment); err != nil {
		return nil, err
	}

	metrics.TicketsIssued.WithLabelValues(c.Name).Inc()
	cache.InvalidateReportCaches(ctx)
	log.Printf("[Intake] %s parked %s in %s slot %d, ticket %s, amount %.2f",
		entry.CustomerName, entry.VehicleNumber, c.Name, entry.SlotNumber, payment.TicketNumber, payment.Amount)

	return &models.IntakeResult{
		Entry:   entry,
		Payment: payment,
		Next:    models.Next{Screen: models.ScreenSettlement, ParkingID: entry.ID},
	}, nil
}

func (s *IntakeService) Get(ctx context.Context, id int) (*models.ParkingEntry, error) {
	return s.Parking.Get(ctx, id)
}

// List returns parking entries, optionally only Parked or only Exited
func (s *IntakeService) List(ctx context.Context, status string) ([]*models.ParkingEntry, error) {
	st := models.EntryStatus(status)
	if st != "" && st != models.EntryStatusParked && st != models.EntryStatusExited {
		return nil, validation.New("status", "Status must be Parked or Exited")
	}
	entries, err := s.Parking.List(ctx, st)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.ParkingEntry{}
	}
	return entries, nil
}

func normalizeIntake(req *models.CreateParkingRequest) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.VehicleNumber = strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	req.IdentityNumber = strings.TrimSpace(req.IdentityNumber)
}
