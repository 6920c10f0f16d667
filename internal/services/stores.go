package services

import (
	"context"
	"math"
	"time"

	"parking-backend/internal/models"
)

// Stores implemented by internal/repositories

type SlotCategoryStore interface {
	Create(ctx context.Context, c *models.SlotCategory) error
	Update(ctx context.Context, c *models.SlotCategory) error
	SetActive(ctx context.Context, id int, active bool) (*models.SlotCategory, error)
	Get(ctx context.Context, id int) (*models.SlotCategory, error)
	List(ctx context.Context, activeOnly bool) ([]*models.SlotCategory, error)
}

type ParkingStore interface {
	CreateWithPayment(ctx context.Context, e *models.ParkingEntry, p *models.Payment) error
	Get(ctx context.Context, id int) (*models.ParkingEntry, error)
	List(ctx context.Context, status models.EntryStatus) ([]*models.ParkingEntry, error)
	OccupiedSlots(ctx context.Context, categoryID int) ([]int, error)
	OccupiedCounts(ctx context.Context) (map[int]int, error)
	SlotOccupied(ctx context.Context, categoryID, slotNumber int) (bool, error)
	MaxOccupiedSlot(ctx context.Context, categoryID int) (int, error)
	FreeSlot(ctx context.Context, categoryID, slotNumber int, at time.Time) (int, error)
}

type PaymentStore interface {
	GetSettlement(ctx context.Context, parkingID int) (*models.SettlementRecord, error)
	UpdateAmount(ctx context.Context, parkingID int, amount float64) error
	MarkPaid(ctx context.Context, parkingID int, amount float64, method models.PaymentMethod, paidAt time.Time) (*models.Payment, error)
}

type LedgerStore interface {
	List(ctx context.Context, f models.LedgerFilter) ([]*models.LedgerRow, error)
	GetByTicket(ctx context.Context, ticket string) (*models.LedgerRow, error)
}

type ReportStore interface {
	DailyTotals(ctx context.Context, rng models.ReportRange) ([]models.DailyAggregate, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// fareFor is hours times the hourly fare, rounded to paise
func fareFor(hours int, fare float64) float64 {
	return math.Round(float64(hours)*fare*100) / 100
}
