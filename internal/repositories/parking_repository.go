package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"parking-backend/internal/models"
	"parking-backend/internal/timeutil"
)

const parkedSlotIndex = "idx_parking_entries_parked_slot"

type ParkingRepository struct {
	DB DBTX
}

func NewParkingRepository(db DBTX) *ParkingRepository {
	return &ParkingRepository{DB: db}
}

const parkingColumns = `id, category_id, slot_number, customer_name, vehicle_number, contact_number,
	identity_number, duration_hours, entry_time, expected_exit, exited_at, status, created_at, updated_at`

func scanParkingEntry(row interface{ Scan(...interface{}) error }) (*models.ParkingEntry, error) {
	var e models.ParkingEntry
	err := row.Scan(&e.ID, &e.CategoryID, &e.SlotNumber, &e.CustomerName, &e.VehicleNumber, &e.ContactNumber,
		&e.IdentityNumber, &e.DurationHours, &e.EntryTime, &e.ExpectedExit, &e.ExitedAt, &e.Status,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateWithPayment inserts a Parked entry and its Unpaid payment in one
// transaction. The ticket number is drawn from the counter of the entry's
// two-digit year. payment.Amount must be set by the caller.
func (r *ParkingRepository) CreateWithPayment(ctx context.Context, e *models.ParkingEntry, p *models.Payment) error {
	err := WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		e.Status = models.EntryStatusParked
		err := tx.QueryRow(ctx,
			`INSERT INTO parking_entries(category_id, slot_number, customer_name, vehicle_number, contact_number,
			 identity_number, duration_hours, entry_time, expected_exit, status)
			 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id, created_at, updated_at`,
			e.CategoryID, e.SlotNumber, e.CustomerName, e.VehicleNumber, e.ContactNumber,
			e.IdentityNumber, e.DurationHours, e.EntryTime, e.ExpectedExit, e.Status,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, parkedSlotIndex) {
				return ErrSlotOccupied
			}
			return err
		}

		yearPrefix := timeutil.YearPrefix(e.EntryTime)
		var seq int
		err = tx.QueryRow(ctx,
			`INSERT INTO ticket_counters(year_prefix, last_value)
			 VALUES($1, 1)
			 ON CONFLICT (year_prefix) DO UPDATE SET last_value = ticket_counters.last_value + 1
			 RETURNING last_value`,
			yearPrefix,
		).Scan(&seq)
		if err != nil {
			return fmt.Errorf("next ticket number: %w", err)
		}

		p.ParkingID = e.ID
		p.TicketNumber = models.FormatTicketNumber(yearPrefix, seq)
		p.Status = models.PaymentStatusUnpaid
		return tx.QueryRow(ctx,
			`INSERT INTO payments(parking_id, ticket_number, amount, status)
			 VALUES($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`,
			p.ParkingID, p.TicketNumber, p.Amount, p.Status,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("ParkingRepository.CreateWithPayment: %w", err)
	}
	return nil
}

func (r *ParkingRepository) Get(ctx context.Context, id int) (*models.ParkingEntry, error) {
	e, err := scanParkingEntry(r.DB.QueryRow(ctx,
		`SELECT `+parkingColumns+` FROM parking_entries WHERE id=$1`, id))
	if err != nil {
		return nil, fmt.Errorf("ParkingRepository.Get: %w", notFound(err))
	}
	return e, nil
}

// List returns entries newest first, optionally filtered by status
func (r *ParkingRepository) List(ctx context.Context, status models.EntryStatus) ([]*models.ParkingEntry, error) {
	query := `SELECT ` + parkingColumns + ` FROM parking_entries`
	var args []interface{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY entry_time DESC, id DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ParkingRepository.List: %w", err)
	}
	defer rows.Close()

	var entries []*models.ParkingEntry
	for rows.Next() {
		e, err := scanParkingEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("ParkingRepository.List: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// OccupiedSlots returns the slot numbers of a category holding a Parked entry
func (r *ParkingRepository) OccupiedSlots(ctx context.Context, categoryID int) ([]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT slot_number FROM parking_entries
		 WHERE category_id=$1 AND status='Parked'
		 ORDER BY slot_number`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("ParkingRepository.OccupiedSlots: %w", err)
	}
	defer rows.Close()

	var slots []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("ParkingRepository.OccupiedSlots: %w", err)
		}
		slots = append(slots, n)
	}
	return slots, rows.Err()
}

// OccupiedCounts returns the number of Parked entries per category id
func (r *ParkingRepository) OccupiedCounts(ctx context.Context) (map[int]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT category_id, COUNT(*) FROM parking_entries
		 WHERE status='Parked'
		 GROUP BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("ParkingRepository.OccupiedCounts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var categoryID, n int
		if err := rows.Scan(&categoryID, &n); err != nil {
			return nil, fmt.Errorf("ParkingRepository.OccupiedCounts: %w", err)
		}
		counts[categoryID] = n
	}
	return counts, rows.Err()
}

func (r *ParkingRepository) SlotOccupied(ctx context.Context, categoryID, slotNumber int) (bool, error) {
	var occupied bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM parking_entries WHERE category_id=$1 AND slot_number=$2 AND status='Parked')`,
		categoryID, slotNumber,
	).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("ParkingRepository.SlotOccupied: %w", err)
	}
	return occupied, nil
}

// MaxOccupiedSlot is the highest Parked slot number of a category, 0 when empty
func (r *ParkingRepository) MaxOccupiedSlot(ctx context.Context, categoryID int) (int, error) {
	var highest int
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(MAX(slot_number), 0) FROM parking_entries WHERE category_id=$1 AND status='Parked'`,
		categoryID,
	).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("ParkingRepository.MaxOccupiedSlot: %w", err)
	}
	return highest, nil
}

// FreeSlot moves the Parked entry of a slot to Exited and returns its id.
// ErrNotFound when the slot holds no Parked entry.
func (r *ParkingRepository) FreeSlot(ctx context.Context, categoryID, slotNumber int, at time.Time) (int, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`UPDATE parking_entries SET status='Exited', exited_at=$3, updated_at=NOW()
		 WHERE category_id=$1 AND slot_number=$2 AND status='Parked'
		 RETURNING id`,
		categoryID, slotNumber, at,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ParkingRepository.FreeSlot: %w", notFound(err))
	}
	return id, nil
}
