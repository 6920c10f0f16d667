package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"parking-backend/internal/models"
)

type PaymentRepository struct {
	DB DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// GetSettlement loads an entry with its category fare and payment
func (r *PaymentRepository) GetSettlement(ctx context.Context, parkingID int) (*models.SettlementRecord, error) {
	var rec models.SettlementRecord
	e := &rec.Entry
	p := &rec.Payment
	err := r.DB.QueryRow(ctx,
		`SELECT e.id, e.category_id, e.slot_number, e.customer_name, e.vehicle_number, e.contact_number,
		        e.identity_number, e.duration_hours, e.entry_time, e.expected_exit, e.exited_at, e.status,
		        c.name, c.fare,
		        p.id, p.ticket_number, p.amount, p.status, p.method, p.paid_at, p.created_at, p.updated_at
		 FROM parking_entries e
		 JOIN slot_categories c ON c.id = e.category_id
		 JOIN payments p ON p.parking_id = e.id
		 WHERE e.id=$1`, parkingID,
	).Scan(&e.ID, &e.CategoryID, &e.SlotNumber, &e.CustomerName, &e.VehicleNumber, &e.ContactNumber,
		&e.IdentityNumber, &e.DurationHours, &e.EntryTime, &e.ExpectedExit, &e.ExitedAt, &e.Status,
		&rec.CategoryName, &rec.Fare,
		&p.ID, &p.TicketNumber, &p.Amount, &p.Status, &p.Method, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("PaymentRepository.GetSettlement: %w", notFound(err))
	}
	p.ParkingID = e.ID
	return &rec, nil
}

// UpdateAmount rewrites the amount of an Unpaid payment. Paid payments keep
// the amount they were settled at.
func (r *PaymentRepository) UpdateAmount(ctx context.Context, parkingID int, amount float64) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments SET amount=$2, updated_at=NOW()
		 WHERE parking_id=$1 AND status='Unpaid'`,
		parkingID, amount)
	if err != nil {
		return fmt.Errorf("PaymentRepository.UpdateAmount: %w", err)
	}
	return nil
}

// MarkPaid settles the payment of an entry. The row is locked for the
// duration of the check so two settlements cannot both succeed.
func (r *PaymentRepository) MarkPaid(ctx context.Context, parkingID int, amount float64, method models.PaymentMethod, paidAt time.Time) (*models.Payment, error) {
	var p models.Payment
	err := WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var status models.PaymentStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM payments WHERE parking_id=$1 FOR UPDATE`, parkingID,
		).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status == models.PaymentStatusPaid {
			return ErrAlreadyPaid
		}

		return tx.QueryRow(ctx,
			`UPDATE payments SET amount=$2, status='Paid', method=$3, paid_at=$4, updated_at=NOW()
			 WHERE parking_id=$1
			 RETURNING id, parking_id, ticket_number, amount, status, method, paid_at, created_at, updated_at`,
			parkingID, amount, method, paidAt,
		).Scan(&p.ID, &p.ParkingID, &p.TicketNumber, &p.Amount, &p.Status, &p.Method, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("PaymentRepository.MarkPaid: %w", err)
	}
	return &p, nil
}
