package repositories

import (
	"context"
	"fmt"
	"strings"

	"parking-backend/internal/models"
)

type LedgerRepository struct {
	DB DBTX
}

func NewLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

const ledgerSelect = `SELECT p.ticket_number, e.id, e.customer_name, e.vehicle_number, e.contact_number,
	       e.identity_number, c.name, e.slot_number, e.entry_time, e.expected_exit,
	       p.amount, p.status, p.method
	FROM payments p
	JOIN parking_entries e ON e.id = p.parking_id
	JOIN slot_categories c ON c.id = e.category_id`

// scanLedgerRow fills the stored columns. Derived fields are left to the caller.
func scanLedgerRow(row interface{ Scan(...interface{}) error }) (*models.LedgerRow, error) {
	var l models.LedgerRow
	err := row.Scan(&l.TicketNumber, &l.ParkingID, &l.CustomerName, &l.VehicleNumber, &l.ContactNumber,
		&l.IdentityNumber, &l.CategoryName, &l.SlotNumber, &l.EntryTime, &l.ExitTime,
		&l.Amount, &l.Status, &l.Method)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns one row per payment, newest first
func (r *LedgerRepository) List(ctx context.Context, f models.LedgerFilter) ([]*models.LedgerRow, error) {
	query := ledgerSelect + ` WHERE 1=1`
	var args []interface{}

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND p.status=$%d`, len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		query += fmt.Sprintf(` AND (p.ticket_number ILIKE $%d OR e.vehicle_number ILIKE $%d)`, len(args), len(args))
	}
	query += ` ORDER BY p.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("LedgerRepository.List: %w", err)
	}
	defer rows.Close()

	var out []*models.LedgerRow
	for rows.Next() {
		l, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("LedgerRepository.List: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LedgerRepository) GetByTicket(ctx context.Context, ticket string) (*models.LedgerRow, error) {
	l, err := scanLedgerRow(r.DB.QueryRow(ctx, ledgerSelect+` WHERE p.ticket_number=$1`, ticket))
	if err != nil {
		return nil, fmt.Errorf("LedgerRepository.GetByTicket: %w", notFound(err))
	}
	return l, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
