package repositories

import (
	"context"
	"fmt"

	"parking-backend/internal/models"
)

type ReportRepository struct {
	DB DBTX
}

func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{DB: db}
}

// DailyTotals sums payment amounts and counts entries per IST calendar date
func (r *ReportRepository) DailyTotals(ctx context.Context, rng models.ReportRange) ([]models.DailyAggregate, error) {
	query := `SELECT to_char((e.entry_time AT TIME ZONE 'Asia/Kolkata')::date, 'YYYY-MM-DD') AS day,
	                 COALESCE(SUM(p.amount), 0), COUNT(e.id)
	          FROM parking_entries e
	          JOIN payments p ON p.parking_id = e.id
	          WHERE 1=1`
	var args []interface{}
	if rng.From != nil {
		args = append(args, *rng.From)
		query += fmt.Sprintf(` AND e.entry_time >= $%d`, len(args))
	}
	if rng.To != nil {
		// To is inclusive, so compare against the following midnight
		args = append(args, rng.To.AddDate(0, 0, 1))
		query += fmt.Sprintf(` AND e.entry_time < $%d`, len(args))
	}
	query += ` GROUP BY day ORDER BY day`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.DailyTotals: %w", err)
	}
	defer rows.Close()

	var out []models.DailyAggregate
	for rows.Next() {
		var d models.DailyAggregate
		if err := rows.Scan(&d.Date, &d.Revenue, &d.Entries); err != nil {
			return nil, fmt.Errorf("ReportRepository.DailyTotals: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
