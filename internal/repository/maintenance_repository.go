package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/hvac-backend/internal/model"
)

// MaintenanceRepositoryInterface backs the two scheduled jobs.
type MaintenanceRepositoryInterface interface {
	DeleteEmailLogsBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteServiceRequestsBefore(ctx context.Context, status model.ServiceRequestStatus, before time.Time) (int64, error)
	Analyze(ctx context.Context, tables []string) error
	ReminderCandidates(ctx context.Context, now time.Time) ([]model.ReminderCandidate, error)
	RecordReminder(ctx context.Context, customerID int, at time.Time) error
}

type MaintenanceRepository struct {
	DB *sql.DB
}

// AnalyzedTables are refreshed by the nightly cleanup.
var AnalyzedTables = []string{"customers", "service_requests", "email_logs", "equipment", "service_history"}

func (r *MaintenanceRepository) DeleteEmailLogsBefore(ctx context.Context, before time.Time) (int64, error) {
	return r.deleteCount(ctx, `DELETE FROM email_logs WHERE sent_at < $1`, before)
}

func (r *MaintenanceRepository) DeleteServiceRequestsBefore(ctx context.Context, status model.ServiceRequestStatus, before time.Time) (int64, error) {
	return r.deleteCount(ctx, `DELETE FROM service_requests WHERE status = $1 AND updated_at < $2`, string(status), before)
}

func (r *MaintenanceRepository) deleteCount(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Analyze refreshes planner statistics. Table names come from
// AnalyzedTables, never from input.
func (r *MaintenanceRepository) Analyze(ctx context.Context, tables []string) error {
	for _, t := range tables {
		if _, err := r.DB.ExecContext(ctx, `ANALYZE `+pq.QuoteIdentifier(t)); err != nil {
			return err
		}
	}
	return nil
}

// ReminderCandidates returns customers who own equipment, have not been
// notified in the last 30 days, and were last serviced at least 335 days
// ago or never. Equipment types are aggregated into one string per customer.
func (r *MaintenanceRepository) ReminderCandidates(ctx context.Context, now time.Time) ([]model.ReminderCandidate, error) {
	query := `
        SELECT c.id, c.first_name, c.last_name, c.email, sh.last_service,
               STRING_AGG(DISTINCT e.type, ', ' ORDER BY e.type) AS equipment_types
        FROM customers c
        INNER JOIN equipment e ON e.customer_id = c.id
        LEFT JOIN (
            SELECT customer_id, MAX(service_date) AS last_service
            FROM service_history GROUP BY customer_id
        ) sh ON sh.customer_id = c.id
        LEFT JOIN maintenance_schedules ms ON ms.customer_id = c.id
        WHERE c.email IS NOT NULL AND c.email <> ''
          AND (ms.last_notification_date IS NULL OR ms.last_notification_date < $1::timestamptz - INTERVAL '30 days')
          AND (sh.last_service IS NULL OR sh.last_service <= $1::timestamptz - INTERVAL '335 days')
        GROUP BY c.id, c.first_name, c.last_name, c.email, sh.last_service
        ORDER BY c.id
    `
	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []model.ReminderCandidate{}
	for rows.Next() {
		var c model.ReminderCandidate
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Email, &c.LastServiceDate, &c.EquipmentTypes); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// RecordReminder marks the customer notified at and schedules the next
// maintenance eleven months out.
func (r *MaintenanceRepository) RecordReminder(ctx context.Context, customerID int, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO maintenance_schedules (customer_id, last_notification_date, next_maintenance_date)
        VALUES ($1, $2, $3)
        ON CONFLICT (customer_id) DO UPDATE
        SET last_notification_date = EXCLUDED.last_notification_date,
            next_maintenance_date = EXCLUDED.next_maintenance_date,
            updated_at = NOW()`, customerID, at, at.AddDate(0, 11, 0))
	return err
}
