package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/hvac-backend/internal/model"
)

type ReportRepositoryInterface interface {
	Dashboard(ctx context.Context, now time.Time) (*model.DashboardStats, error)
	Revenue(ctx context.Context, rng model.ReportRange) ([]model.RevenueRow, error)
	Technicians(ctx context.Context, rng model.ReportRange) ([]model.TechnicianReportRow, error)
	JobsByStatus(ctx context.Context, rng model.ReportRange) ([]model.JobStatusCount, error)
	ServiceTypes(ctx context.Context, rng model.ReportRange) ([]model.ServiceTypeRow, error)
}

// ReportRepository runs the read-only aggregate queries. It maps rows onto
// the report structs by db tag.
type ReportRepository struct {
	DB *sqlx.DB
}

type dashboardRow struct {
	TotalCustomers  int     `db:"total_customers"`
	ActiveJobs      int     `db:"active_jobs"`
	PendingRequests int     `db:"pending_requests"`
	RevenueToday    float64 `db:"revenue_today"`
	RevenueWeek     float64 `db:"revenue_week"`
	RevenueMonth    float64 `db:"revenue_month"`
	TechsActive     int     `db:"techs_active"`
	TechsOnJob      int     `db:"techs_on_job"`
	JobsScheduled   int     `db:"jobs_scheduled"`
	JobsInProgress  int     `db:"jobs_in_progress"`
	CompletedToday  int     `db:"completed_today"`
	CompletedWeek   int     `db:"completed_week"`
	InvoicesUnpaid  float64 `db:"invoices_unpaid"`
	InvoicesOverdue float64 `db:"invoices_overdue"`
	PaidThisMonth   float64 `db:"paid_this_month"`
}

const dashboardQuery = `
    SELECT
        (SELECT COUNT(*) FROM customers) AS total_customers,
        (SELECT COUNT(*) FROM jobs WHERE status IN ('scheduled', 'dispatched', 'in_progress')) AS active_jobs,
        (SELECT COUNT(*) FROM service_requests WHERE status = 'pending') AS pending_requests,
        (SELECT COALESCE(SUM(amount), 0) FROM payments
            WHERE status = 'completed' AND payment_date >= date_trunc('day', $1::timestamptz)) AS revenue_today,
        (SELECT COALESCE(SUM(amount), 0) FROM payments
            WHERE status = 'completed' AND payment_date >= date_trunc('week', $1::timestamptz)) AS revenue_week,
        (SELECT COALESCE(SUM(amount), 0) FROM payments
            WHERE status = 'completed' AND payment_date >= date_trunc('month', $1::timestamptz)) AS revenue_month,
        (SELECT COUNT(*) FROM technicians WHERE status = 'active') AS techs_active,
        (SELECT COUNT(DISTINCT jt.technician_id) FROM job_technicians jt
            INNER JOIN jobs j ON j.id = jt.job_id WHERE j.status = 'in_progress') AS techs_on_job,
        (SELECT COUNT(*) FROM jobs WHERE status = 'scheduled') AS jobs_scheduled,
        (SELECT COUNT(*) FROM jobs WHERE status = 'in_progress') AS jobs_in_progress,
        (SELECT COUNT(*) FROM jobs
            WHERE status = 'completed' AND actual_end >= date_trunc('day', $1::timestamptz)) AS completed_today,
        (SELECT COUNT(*) FROM jobs
            WHERE status = 'completed' AND actual_end >= date_trunc('week', $1::timestamptz)) AS completed_week,
        (SELECT COALESCE(SUM(balance_due), 0) FROM invoices
            WHERE status IN ('sent', 'viewed', 'partial', 'overdue')) AS invoices_unpaid,
        (SELECT COALESCE(SUM(balance_due), 0) FROM invoices
            WHERE status NOT IN ('paid', 'void', 'draft') AND due_date < $1::date) AS invoices_overdue,
        (SELECT COALESCE(SUM(amount), 0) FROM payments
            WHERE status = 'completed' AND payment_date >= date_trunc('month', $1::timestamptz)) AS paid_this_month
`

func (r *ReportRepository) Dashboard(ctx context.Context, now time.Time) (*model.DashboardStats, error) {
	var row dashboardRow
	if err := r.DB.GetContext(ctx, &row, dashboardQuery, now); err != nil {
		return nil, err
	}

	available := row.TechsActive - row.TechsOnJob
	if available < 0 {
		available = 0
	}
	return &model.DashboardStats{
		TotalCustomers:  row.TotalCustomers,
		ActiveJobs:      row.ActiveJobs,
		PendingRequests: row.PendingRequests,
		Revenue: model.RevenueStats{
			Today: row.RevenueToday,
			Week:  row.RevenueWeek,
			Month: row.RevenueMonth,
		},
		TechnicianStats: model.TechnicianStats{
			Active:    row.TechsActive,
			OnJob:     row.TechsOnJob,
			Available: available,
		},
		JobStats: model.JobStats{
			Scheduled:      row.JobsScheduled,
			InProgress:     row.JobsInProgress,
			CompletedToday: row.CompletedToday,
			CompletedWeek:  row.CompletedWeek,
		},
		InvoiceStats: model.InvoiceStats{
			Unpaid:        row.InvoicesUnpaid,
			Overdue:       row.InvoicesOverdue,
			PaidThisMonth: row.PaidThisMonth,
		},
	}, nil
}

// Revenue buckets completed payments and the part cost of completed jobs by
// rng.GroupBy, which must be day, week or month.
func (r *ReportRepository) Revenue(ctx context.Context, rng model.ReportRange) ([]model.RevenueRow, error) {
	query := `
        WITH rev AS (
            SELECT date_trunc($3, payment_date) AS period, SUM(amount) AS revenue
            FROM payments
            WHERE status = 'completed' AND payment_date >= $1::date AND payment_date < $2::date + 1
            GROUP BY 1
        ), cost AS (
            SELECT date_trunc($3, j.actual_end) AS period, SUM(p.quantity * p.unit_cost) AS cost
            FROM job_parts p
            INNER JOIN jobs j ON j.id = p.job_id
            WHERE j.status = 'completed' AND j.actual_end >= $1::date AND j.actual_end < $2::date + 1
            GROUP BY 1
        )
        SELECT to_char(COALESCE(rev.period, cost.period), 'YYYY-MM-DD') AS period,
               COALESCE(rev.revenue, 0) AS revenue,
               COALESCE(cost.cost, 0) AS cost,
               COALESCE(rev.revenue, 0) - COALESCE(cost.cost, 0) AS profit
        FROM rev
        FULL OUTER JOIN cost ON cost.period = rev.period
        ORDER BY 1
    `
	rows := []model.RevenueRow{}
	if err := r.DB.SelectContext(ctx, &rows, query, rng.Start, rng.End, rng.GroupBy); err != nil {
		return nil, err
	}
	return rows, nil
}

// Technicians reports active technicians. Ratings are not collected, so
// avg_rating is always 0.
func (r *ReportRepository) Technicians(ctx context.Context, rng model.ReportRange) ([]model.TechnicianReportRow, error) {
	query := `
        SELECT t.id AS technician_id,
               t.first_name || ' ' || t.last_name AS technician_name,
               COALESCE(jc.jobs_completed, 0) AS jobs_completed,
               COALESCE(jc.revenue, 0) AS revenue,
               0::float8 AS avg_rating,
               COALESCE(th.hours, 0) AS hours_worked
        FROM technicians t
        LEFT JOIN (
            SELECT jt.technician_id, COUNT(*) AS jobs_completed, COALESCE(SUM(inv.total), 0) AS revenue
            FROM job_technicians jt
            INNER JOIN jobs j ON j.id = jt.job_id
            LEFT JOIN (
                SELECT job_id, SUM(total) AS total FROM invoices WHERE status <> 'void' GROUP BY job_id
            ) inv ON inv.job_id = j.id
            WHERE j.status = 'completed' AND j.actual_end >= $1::date AND j.actual_end < $2::date + 1
            GROUP BY jt.technician_id
        ) jc ON jc.technician_id = t.id
        LEFT JOIN (
            SELECT technician_id, SUM(total_hours) AS hours
            FROM timesheets
            WHERE date BETWEEN $1::date AND $2::date AND status <> 'rejected'
            GROUP BY technician_id
        ) th ON th.technician_id = t.id
        WHERE t.status = 'active'
        ORDER BY revenue DESC, technician_name
    `
	rows := []model.TechnicianReportRow{}
	if err := r.DB.SelectContext(ctx, &rows, query, rng.Start, rng.End); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) JobsByStatus(ctx context.Context, rng model.ReportRange) ([]model.JobStatusCount, error) {
	query := `
        SELECT status, COUNT(*) AS count
        FROM jobs
        WHERE created_at >= $1::date AND created_at < $2::date + 1
        GROUP BY status
        ORDER BY status
    `
	rows := []model.JobStatusCount{}
	if err := r.DB.SelectContext(ctx, &rows, query, rng.Start, rng.End); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ServiceTypes(ctx context.Context, rng model.ReportRange) ([]model.ServiceTypeRow, error) {
	query := `
        SELECT j.service_type, COUNT(*) AS count, COALESCE(SUM(inv.total), 0) AS revenue
        FROM jobs j
        LEFT JOIN (
            SELECT job_id, SUM(total) AS total FROM invoices WHERE status <> 'void' GROUP BY job_id
        ) inv ON inv.job_id = j.id
        WHERE j.created_at >= $1::date AND j.created_at < $2::date + 1
        GROUP BY j.service_type
        ORDER BY count DESC, j.service_type
    `
	rows := []model.ServiceTypeRow{}
	if err := r.DB.SelectContext(ctx, &rows, query, rng.Start, rng.End); err != nil {
		return nil, err
	}
	return rows, nil
}
