package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return conn, mock
}

var customerCols = []string{"id", "first_name", "last_name", "email", "phone", "address", "city", "state",
	"zip_code", "notes", "created_at", "updated_at"}

func TestCustomerListSearchAndCount(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: conn}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(append(customerCols, "service_count")).
		AddRow(7, "Ann", "Lee", "ann@example.com", "555", "1 Main", "Austin", "TX", "78701", nil, now, now, 3)
	mock.ExpectQuery(`FROM customers c WHERE 1=1 AND \(c.first_name ILIKE \$1 OR .* LIMIT \$5 OFFSET \$6`).
		WithArgs("%ann%", "%ann%", "%ann%", "%ann%", 10, 10).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM customers c WHERE 1=1 AND`)).
		WithArgs("%ann%", "%ann%", "%ann%", "%ann%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	customers, total, err := repo.List(context.Background(), " ann ", model.PageRequest{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, customers, 1)
	assert.Equal(t, "Austin", customers[0].City)
	require.NotNil(t, customers[0].ServiceCount)
	assert.Equal(t, 3, *customers[0].ServiceCount)
}

func TestCustomerNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: conn}

	mock.ExpectQuery(`FROM customers c WHERE c.id = \$1`).WithArgs(9).
		WillReturnRows(sqlmock.NewRows(customerCols))
	_, err := repo.GetByID(context.Background(), 9)
	var nf *appErrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Customer", nf.Resource)

	mock.ExpectExec(`DELETE FROM customers WHERE id = \$1`).WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Delete(context.Background(), 9)
	require.ErrorAs(t, err, &nf)
}

func TestMaintenanceCleanupQueries(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.MaintenanceRepository{DB: conn}
	cutoff := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM email_logs WHERE sent_at < \$1`).WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))
	n, err := repo.DeleteEmailLogsBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	mock.ExpectExec(`DELETE FROM service_requests WHERE status = \$1 AND updated_at < \$2`).
		WithArgs("cancelled", cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))
	n, err = repo.DeleteServiceRequestsBefore(context.Background(), model.RequestCancelled, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mock.ExpectExec(regexp.QuoteMeta(`ANALYZE "customers"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`ANALYZE "email_logs"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Analyze(context.Background(), []string{"customers", "email_logs"}))
}

func TestRecordReminderSchedulesElevenMonthsOut(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.MaintenanceRepository{DB: conn}
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO maintenance_schedules`).
		WithArgs(5, at, time.Date(2027, 2, 14, 9, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.RecordReminder(context.Background(), 5, at))
}

func TestReminderCandidates(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.MaintenanceRepository{DB: conn}
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	last := now.AddDate(-1, 0, 0)

	mock.ExpectQuery(`INNER JOIN equipment e`).WithArgs(now).WillReturnRows(
		sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "last_service", "equipment_types"}).
			AddRow(1, "Ann", "Lee", "ann@example.com", last, "AC, Furnace").
			AddRow(2, "Bo", "Kim", "bo@example.com", nil, "Heat Pump"))

	got, err := repo.ReminderCandidates(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AC, Furnace", got[0].EquipmentTypes)
	require.NotNil(t, got[0].LastServiceDate)
	assert.Nil(t, got[1].LastServiceDate)
}

func TestAddPaymentRejectsOverpayment(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.InvoiceRepository{DB: conn}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT customer_id, balance_due FROM invoices WHERE id = \$1 FOR UPDATE`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "balance_due"}).AddRow(8, 50.0))
	mock.ExpectRollback()

	_, err := repo.AddPayment(context.Background(), &model.Payment{InvoiceID: 3, Amount: 75})
	var conflict *appErrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Message, "exceeds balance due 50.00")
}

func TestAddPaymentMissingInvoice(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.InvoiceRepository{DB: conn}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM invoices WHERE id = \$1 FOR UPDATE`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "balance_due"}))
	mock.ExpectRollback()

	_, err := repo.AddPayment(context.Background(), &model.Payment{InvoiceID: 3, Amount: 10})
	var nf *appErrors.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestAdjustStockMissingItem(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.InventoryRepository{DB: conn}

	mock.ExpectQuery(`UPDATE inventory_items SET quantity = quantity \+ \$1`).WithArgs(-4, 6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`FROM inventory_items WHERE id = \$1`).WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.AdjustStock(context.Background(), 6, 4, model.StockSubtract)
	var nf *appErrors.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func anyArgs(n int, at map[int]interface{}) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
		if v, ok := at[i]; ok {
			args[i] = v
		}
	}
	return args
}

func TestInvoiceUpdateDerivesStatus(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.InvoiceRepository{DB: conn}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`status = CASE\s+WHEN COALESCE\(NULLIF\(\$3, ''\), status\) = 'void'`).
		WithArgs(anyArgs(15, map[int]interface{}{2: "", 14: 4})...).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_number", "estimate_id", "status", "amount_paid", "balance_due",
			"sent_at", "paid_at", "created_at", "updated_at"}).
			AddRow("INV-260314-00AA11", nil, "paid", 100.0, 0.0, now, now, now, now))
	mock.ExpectExec(`DELETE FROM invoice_items WHERE invoice_id = \$1`).WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inv := &model.Invoice{ID: 4, CustomerID: 2, Total: 100, IssueDate: now}
	require.NoError(t, repo.Update(context.Background(), inv, nil))
	assert.Equal(t, model.InvoicePaid, inv.Status)
	assert.Equal(t, 100.0, inv.AmountPaid)
}

func TestEstimateUpdateKeepsStoredStatus(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.EstimateRepository{DB: conn}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`status=COALESCE\(NULLIF\(\$5, ''\), status\)`).
		WithArgs(anyArgs(16, map[int]interface{}{4: "", 15: 6})...).
		WillReturnRows(sqlmock.NewRows([]string{"estimate_number", "status", "sent_at", "approved_at", "created_at", "updated_at"}).
			AddRow("EST-260314-00BB22", "approved", now, now, now, now))
	mock.ExpectExec(`DELETE FROM estimate_items WHERE estimate_id = \$1`).WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	e := &model.Estimate{ID: 6, CustomerID: 2, Title: "Coil"}
	require.NoError(t, repo.Update(context.Background(), e, nil))
	assert.Equal(t, model.EstimateApproved, e.Status)
}

func TestEstimateConvertLocksRow(t *testing.T) {
	insertedCols := []string{"id", "created_at", "updated_at"}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("links a new job", func(t *testing.T) {
		conn, mock := newMock(t)
		repo := &repository.EstimateRepository{DB: conn}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT estimate_number, job_id FROM estimates WHERE id = \$1 FOR UPDATE`).WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"estimate_number", "job_id"}).AddRow("EST-1", nil))
		mock.ExpectQuery(`INSERT INTO jobs`).WillReturnRows(sqlmock.NewRows(insertedCols).AddRow(40, now, now))
		mock.ExpectExec(`WHERE id = \$2 AND job_id IS NULL`).WithArgs(40, 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		job := &model.Job{JobNumber: "JOB-260314-00CC33", CustomerID: 2, ServiceType: "Coil"}
		require.NoError(t, repo.Convert(context.Background(), 5, job))
		assert.Equal(t, 40, job.ID)
		require.NotNil(t, job.EstimateID)
		assert.Equal(t, 5, *job.EstimateID)
	})

	t.Run("second conversion is a conflict", func(t *testing.T) {
		conn, mock := newMock(t)
		repo := &repository.EstimateRepository{DB: conn}

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM estimates WHERE id = \$1 FOR UPDATE`).WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"estimate_number", "job_id"}).AddRow("EST-1", 40))
		mock.ExpectRollback()

		err := repo.Convert(context.Background(), 5, &model.Job{CustomerID: 2})
		var conflict *appErrors.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Contains(t, conflict.Message, "already been converted")
	})

	t.Run("missing estimate", func(t *testing.T) {
		conn, mock := newMock(t)
		repo := &repository.EstimateRepository{DB: conn}

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM estimates WHERE id = \$1 FOR UPDATE`).WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"estimate_number", "job_id"}))
		mock.ExpectRollback()

		err := repo.Convert(context.Background(), 5, &model.Job{CustomerID: 2})
		var nf *appErrors.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

var timesheetCols = []string{"id", "technician_id", "technician_name", "job_id", "date", "clock_in", "clock_out",
	"break_minutes", "total_hours", "type", "status", "notes", "approved_by", "approved_at", "created_at", "updated_at"}

func TestTimesheetClockOut(t *testing.T) {
	clockIn := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	openRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(timesheetCols).AddRow(3, 2, "Sam Ortiz", nil, clockIn, clockIn, nil,
			30, nil, "regular", "pending", nil, nil, nil, clockIn, clockIn)
	}

	t.Run("stores worked hours net of the break", func(t *testing.T) {
		conn, mock := newMock(t)
		repo := &repository.TimesheetRepository{DB: conn}
		out := clockIn.Add(8*time.Hour + 45*time.Minute)

		mock.ExpectQuery(`FROM timesheets ts INNER JOIN technicians t ON t.id = ts.technician_id WHERE ts.id = \$1`).
			WithArgs(3).WillReturnRows(openRow())
		mock.ExpectQuery(`UPDATE timesheets SET clock_out = \$1, break_minutes = \$2, total_hours = \$3`).
			WithArgs(out, 45, 8.0, 3).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(out))

		breakMinutes := 45
		ts, err := repo.ClockOut(context.Background(), 3, out, &breakMinutes)
		require.NoError(t, err)
		require.NotNil(t, ts.TotalHours)
		assert.Equal(t, 8.0, *ts.TotalHours)
		assert.Equal(t, 45, ts.BreakMinutes)
		assert.Equal(t, &out, ts.ClockOut)
	})

	t.Run("already clocked out", func(t *testing.T) {
		conn, mock := newMock(t)
		repo := &repository.TimesheetRepository{DB: conn}
		done := clockIn.Add(4 * time.Hour)

		mock.ExpectQuery(`WHERE ts.id = \$1`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows(timesheetCols).AddRow(3, 2, "Sam Ortiz", nil, clockIn, clockIn, done,
				0, 4.0, "regular", "pending", nil, nil, nil, clockIn, done))

		_, err := repo.ClockOut(context.Background(), 3, done.Add(time.Hour), nil)
		var conflict *appErrors.ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("clock out before clock in", func(t *testing.T) {
		conn, mock := newMock(t)
		repo := &repository.TimesheetRepository{DB: conn}

		mock.ExpectQuery(`WHERE ts.id = \$1`).WithArgs(3).WillReturnRows(openRow())

		_, err := repo.ClockOut(context.Background(), 3, clockIn.Add(-time.Minute), nil)
		var ve *appErrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "clockOut", ve.Fields[0].Field)
	})

	t.Run("lost race to another clock out", func(t *testing.T) {
		conn, mock := newMock(t)
		repo := &repository.TimesheetRepository{DB: conn}

		mock.ExpectQuery(`WHERE ts.id = \$1`).WithArgs(3).WillReturnRows(openRow())
		mock.ExpectQuery(`WHERE id = \$4 AND clock_out IS NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

		_, err := repo.ClockOut(context.Background(), 3, clockIn.Add(time.Hour), nil)
		var conflict *appErrors.ConflictError
		require.ErrorAs(t, err, &conflict)
	})
}

var jobCols = []string{"id", "job_number", "customer_id", "service_request_id", "estimate_id", "service_type", "description",
	"priority", "status", "scheduled_start", "scheduled_end", "actual_start", "actual_end", "address", "notes",
	"internal_notes", "tags", "created_at", "updated_at"}

func TestJobUpdateStatusStampsActualTimes(t *testing.T) {
	conn, mock := newMock(t)
	repo := &repository.JobRepository{DB: conn}
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ended := started.Add(3 * time.Hour)

	mock.ExpectQuery(`actual_start = CASE WHEN \$1 IN \('in_progress', 'completed'\) AND j.actual_start IS NULL THEN NOW\(\)`).
		WithArgs("completed", 7).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(7, "JOB-260314-0A1B2C", 2, nil, nil, "AC Repair", nil,
			"normal", "completed", nil, nil, started, ended, nil, nil, nil, []byte("{urgent}"), started, ended))

	j, err := repo.UpdateStatus(context.Background(), 7, model.JobCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.JobCompleted, j.Status)
	require.NotNil(t, j.ActualStart)
	require.NotNil(t, j.ActualEnd)
	assert.Equal(t, ended, *j.ActualEnd)
	assert.Equal(t, []string{"urgent"}, j.Tags)

	mock.ExpectQuery(`UPDATE jobs j`).WithArgs("in_progress", 8).WillReturnRows(sqlmock.NewRows(jobCols))
	_, err = repo.UpdateStatus(context.Background(), 8, model.JobInProgress)
	var nf *appErrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Job", nf.Resource)
}
