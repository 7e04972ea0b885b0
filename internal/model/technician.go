package model

import "time"

type TechnicianStatus string

const (
	TechnicianActive   TechnicianStatus = "active"
	TechnicianInactive TechnicianStatus = "inactive"
	TechnicianOnLeave  TechnicianStatus = "on_leave"
)

type Technician struct {
	ID             int              `db:"id" json:"id"`
	UserID         *int             `db:"user_id" json:"userId"`
	FirstName      string           `db:"first_name" json:"firstName"`
	LastName       string           `db:"last_name" json:"lastName"`
	Email          string           `db:"email" json:"email"`
	Phone          string           `db:"phone" json:"phone"`
	EmployeeID     *string          `db:"employee_id" json:"employeeId"`
	HireDate       *time.Time       `db:"hire_date" json:"hireDate"`
	HourlyRate     float64          `db:"hourly_rate" json:"hourlyRate"`
	Certifications []string         `db:"certifications" json:"certifications"`
	Skills         []string         `db:"skills" json:"skills"`
	Status         TechnicianStatus `db:"status" json:"status"`
	Color          *string          `db:"color" json:"color"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}

type TimesheetType string

const (
	TimesheetRegular  TimesheetType = "regular"
	TimesheetOvertime TimesheetType = "overtime"
	TimesheetTravel   TimesheetType = "travel"
	TimesheetTraining TimesheetType = "training"
)

type TimesheetStatus string

const (
	TimesheetPending  TimesheetStatus = "pending"
	TimesheetApproved TimesheetStatus = "approved"
	TimesheetRejected TimesheetStatus = "rejected"
)

type Timesheet struct {
	ID             int             `db:"id" json:"id"`
	TechnicianID   int             `db:"technician_id" json:"technicianId"`
	TechnicianName *string         `db:"technician_name" json:"technicianName,omitempty"`
	JobID          *int            `db:"job_id" json:"jobId"`
	Date           time.Time       `db:"date" json:"date"`
	ClockIn        time.Time       `db:"clock_in" json:"clockIn"`
	ClockOut       *time.Time      `db:"clock_out" json:"clockOut"`
	BreakMinutes   int             `db:"break_minutes" json:"breakMinutes"`
	TotalHours     *float64        `db:"total_hours" json:"totalHours"`
	Type           TimesheetType   `db:"type" json:"type"`
	Status         TimesheetStatus `db:"status" json:"status"`
	Notes          *string         `db:"notes" json:"notes"`
	ApprovedBy     *int            `db:"approved_by" json:"approvedBy"`
	ApprovedAt     *time.Time      `db:"approved_at" json:"approvedAt"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// WorkedHours is the elapsed time between clock in and out minus breaks,
// rounded to hundredths and never negative.
func WorkedHours(clockIn, clockOut time.Time, breakMinutes int) float64 {
	worked := clockOut.Sub(clockIn) - time.Duration(breakMinutes)*time.Minute
	if worked < 0 {
		return 0
	}
	return RoundMoney(worked.Hours())
}
