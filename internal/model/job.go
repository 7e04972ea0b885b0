package model

import "time"

type JobPriority string

const (
	PriorityLow       JobPriority = "low"
	PriorityNormal    JobPriority = "normal"
	PriorityHigh      JobPriority = "high"
	PriorityEmergency JobPriority = "emergency"
)

type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobDispatched JobStatus = "dispatched"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
	JobOnHold     JobStatus = "on_hold"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobScheduled, JobDispatched, JobInProgress, JobCompleted, JobCancelled, JobOnHold:
		return true
	}
	return false
}

type Job struct {
	ID               int         `db:"id" json:"id"`
	JobNumber        string      `db:"job_number" json:"jobNumber"`
	CustomerID       int         `db:"customer_id" json:"customerId"`
	ServiceRequestID *int        `db:"service_request_id" json:"serviceRequestId"`
	EstimateID       *int        `db:"estimate_id" json:"estimateId"`
	ServiceType      string      `db:"service_type" json:"serviceType"`
	Description      *string     `db:"description" json:"description"`
	Priority         JobPriority `db:"priority" json:"priority"`
	Status           JobStatus   `db:"status" json:"status"`
	ScheduledStart   *time.Time  `db:"scheduled_start" json:"scheduledStartDate"`
	ScheduledEnd     *time.Time  `db:"scheduled_end" json:"scheduledEndDate"`
	ActualStart      *time.Time  `db:"actual_start" json:"actualStartDate"`
	ActualEnd        *time.Time  `db:"actual_end" json:"actualEndDate"`
	Address          *string     `db:"address" json:"address"`
	Notes            *string     `db:"notes" json:"notes"`
	InternalNotes    *string     `db:"internal_notes" json:"internalNotes"`
	Tags             []string    `db:"tags" json:"tags"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updatedAt"`

	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
}

// JobDetail is a job with everything attached to it.
type JobDetail struct {
	Job
	Technicians []JobTechnician `json:"technicians"`
	Parts       []JobPart       `json:"parts"`
	Labor       []JobLabor      `json:"labor"`
}

type JobTechnician struct {
	TechnicianID int    `json:"technicianId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	IsLead       bool   `json:"isLead"`
}

type JobPart struct {
	ID              int       `db:"id" json:"id"`
	JobID           int       `db:"job_id" json:"jobId"`
	InventoryItemID *int      `db:"inventory_item_id" json:"inventoryId"`
	Description     string    `db:"description" json:"description"`
	Quantity        float64   `db:"quantity" json:"quantity"`
	UnitCost        float64   `db:"unit_cost" json:"unitCost"`
	UnitPrice       float64   `db:"unit_price" json:"unitPrice"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type JobLabor struct {
	ID           int       `db:"id" json:"id"`
	JobID        int       `db:"job_id" json:"jobId"`
	TechnicianID *int      `db:"technician_id" json:"technicianId"`
	Description  *string   `db:"description" json:"description"`
	Hours        float64   `db:"hours" json:"hours"`
	Rate         float64   `db:"rate" json:"rate"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type DispatchStatus string

const (
	DispatchScheduled DispatchStatus = "scheduled"
	DispatchEnRoute   DispatchStatus = "en_route"
	DispatchOnSite    DispatchStatus = "on_site"
	DispatchCompleted DispatchStatus = "completed"
	DispatchCancelled DispatchStatus = "cancelled"
)

func (s DispatchStatus) Valid() bool {
	switch s {
	case DispatchScheduled, DispatchEnRoute, DispatchOnSite, DispatchCompleted, DispatchCancelled:
		return true
	}
	return false
}

// DispatchSchedule is one technician assignment on the dispatch board.
type DispatchSchedule struct {
	ID            int            `db:"id" json:"id"`
	JobID         int            `db:"job_id" json:"jobId"`
	TechnicianID  int            `db:"technician_id" json:"technicianId"`
	ScheduledDate time.Time      `db:"scheduled_date" json:"scheduledDate"`
	StartTime     string         `db:"start_time" json:"startTime"`
	EndTime       string         `db:"end_time" json:"endTime"`
	Status        DispatchStatus `db:"status" json:"status"`
	Notes         *string        `db:"notes" json:"notes"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`

	JobNumber       *string `json:"jobNumber,omitempty"`
	ServiceType     *string `json:"serviceType,omitempty"`
	JobAddress      *string `json:"address,omitempty"`
	TechnicianName  *string `json:"technicianName,omitempty"`
	TechnicianColor *string `json:"technicianColor,omitempty"`
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
}
