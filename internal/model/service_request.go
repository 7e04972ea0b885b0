package model

import "time"

type ServiceRequestStatus string

const (
	RequestPending   ServiceRequestStatus = "pending"
	RequestConfirmed ServiceRequestStatus = "confirmed"
	RequestCompleted ServiceRequestStatus = "completed"
	RequestCancelled ServiceRequestStatus = "cancelled"
)

func (s ServiceRequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestConfirmed, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

type ServiceRequest struct {
	ID                 int                  `db:"id" json:"id"`
	CustomerName       string               `db:"customer_name" json:"customerName"`
	Email              string               `db:"email" json:"email"`
	Phone              string               `db:"phone" json:"phone"`
	Address            *string              `db:"address" json:"address"`
	City               *string              `db:"city" json:"city"`
	State              *string              `db:"state" json:"state"`
	ZipCode            *string              `db:"zip_code" json:"zipCode"`
	ServiceType        string               `db:"service_type" json:"serviceType"`
	PreferredDate      time.Time            `db:"preferred_date" json:"preferredDate"`
	PreferredTime      *string              `db:"preferred_time" json:"preferredTime"`
	Message            *string              `db:"message" json:"message"`
	IsEmergency        bool                 `db:"is_emergency" json:"isEmergency"`
	Status             ServiceRequestStatus `db:"status" json:"status"`
	Notes              *string              `db:"notes" json:"notes"`
	AssignedTechnician *string              `db:"assigned_technician" json:"assignedTechnician"`
	ScheduledDate      *time.Time           `db:"scheduled_date" json:"scheduledDate"`
	CreatedAt          time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time            `db:"updated_at" json:"updatedAt"`
}

// ServiceRequestUpdate replaces the office-managed fields of a request.
type ServiceRequestUpdate struct {
	Status             ServiceRequestStatus
	Notes              *string
	AssignedTechnician *string
	ScheduledDate      *time.Time
}
