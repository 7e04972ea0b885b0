// internal/model/customer.go
package model

import "time"

type Customer struct {
	ID        int       `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	ZipCode   string    `db:"zip_code" json:"zipCode"`
	Notes     *string   `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// populated by list queries only
	ServiceCount *int `db:"service_count" json:"serviceCount,omitempty"`
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CustomerDetail is a customer with its equipment and service history.
type CustomerDetail struct {
	Customer
	Equipment      []Equipment      `json:"equipment"`
	ServiceHistory []ServiceHistory `json:"serviceHistory"`
}

// DueCustomer is a customer flagged by the due-maintenance report.
type DueCustomer struct {
	Customer
	LastServiceDate *time.Time `json:"lastServiceDate"`
	EarliestDueDate *time.Time `json:"earliestDueDate"`
	EquipmentTypes  string     `json:"equipmentTypes"`
}

type ServiceHistory struct {
	ID          int       `db:"id" json:"id"`
	CustomerID  int       `db:"customer_id" json:"customerId"`
	ServiceID   *int      `db:"service_id" json:"serviceId"`
	ServiceName *string   `db:"service_name" json:"serviceName,omitempty"`
	ServiceDate time.Time `db:"service_date" json:"serviceDate"`
	Technician  string    `db:"technician" json:"technician"`
	Notes       *string   `db:"notes" json:"notes"`
	Cost        float64   `db:"cost" json:"cost"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Equipment struct {
	ID               int        `db:"id" json:"id"`
	CustomerID       int        `db:"customer_id" json:"customerId"`
	Type             string     `db:"type" json:"type"`
	Brand            string     `db:"brand" json:"brand"`
	Model            string     `db:"model" json:"model"`
	SerialNumber     *string    `db:"serial_number" json:"serialNumber"`
	InstallationDate time.Time  `db:"installation_date" json:"installationDate"`
	WarrantyExpiry   *time.Time `db:"warranty_expiry" json:"warrantyExpiry"`
	LastMaintenance  *time.Time `db:"last_maintenance" json:"lastMaintenance"`
	MaintenanceDue   *time.Time `db:"maintenance_due" json:"maintenanceDue"`
	Notes            *string    `db:"notes" json:"notes"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`

	CustomerName  *string `json:"customerName,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
}
