package model

import (
	"math"
	"time"
)

type ItemType string

const (
	ItemService  ItemType = "service"
	ItemPart     ItemType = "part"
	ItemLabor    ItemType = "labor"
	ItemDiscount ItemType = "discount"
)

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// LineItem is shared by estimates and invoices.
type LineItem struct {
	ItemType    ItemType `db:"item_type" json:"itemType"`
	Description string   `db:"description" json:"description"`
	Quantity    float64  `db:"quantity" json:"quantity"`
	UnitPrice   float64  `db:"unit_price" json:"unitPrice"`
	Total       float64  `db:"total" json:"total"`
	InventoryID *int     `db:"inventory_id" json:"inventoryId"`
	ServiceID   *int     `db:"service_id" json:"serviceId"`
	SortOrder   int      `db:"sort_order" json:"sortOrder"`
}

// Totals are the computed money fields of an estimate or invoice.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	Total          float64 `json:"total"`
}

type EstimateStatus string

const (
	EstimateDraft    EstimateStatus = "draft"
	EstimateSent     EstimateStatus = "sent"
	EstimateViewed   EstimateStatus = "viewed"
	EstimateApproved EstimateStatus = "approved"
	EstimateDeclined EstimateStatus = "declined"
	EstimateExpired  EstimateStatus = "expired"
)

type Estimate struct {
	ID             int            `db:"id" json:"id"`
	EstimateNumber string         `db:"estimate_number" json:"estimateNumber"`
	CustomerID     int            `db:"customer_id" json:"customerId"`
	JobID          *int           `db:"job_id" json:"jobId"`
	Title          string         `db:"title" json:"title"`
	Description    *string        `db:"description" json:"description"`
	Status         EstimateStatus `db:"status" json:"status"`
	Subtotal       float64        `db:"subtotal" json:"subtotal"`
	TaxRate        float64        `db:"tax_rate" json:"taxRate"`
	TaxAmount      float64        `db:"tax_amount" json:"taxAmount"`
	Discount       float64        `db:"discount" json:"discount"`
	DiscountType   DiscountType   `db:"discount_type" json:"discountType"`
	DiscountAmount float64        `db:"discount_amount" json:"discountAmount"`
	Total          float64        `db:"total" json:"total"`
	ValidUntil     *time.Time     `db:"valid_until" json:"validUntil"`
	Notes          *string        `db:"notes" json:"notes"`
	Terms          *string        `db:"terms" json:"terms"`
	SentAt         *time.Time     `db:"sent_at" json:"sentAt"`
	ApprovedAt     *time.Time     `db:"approved_at" json:"approvedAt"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`

	CustomerName  *string        `json:"customerName,omitempty"`
	CustomerEmail *string        `json:"customerEmail,omitempty"`
	Items         []EstimateItem `json:"items,omitempty"`
}

func (e *Estimate) ApplyTotals(t Totals) {
	e.Subtotal = t.Subtotal
	e.DiscountAmount = t.DiscountAmount
	e.TaxAmount = t.TaxAmount
	e.Total = t.Total
}

type EstimateItem struct {
	ID         int `db:"id" json:"id"`
	EstimateID int `db:"estimate_id" json:"estimateId"`
	LineItem
}

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoiceViewed  InvoiceStatus = "viewed"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceVoid    InvoiceStatus = "void"
)

type Invoice struct {
	ID             int           `db:"id" json:"id"`
	InvoiceNumber  string        `db:"invoice_number" json:"invoiceNumber"`
	CustomerID     int           `db:"customer_id" json:"customerId"`
	JobID          *int          `db:"job_id" json:"jobId"`
	EstimateID     *int          `db:"estimate_id" json:"estimateId"`
	Status         InvoiceStatus `db:"status" json:"status"`
	IssueDate      time.Time     `db:"issue_date" json:"issueDate"`
	DueDate        *time.Time    `db:"due_date" json:"dueDate"`
	Subtotal       float64       `db:"subtotal" json:"subtotal"`
	TaxRate        float64       `db:"tax_rate" json:"taxRate"`
	TaxAmount      float64       `db:"tax_amount" json:"taxAmount"`
	Discount       float64       `db:"discount" json:"discount"`
	DiscountType   DiscountType  `db:"discount_type" json:"discountType"`
	DiscountAmount float64       `db:"discount_amount" json:"discountAmount"`
	Total          float64       `db:"total" json:"total"`
	AmountPaid     float64       `db:"amount_paid" json:"amountPaid"`
	BalanceDue     float64       `db:"balance_due" json:"balanceDue"`
	Notes          *string       `db:"notes" json:"notes"`
	Terms          *string       `db:"terms" json:"terms"`
	SentAt         *time.Time    `db:"sent_at" json:"sentAt"`
	PaidAt         *time.Time    `db:"paid_at" json:"paidAt"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updatedAt"`

	CustomerName  *string       `json:"customerName,omitempty"`
	CustomerEmail *string       `json:"customerEmail,omitempty"`
	Items         []InvoiceItem `json:"items,omitempty"`
	Payments      []Payment     `json:"payments,omitempty"`
}

func (i *Invoice) ApplyTotals(t Totals) {
	i.Subtotal = t.Subtotal
	i.DiscountAmount = t.DiscountAmount
	i.TaxAmount = t.TaxAmount
	i.Total = t.Total
	i.BalanceDue = RoundMoney(t.Total - i.AmountPaid)
}

type InvoiceItem struct {
	ID        int `db:"id" json:"id"`
	InvoiceID int `db:"invoice_id" json:"invoiceId"`
	LineItem
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCheck        PaymentMethod = "check"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOther        PaymentMethod = "other"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID              int           `db:"id" json:"id"`
	PaymentNumber   string        `db:"payment_number" json:"paymentNumber"`
	InvoiceID       int           `db:"invoice_id" json:"invoiceId"`
	CustomerID      int           `db:"customer_id" json:"customerId"`
	Amount          float64       `db:"amount" json:"amount"`
	PaymentMethod   PaymentMethod `db:"payment_method" json:"paymentMethod"`
	PaymentDate     time.Time     `db:"payment_date" json:"paymentDate"`
	ReferenceNumber *string       `db:"reference_number" json:"referenceNumber"`
	Status          PaymentStatus `db:"status" json:"status"`
	Notes           *string       `db:"notes" json:"notes"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
