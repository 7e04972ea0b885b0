package controller

import (
	"context"
	"net/http"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type lineItemRequest struct {
	ItemType    string  `json:"itemType" validate:"omitempty,oneof=service part labor discount"`
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice"`
	InventoryID *int    `json:"inventoryId"`
	ServiceID   *int    `json:"serviceId"`
}

func lineItems(in []lineItemRequest) []model.LineItem {
	items := make([]model.LineItem, len(in))
	for i, it := range in {
		kind := model.ItemType(it.ItemType)
		if kind == "" {
			kind = model.ItemService
		}
		items[i] = model.LineItem{
			ItemType:    kind,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			InventoryID: it.InventoryID,
			ServiceID:   it.ServiceID,
			SortOrder:   i,
		}
	}
	return items
}

// ====== Estimates ======

type EstimateWorkflow interface {
	Create(ctx context.Context, e *model.Estimate, items []model.LineItem) error
	Update(ctx context.Context, e *model.Estimate, items []model.LineItem) error
	Get(ctx context.Context, id int) (*model.Estimate, error)
	Send(ctx context.Context, id int) (*model.Estimate, error)
	Convert(ctx context.Context, id int) (*model.Job, error)
}

type EstimateController struct {
	Repo     repository.EstimateRepositoryInterface
	Workflow EstimateWorkflow
}

type estimateRequest struct {
	CustomerID   int               `json:"customerId" validate:"required,gt=0"`
	Title        string            `json:"title" validate:"required"`
	Description  *string           `json:"description"`
	Status       string            `json:"status" validate:"omitempty,oneof=draft sent viewed approved declined expired"`
	TaxRate      float64           `json:"taxRate" validate:"gte=0"`
	Discount     float64           `json:"discount" validate:"gte=0"`
	DiscountType string            `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	ValidUntil   *string           `json:"validUntil"`
	Notes        *string           `json:"notes"`
	Terms        *string           `json:"terms"`
	Items        []lineItemRequest `json:"items" validate:"dive"`
}

func (b estimateRequest) estimate(id int) (*model.Estimate, []model.LineItem, error) {
	valid, err := parseOptionalTime("validUntil", b.ValidUntil)
	if err != nil {
		return nil, nil, err
	}
	e := &model.Estimate{
		ID:           id,
		CustomerID:   b.CustomerID,
		Title:        b.Title,
		Description:  b.Description,
		Status:       model.EstimateStatus(b.Status),
		TaxRate:      b.TaxRate,
		Discount:     b.Discount,
		DiscountType: model.DiscountType(b.DiscountType),
		ValidUntil:   valid,
		Notes:        b.Notes,
		Terms:        b.Terms,
	}
	return e, lineItems(b.Items), nil
}

func (c *EstimateController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	estimates, total, err := c.Repo.List(r.Context(), r.URL.Query().Get("status"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "estimates", estimates, page, total)
}

func (c *EstimateController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := c.Workflow.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EstimateController) Create(w http.ResponseWriter, r *http.Request) {
	var body estimateRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	e, items, err := body.estimate(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Workflow.Create(r.Context(), e, items); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (c *EstimateController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body estimateRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	e, items, err := body.estimate(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Workflow.Update(r.Context(), e, items); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EstimateController) Send(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := c.Workflow.Send(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EstimateController) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := c.Workflow.Convert(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (c *EstimateController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Estimate deleted successfully")
}

// ====== Invoices ======

type InvoiceWorkflow interface {
	Create(ctx context.Context, inv *model.Invoice, items []model.LineItem) error
	Update(ctx context.Context, inv *model.Invoice, items []model.LineItem) error
	Get(ctx context.Context, id int) (*model.Invoice, error)
	Send(ctx context.Context, id int) (*model.Invoice, error)
	RecordPayment(ctx context.Context, p *model.Payment) (*model.Invoice, error)
}

type InvoiceController struct {
	Repo     repository.InvoiceRepositoryInterface
	Workflow InvoiceWorkflow
}

type invoiceRequest struct {
	CustomerID   int               `json:"customerId" validate:"required,gt=0"`
	JobID        *int              `json:"jobId"`
	EstimateID   *int              `json:"estimateId"`
	Status       string            `json:"status" validate:"omitempty,oneof=draft sent viewed partial paid overdue void"`
	IssueDate    *string           `json:"issueDate"`
	DueDate      *string           `json:"dueDate"`
	TaxRate      float64           `json:"taxRate" validate:"gte=0"`
	Discount     float64           `json:"discount" validate:"gte=0"`
	DiscountType string            `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	Notes        *string           `json:"notes"`
	Terms        *string           `json:"terms"`
	Items        []lineItemRequest `json:"items" validate:"dive"`
}

func (b invoiceRequest) invoice(id int) (*model.Invoice, []model.LineItem, error) {
	issued, err := parseOptionalTime("issueDate", b.IssueDate)
	if err != nil {
		return nil, nil, err
	}
	due, err := parseOptionalTime("dueDate", b.DueDate)
	if err != nil {
		return nil, nil, err
	}
	inv := &model.Invoice{
		ID:           id,
		CustomerID:   b.CustomerID,
		JobID:        b.JobID,
		EstimateID:   b.EstimateID,
		Status:       model.InvoiceStatus(b.Status),
		DueDate:      due,
		TaxRate:      b.TaxRate,
		Discount:     b.Discount,
		DiscountType: model.DiscountType(b.DiscountType),
		Notes:        b.Notes,
		Terms:        b.Terms,
	}
	if issued != nil {
		inv.IssueDate = *issued
	}
	return inv, lineItems(b.Items), nil
}

func (c *InvoiceController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoices, total, err := c.Repo.List(r.Context(), r.URL.Query().Get("status"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "invoices", invoices, page, total)
}

func (c *InvoiceController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := c.Workflow.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (c *InvoiceController) Create(w http.ResponseWriter, r *http.Request) {
	var body invoiceRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	inv, items, err := body.invoice(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Workflow.Create(r.Context(), inv, items); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (c *InvoiceController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body invoiceRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	inv, items, err := body.invoice(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Workflow.Update(r.Context(), inv, items); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (c *InvoiceController) Send(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := c.Workflow.Send(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (c *InvoiceController) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Amount          float64 `json:"amount" validate:"gt=0"`
		PaymentMethod   string  `json:"paymentMethod" validate:"required,oneof=cash check credit_card debit_card bank_transfer other"`
		PaymentDate     *string `json:"paymentDate"`
		ReferenceNumber *string `json:"referenceNumber"`
		Notes           *string `json:"notes"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	paid, err := parseOptionalTime("paymentDate", body.PaymentDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := &model.Payment{
		InvoiceID:       id,
		Amount:          body.Amount,
		PaymentMethod:   model.PaymentMethod(body.PaymentMethod),
		ReferenceNumber: body.ReferenceNumber,
		Status:          model.PaymentCompleted,
		Notes:           body.Notes,
	}
	if paid != nil {
		p.PaymentDate = *paid
	}
	inv, err := c.Workflow.RecordPayment(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"payment": p, "invoice": inv})
}

func (c *InvoiceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Invoice deleted successfully")
}
