package controller_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/controller"
	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type MockInvoiceWorkflow struct {
	controller.InvoiceWorkflow
	payment *model.Payment
	err     error
}

func (m *MockInvoiceWorkflow) RecordPayment(_ context.Context, p *model.Payment) (*model.Invoice, error) {
	if m.err != nil {
		return nil, m.err
	}
	p.ID = 12
	p.PaymentNumber = "PAY-260314-ABCDEF"
	m.payment = p
	return &model.Invoice{ID: p.InvoiceID, Status: model.InvoicePartial, Total: 300, AmountPaid: p.Amount, BalanceDue: 300 - p.Amount}, nil
}

func TestAddPayment(t *testing.T) {
	wf := &MockInvoiceWorkflow{}
	ctrl := &controller.InvoiceController{Workflow: wf}

	w := call(t, http.MethodPost, "/invoices/{id}/payments", "/invoices/8/payments", ctrl.AddPayment, map[string]any{
		"amount": 100, "paymentMethod": "check", "referenceNumber": "1042", "paymentDate": "2026-03-10",
	}, admin())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NotNil(t, wf.payment)
	assert.Equal(t, 8, wf.payment.InvoiceID)
	assert.Equal(t, model.PaymentCheck, wf.payment.PaymentMethod)
	assert.Equal(t, model.PaymentCompleted, wf.payment.Status)
	assert.Equal(t, 10, wf.payment.PaymentDate.Day())

	body := decodeBody(t, w)
	payment := body["payment"].(map[string]any)
	invoice := body["invoice"].(map[string]any)
	assert.Equal(t, "PAY-260314-ABCDEF", payment["paymentNumber"])
	assert.Equal(t, "partial", invoice["status"])
	assert.Equal(t, 200.0, invoice["balanceDue"])
}

func TestAddPaymentValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"zero amount", map[string]any{"amount": 0, "paymentMethod": "cash"}},
		{"negative amount", map[string]any{"amount": -5, "paymentMethod": "cash"}},
		{"unknown method", map[string]any{"amount": 5, "paymentMethod": "bitcoin"}},
		{"bad date", map[string]any{"amount": 5, "paymentMethod": "cash", "paymentDate": "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := &MockInvoiceWorkflow{}
			ctrl := &controller.InvoiceController{Workflow: wf}
			w := call(t, http.MethodPost, "/invoices/{id}/payments", "/invoices/8/payments", ctrl.AddPayment, tt.body, admin())
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, wf.payment)
		})
	}
}

func TestAddPaymentConflict(t *testing.T) {
	ctrl := &controller.InvoiceController{Workflow: &MockInvoiceWorkflow{err: appErrors.NewConflict("Invoice INV-1 is void")}}

	w := call(t, http.MethodPost, "/invoices/{id}/payments", "/invoices/8/payments", ctrl.AddPayment,
		map[string]any{"amount": 5, "paymentMethod": "cash"}, admin())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invoice INV-1 is void", decodeBody(t, w)["error"])
}
