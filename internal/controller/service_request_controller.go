package controller

import (
	"context"
	"net/http"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// RequestWorkflow creates and updates service requests with their emails.
type RequestWorkflow interface {
	Create(ctx context.Context, sr *model.ServiceRequest) error
	Update(ctx context.Context, id int, upd model.ServiceRequestUpdate) (*model.ServiceRequest, error)
}

type ServiceRequestController struct {
	Repo     repository.ServiceRequestRepositoryInterface
	Workflow RequestWorkflow
}

type bookingRequest struct {
	CustomerName  string  `json:"customerName" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	ZipCode       *string `json:"zipCode"`
	ServiceType   string  `json:"serviceType" validate:"required"`
	PreferredDate string  `json:"preferredDate" validate:"required"`
	PreferredTime *string `json:"preferredTime"`
	Message       *string `json:"message"`
	IsEmergency   bool    `json:"isEmergency"`
}

func (c *ServiceRequestController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" && !model.ServiceRequestStatus(status).Valid() {
		writeError(w, r, appErrors.NewValidation("status", "Invalid status"))
		return
	}
	requests, total, err := c.Repo.List(r.Context(), status, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "serviceRequests", requests, page, total)
}

func (c *ServiceRequestController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sr, err := c.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}

// Create is the public booking form.
func (c *ServiceRequestController) Create(w http.ResponseWriter, r *http.Request) {
	var body bookingRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	preferred, err := parseTime("preferredDate", body.PreferredDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sr := &model.ServiceRequest{
		CustomerName:  body.CustomerName,
		Email:         body.Email,
		Phone:         body.Phone,
		Address:       body.Address,
		City:          body.City,
		State:         body.State,
		ZipCode:       body.ZipCode,
		ServiceType:   body.ServiceType,
		PreferredDate: preferred,
		PreferredTime: body.PreferredTime,
		Message:       body.Message,
		IsEmergency:   body.IsEmergency,
	}
	if err := c.Workflow.Create(r.Context(), sr); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

func (c *ServiceRequestController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status             string  `json:"status" validate:"required"`
		Notes              *string `json:"notes"`
		AssignedTechnician *string `json:"assignedTechnician"`
		ScheduledDate      *string `json:"scheduledDate"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	status := model.ServiceRequestStatus(body.Status)
	if !status.Valid() {
		writeError(w, r, appErrors.NewValidation("status", "Invalid status"))
		return
	}
	scheduled, err := parseOptionalTime("scheduledDate", body.ScheduledDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sr, err := c.Workflow.Update(r.Context(), id, model.ServiceRequestUpdate{
		Status:             status,
		Notes:              body.Notes,
		AssignedTechnician: body.AssignedTechnician,
		ScheduledDate:      scheduled,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}

func (c *ServiceRequestController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Service request deleted successfully")
}
