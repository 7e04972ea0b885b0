package controller

import (
	"net/http"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type TechnicianController struct {
	Repo repository.TechnicianRepositoryInterface
}

type technicianRequest struct {
	UserID         *int     `json:"userId"`
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone" validate:"required"`
	EmployeeID     *string  `json:"employeeId"`
	HireDate       *string  `json:"hireDate"`
	HourlyRate     float64  `json:"hourlyRate" validate:"gte=0"`
	Certifications []string `json:"certifications"`
	Skills         []string `json:"skills"`
	Status         string   `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
	Color          *string  `json:"color"`
}

func (b technicianRequest) technician(id int) (*model.Technician, error) {
	hired, err := parseOptionalTime("hireDate", b.HireDate)
	if err != nil {
		return nil, err
	}
	status := model.TechnicianStatus(b.Status)
	if status == "" {
		status = model.TechnicianActive
	}
	return &model.Technician{
		ID:             id,
		UserID:         b.UserID,
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		Phone:          b.Phone,
		EmployeeID:     b.EmployeeID,
		HireDate:       hired,
		HourlyRate:     b.HourlyRate,
		Certifications: b.Certifications,
		Skills:         b.Skills,
		Status:         status,
		Color:          b.Color,
	}, nil
}

func (c *TechnicianController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")
	switch model.TechnicianStatus(status) {
	case "", model.TechnicianActive, model.TechnicianInactive, model.TechnicianOnLeave:
	default:
		writeError(w, r, appErrors.NewValidation("status", "Invalid status"))
		return
	}
	techs, total, err := c.Repo.List(r.Context(), status, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "technicians", techs, page, total)
}

func (c *TechnicianController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := c.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (c *TechnicianController) Create(w http.ResponseWriter, r *http.Request) {
	var body technicianRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := body.technician(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Create(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (c *TechnicianController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body technicianRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := body.technician(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Update(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (c *TechnicianController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Technician deleted successfully")
}
