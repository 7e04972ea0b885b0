package controller

import (
	"context"
	"net/http"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

type CustomerDetailer interface {
	Detail(ctx context.Context, id int) (*model.CustomerDetail, error)
}

type CustomerController struct {
	Repo    repository.CustomerRepositoryInterface
	Details CustomerDetailer
}

type customerRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"required"`
	Address   string  `json:"address" validate:"required"`
	City      string  `json:"city" validate:"required"`
	State     string  `json:"state" validate:"required"`
	ZipCode   string  `json:"zipCode" validate:"required"`
	Notes     *string `json:"notes"`
}

func (b customerRequest) customer(id int) *model.Customer {
	return &model.Customer{
		ID:        id,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     b.Email,
		Phone:     b.Phone,
		Address:   b.Address,
		City:      b.City,
		State:     b.State,
		ZipCode:   b.ZipCode,
		Notes:     b.Notes,
	}
}

func (c *CustomerController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	customers, total, err := c.Repo.List(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "customers", customers, page, total)
}

func (c *CustomerController) DueMaintenance(w http.ResponseWriter, r *http.Request) {
	customers, err := c.Repo.DueForMaintenance(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (c *CustomerController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := c.Details.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (c *CustomerController) Create(w http.ResponseWriter, r *http.Request) {
	var body customerRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	customer := body.customer(0)
	if err := c.Repo.Create(r.Context(), customer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (c *CustomerController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body customerRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	customer := body.customer(id)
	if err := c.Repo.Update(r.Context(), customer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Customer deleted successfully")
}

func (c *CustomerController) AddServiceHistory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerID  int     `json:"customerId" validate:"required,gt=0"`
		ServiceID   *int    `json:"serviceId"`
		ServiceDate string  `json:"serviceDate" validate:"required"`
		Technician  string  `json:"technician" validate:"required"`
		Notes       *string `json:"notes"`
		Cost        float64 `json:"cost" validate:"gte=0"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseTime("serviceDate", body.ServiceDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h := &model.ServiceHistory{
		CustomerID:  body.CustomerID,
		ServiceID:   body.ServiceID,
		ServiceDate: date,
		Technician:  body.Technician,
		Notes:       body.Notes,
		Cost:        body.Cost,
	}
	if err := c.Repo.AddServiceHistory(r.Context(), h); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}
