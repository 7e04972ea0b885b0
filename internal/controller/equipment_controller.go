package controller

import (
	"net/http"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// maintenanceWindowDays is how far ahead the due-maintenance list looks.
const maintenanceWindowDays = 30

type EquipmentController struct {
	Repo repository.EquipmentRepositoryInterface
}

type equipmentRequest struct {
	CustomerID       int     `json:"customerId" validate:"required,gt=0"`
	Type             string  `json:"type" validate:"required"`
	Brand            string  `json:"brand" validate:"required"`
	Model            string  `json:"model" validate:"required"`
	SerialNumber     *string `json:"serialNumber"`
	InstallationDate string  `json:"installationDate" validate:"required"`
	WarrantyExpiry   *string `json:"warrantyExpiry"`
	LastMaintenance  *string `json:"lastMaintenance"`
	MaintenanceDue   *string `json:"maintenanceDue"`
	Notes            *string `json:"notes"`
}

func (b equipmentRequest) equipment(id int) (*model.Equipment, error) {
	e := &model.Equipment{
		ID:           id,
		CustomerID:   b.CustomerID,
		Type:         b.Type,
		Brand:        b.Brand,
		Model:        b.Model,
		SerialNumber: b.SerialNumber,
		Notes:        b.Notes,
	}
	var err error
	if e.InstallationDate, err = parseTime("installationDate", b.InstallationDate); err != nil {
		return nil, err
	}
	if e.WarrantyExpiry, err = parseOptionalTime("warrantyExpiry", b.WarrantyExpiry); err != nil {
		return nil, err
	}
	if e.LastMaintenance, err = parseOptionalTime("lastMaintenance", b.LastMaintenance); err != nil {
		return nil, err
	}
	if e.MaintenanceDue, err = parseOptionalTime("maintenanceDue", b.MaintenanceDue); err != nil {
		return nil, err
	}
	return e, nil
}

func (c *EquipmentController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	customerID, err := queryInt(r, "customerId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	equipment, total, err := c.Repo.List(r.Context(), customerID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "equipment", equipment, page, total)
}

func (c *EquipmentController) DueMaintenance(w http.ResponseWriter, r *http.Request) {
	equipment, err := c.Repo.DueForMaintenance(r.Context(), maintenanceWindowDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, equipment)
}

func (c *EquipmentController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := c.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EquipmentController) Create(w http.ResponseWriter, r *http.Request) {
	var body equipmentRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := body.equipment(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Create(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (c *EquipmentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body equipmentRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := body.equipment(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Update(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (c *EquipmentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Equipment deleted successfully")
}
