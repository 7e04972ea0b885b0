package controller

import (
	"context"
	"net/http"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

// JobWorkflow is the job logic behind the controller.
type JobWorkflow interface {
	Create(ctx context.Context, j *model.Job, technicianIDs []int) error
	Update(ctx context.Context, j *model.Job) error
	Detail(ctx context.Context, id int) (*model.JobDetail, error)
	UpdateStatus(ctx context.Context, id int, status model.JobStatus) (*model.Job, error)
}

type JobController struct {
	Repo     repository.JobRepositoryInterface
	Workflow JobWorkflow
}

type jobRequest struct {
	CustomerID         int      `json:"customerId" validate:"required,gt=0"`
	ServiceRequestID   *int     `json:"serviceRequestId"`
	EstimateID         *int     `json:"estimateId"`
	ServiceType        string   `json:"serviceType" validate:"required"`
	Description        *string  `json:"description"`
	Priority           string   `json:"priority" validate:"omitempty,oneof=low normal high emergency"`
	Status             string   `json:"status" validate:"omitempty,oneof=scheduled dispatched in_progress completed cancelled on_hold"`
	ScheduledStartDate *string  `json:"scheduledStartDate"`
	ScheduledEndDate   *string  `json:"scheduledEndDate"`
	Address            *string  `json:"address"`
	Notes              *string  `json:"notes"`
	InternalNotes      *string  `json:"internalNotes"`
	Tags               []string `json:"tags"`
	TechnicianIDs      []int    `json:"technicianIds"`
}

func (b jobRequest) job(id int) (*model.Job, error) {
	start, err := parseOptionalTime("scheduledStartDate", b.ScheduledStartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalTime("scheduledEndDate", b.ScheduledEndDate)
	if err != nil {
		return nil, err
	}
	return &model.Job{
		ID:               id,
		CustomerID:       b.CustomerID,
		ServiceRequestID: b.ServiceRequestID,
		EstimateID:       b.EstimateID,
		ServiceType:      b.ServiceType,
		Description:      b.Description,
		Priority:         model.JobPriority(b.Priority),
		Status:           model.JobStatus(b.Status),
		ScheduledStart:   start,
		ScheduledEnd:     end,
		Address:          b.Address,
		Notes:            b.Notes,
		InternalNotes:    b.InternalNotes,
		Tags:             b.Tags,
	}, nil
}

func (c *JobController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f := repository.JobFilter{Status: r.URL.Query().Get("status")}
	if f.CustomerID, err = queryInt(r, "customerId"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.TechnicianID, err = queryInt(r, "technicianId"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.Date, err = queryDate(r, "date"); err != nil {
		writeError(w, r, err)
		return
	}
	jobs, total, err := c.Repo.List(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "jobs", jobs, page, total)
}

func (c *JobController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := c.Workflow.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (c *JobController) Create(w http.ResponseWriter, r *http.Request) {
	var body jobRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	job, err := body.job(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Workflow.Create(r.Context(), job, body.TechnicianIDs); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (c *JobController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body jobRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	job, err := body.job(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Workflow.Update(r.Context(), job); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (c *JobController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	job, err := c.Workflow.UpdateStatus(r.Context(), id, model.JobStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (c *JobController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Job deleted successfully")
}
