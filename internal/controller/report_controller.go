package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/unclebandit/hvac-backend/internal/model"
)

type Reporter interface {
	Range(start, end, groupBy string) (model.ReportRange, error)
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
	Revenue(ctx context.Context, rng model.ReportRange) ([]model.RevenueRow, error)
	Technicians(ctx context.Context, rng model.ReportRange) ([]model.TechnicianReportRow, error)
	Jobs(ctx context.Context, rng model.ReportRange) ([]model.JobStatusCount, error)
	Services(ctx context.Context, rng model.ReportRange) ([]model.ServiceTypeRow, error)
	ExportRevenue(ctx context.Context, w io.Writer, rng model.ReportRange) error
}

type ReportController struct {
	Reports Reporter
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (c *ReportController) rangeOf(r *http.Request) (model.ReportRange, error) {
	q := r.URL.Query()
	return c.Reports.Range(q.Get("startDate"), q.Get("endDate"), q.Get("groupBy"))
}

func (c *ReportController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Reports.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ranged adapts a range-based report into a handler. The Reporter is read
// per request.
func ranged[T any](c *ReportController, run func(Reporter, context.Context, model.ReportRange) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := c.rangeOf(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rows, err := run(c.Reports, r.Context(), rng)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if rows == nil {
			rows = []T{}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (c *ReportController) Revenue() http.HandlerFunc     { return ranged(c, Reporter.Revenue) }
func (c *ReportController) Technicians() http.HandlerFunc { return ranged(c, Reporter.Technicians) }
func (c *ReportController) Jobs() http.HandlerFunc        { return ranged(c, Reporter.Jobs) }
func (c *ReportController) Services() http.HandlerFunc    { return ranged(c, Reporter.Services) }

// ExportRevenue streams the revenue report as a workbook. It is rendered
// into memory first so a failure can still produce a JSON error.
func (c *ReportController) ExportRevenue(w http.ResponseWriter, r *http.Request) {
	rng, err := c.rangeOf(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := c.Reports.ExportRevenue(r.Context(), &buf, rng); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="revenue-%s-to-%s.xlsx"`, rng.Start, rng.End))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
