package service

import (
	"context"
	"io"
	"time"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/spreadsheet"
)

const dateLayout = "2006-01-02"

type ReportService struct {
	Reports repository.ReportRepositoryInterface
	Now     func() time.Time
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Range validates report query parameters. The window defaults to the last
// 30 days ending today, grouped by day.
func (s *ReportService) Range(start, end, groupBy string) (model.ReportRange, error) {
	today := s.now()
	rng := model.ReportRange{
		Start:   today.AddDate(0, 0, -30).Format(dateLayout),
		End:     today.Format(dateLayout),
		GroupBy: "day",
	}

	if start != "" {
		if _, err := time.Parse(dateLayout, start); err != nil {
			return rng, appErrors.NewValidation("startDate", "startDate must be YYYY-MM-DD")
		}
		rng.Start = start
	}
	if end != "" {
		if _, err := time.Parse(dateLayout, end); err != nil {
			return rng, appErrors.NewValidation("endDate", "endDate must be YYYY-MM-DD")
		}
		rng.End = end
	}
	if rng.End < rng.Start {
		return rng, appErrors.NewValidation("endDate", "endDate must not be before startDate")
	}

	switch groupBy {
	case "":
	case "day", "week", "month":
		rng.GroupBy = groupBy
	default:
		return rng, appErrors.NewValidation("groupBy", "groupBy must be day, week or month")
	}
	return rng, nil
}

func (s *ReportService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	return s.Reports.Dashboard(ctx, s.now())
}

func (s *ReportService) Revenue(ctx context.Context, rng model.ReportRange) ([]model.RevenueRow, error) {
	return s.Reports.Revenue(ctx, rng)
}

func (s *ReportService) Technicians(ctx context.Context, rng model.ReportRange) ([]model.TechnicianReportRow, error) {
	return s.Reports.Technicians(ctx, rng)
}

func (s *ReportService) Jobs(ctx context.Context, rng model.ReportRange) ([]model.JobStatusCount, error) {
	return s.Reports.JobsByStatus(ctx, rng)
}

func (s *ReportService) Services(ctx context.Context, rng model.ReportRange) ([]model.ServiceTypeRow, error) {
	return s.Reports.ServiceTypes(ctx, rng)
}

// ExportRevenue writes the revenue report for rng as an .xlsx workbook.
func (s *ReportService) ExportRevenue(ctx context.Context, w io.Writer, rng model.ReportRange) error {
	rows, err := s.Reports.Revenue(ctx, rng)
	if err != nil {
		return err
	}
	return spreadsheet.WriteRevenue(w, rng, rows)
}
