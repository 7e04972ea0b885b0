package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/service"
)

func TestReportRange(t *testing.T) {
	svc := &service.ReportService{Now: clock}

	tests := []struct {
		name              string
		start, end, group string
		want              model.ReportRange
		badField          string
	}{
		{name: "defaults to last 30 days", want: model.ReportRange{Start: "2026-02-12", End: "2026-03-14", GroupBy: "day"}},
		{name: "explicit window", start: "2026-01-01", end: "2026-01-31", group: "month",
			want: model.ReportRange{Start: "2026-01-01", End: "2026-01-31", GroupBy: "month"}},
		{name: "bad start", start: "01/01/2026", badField: "startDate"},
		{name: "bad end", end: "2026-13-01", badField: "endDate"},
		{name: "end before start", start: "2026-03-01", end: "2026-02-01", badField: "endDate"},
		{name: "bad grouping", group: "year", badField: "groupBy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Range(tt.start, tt.end, tt.group)
			if tt.badField != "" {
				var ve *appErrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.badField, ve.Fields[0].Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
