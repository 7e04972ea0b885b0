package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/hvac-backend/internal/model"
)

func TestWorkedHours(t *testing.T) {
	in := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name         string
		out          time.Time
		breakMinutes int
		want         float64
	}{
		{"full day with lunch", in.Add(8*time.Hour + 30*time.Minute), 30, 8},
		{"rounded to hundredths", in.Add(100 * time.Minute), 0, 1.67},
		{"break longer than shift", in.Add(20 * time.Minute), 45, 0},
		{"no time worked", in, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.WorkedHours(in, tt.out, tt.breakMinutes))
		})
	}
}
