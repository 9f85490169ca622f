package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForMonth(t *testing.T) {
	w := ForMonth(2025, 6)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, time.Date(2025, 6, 30, 23, 59, 59, 999000000, time.UTC), w.To)
	assert.Equal(t, "receipts_2025_06", w.Name)
	assert.Equal(t, "for 2025-06", w.Label)
}

func TestForMonthFebruary(t *testing.T) {
	assert.Equal(t, 29, ForMonth(2024, 2).To.Day(), "leap year")
	assert.Equal(t, 28, ForMonth(2025, 2).To.Day())
	assert.Equal(t, 31, ForMonth(2025, 12).To.Day())
}

func TestLastDays(t *testing.T) {
	today := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	w := LastDays(90, today)

	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, time.Date(2025, 6, 15, 23, 59, 59, 999000000, time.UTC), w.To)
	assert.Equal(t, "last_90_days", w.Name)
	assert.Equal(t, "over the last 90 days", w.Label)
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		today time.Time
		want  string
	}{
		{time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "receipts_2025_05"},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "receipts_2024_12"},
		{time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC), "receipts_2025_02"},
	}
	for _, tt := range tests {
		w := Previous(tt.today)
		assert.Equal(t, tt.want, w.Name)
	}
}

func TestPreviousCoversWholeMonth(t *testing.T) {
	w := Previous(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, 28, w.To.Day())
}
