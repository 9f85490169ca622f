package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectWindow(t *testing.T) {
	today := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		year     int
		month    int
		days     int
		wantName string
		wantErr  string
	}{
		{name: "default is previous month", wantName: "receipts_2025_05"},
		{name: "explicit month", year: 2025, month: 3, wantName: "receipts_2025_03"},
		{name: "trailing days", days: 90, wantName: "last_90_days"},
		{name: "days and month conflict", year: 2025, month: 3, days: 30,
			wantErr: "use either --days or --year/--month, not both"},
		{name: "days and year conflict", year: 2025, days: 30,
			wantErr: "use either --days or --year/--month, not both"},
		{name: "year without month", year: 2025,
			wantErr: "--year and --month must be given together"},
		{name: "month without year", month: 6,
			wantErr: "--year and --month must be given together"},
		{name: "negative days", days: -5, wantErr: "--days must be positive"},
		{name: "month out of range", year: 2025, month: 13,
			wantErr: "--month must be between 1 and 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := selectWindow(tt.year, tt.month, tt.days, today)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, w.Name)
		})
	}
}
