package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddDuration(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		n        int
		unit     DurationUnit
		expected time.Time
	}{
		{
			name:     "days",
			start:    base,
			n:        10,
			unit:     UnitDays,
			expected: time.Date(2024, 3, 25, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "weeks",
			start:    base,
			n:        2,
			unit:     UnitWeeks,
			expected: time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "months",
			start:    base,
			n:        1,
			unit:     UnitMonths,
			expected: time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "years",
			start:    base,
			n:        1,
			unit:     UnitYears,
			expected: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			// Jan 31 + 1 month normalizes past February's end.
			name:     "month overflow in leap year",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			n:        1,
			unit:     UnitMonths,
			expected: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "month overflow in non-leap year",
			start:    time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			n:        1,
			unit:     UnitMonths,
			expected: time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "leap day plus one year",
			start:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			n:        1,
			unit:     UnitYears,
			expected: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "unknown unit returns input",
			start:    base,
			n:        5,
			unit:     DurationUnit("FORTNIGHTS"),
			expected: base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddDuration(tt.start, tt.n, tt.unit))
		})
	}
}
