package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderNumberPrefix(t *testing.T) {
	assert.Equal(t, "TORO-2024-", OrderNumberPrefix(2024))
}

func TestNextOrderNumber(t *testing.T) {
	tests := []struct {
		name         string
		latestNumber string
		latestID     int64
		want         string
	}{
		{"первая заявка года", "", 0, "TORO-2024-001"},
		{"обычный инкремент", "TORO-2024-007", 7, "TORO-2024-008"},
		{"переход через сотню", "TORO-2024-099", 99, "TORO-2024-100"},
		{"ширина не усекается", "TORO-2024-999", 999, "TORO-2024-1000"},
		{"четырехзначный хвост", "TORO-2024-1000", 1000, "TORO-2024-1001"},
		{"испорченный номер: откат на id строки", "TORO-2024-XYZ", 41, "TORO-2024-042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextOrderNumber(2024, tt.latestNumber, tt.latestID))
		})
	}
}

func TestNextOrderNumber_CurrentYear(t *testing.T) {
	year := time.Now().UTC().Year()
	got := NextOrderNumber(year, "", 0)
	assert.Equal(t, fmt.Sprintf("TORO-%d-001", year), got)
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	ts := time.Date(2024, 5, 17, 15, 4, 5, 987654321, loc)

	// UTC, суффикс Z, доли секунды отброшены.
	assert.Equal(t, "2024-05-17T12:04:05Z", FormatTimestamp(ts))
}
