package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify_Offsets(t *testing.T) {
	today := day(2026, 3, 10)
	tests := []struct {
		offset int
		want   Class
	}{
		{3, Upcoming},
		{-1, Overdue},
		{2, None},
		{4, None},
		{0, None},
		{-2, None},
	}
	for _, tt := range tests {
		deadline := today.AddDate(0, 0, tt.offset)
		assert.Equal(t, tt.want, Default.Classify(deadline, today), "offset %d", tt.offset)
	}
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	deadline := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Upcoming, Default.Classify(deadline, time.Date(2026, 1, 28, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, Upcoming, Default.Classify(deadline, time.Date(2026, 1, 28, 23, 30, 0, 0, time.UTC)))
}

func TestClassify_Scenario(t *testing.T) {
	deadline := day(2026, 1, 31)
	assert.Equal(t, Upcoming, Default.Classify(deadline, day(2026, 1, 28)))
	assert.Equal(t, Overdue, Default.Classify(deadline, day(2026, 2, 1)))
	assert.Equal(t, None, Default.Classify(deadline, day(2026, 1, 29)))
}

func TestClassify_Location(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	p := Policy{UpcomingDays: 3, OverdueDays: -1, Location: loc}

	// 2026-01-28 03:00 UTC is still Jan 27 in UTC-6
	deadline := time.Date(2026, 1, 31, 12, 0, 0, 0, loc)
	today := time.Date(2026, 1, 28, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, DaysUntil(deadline, today, loc))
	assert.Equal(t, None, p.Classify(deadline, today))
}

func TestEligible(t *testing.T) {
	assert.True(t, Eligible(delivery.NoEntregado))
	assert.True(t, Eligible(delivery.RequiereCorreccion))
	assert.True(t, Eligible(delivery.NoAprobado))
	assert.False(t, Eligible(delivery.Aprobado))
	assert.False(t, Eligible(delivery.Pendiente))
	assert.False(t, Eligible(delivery.EnRevision))
}
