package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_CountdownTo(t *testing.T) {
	start := time.Date(2026, time.November, 14, 9, 0, 0, 0, time.UTC)
	event := &Event{StartsAt: start, EndsAt: start.Add(8 * time.Hour)}

	tests := []struct {
		name     string
		now      time.Time
		expected Countdown
	}{
		{
			name:     "several days left",
			now:      start.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)),
			expected: Countdown{Days: 2, Hours: 3, Minutes: 4, Seconds: 5},
		},
		{
			name:     "partial second is truncated",
			now:      start.Add(-1500 * time.Millisecond),
			expected: Countdown{Seconds: 1},
		},
		{
			name:     "exactly at start",
			now:      start,
			expected: Countdown{Started: true},
		},
		{
			name:     "running",
			now:      start.Add(time.Hour),
			expected: Countdown{Started: true},
		},
		{
			name:     "finished",
			now:      start.Add(9 * time.Hour),
			expected: Countdown{Started: true, Finished: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, event.CountdownTo(tt.now))
		})
	}
}

func TestStage_Next(t *testing.T) {
	next, ok := StagePreliminary.Next()
	assert.True(t, ok)
	assert.Equal(t, StageSemifinal, next)

	next, ok = StageSemifinal.Next()
	assert.True(t, ok)
	assert.Equal(t, StageFinal, next)

	_, ok = StageFinal.Next()
	assert.False(t, ok)

	assert.False(t, Stage("quarterfinal").Valid())
}

func TestCompetition_RegistrationOpen(t *testing.T) {
	opens := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	c := &Competition{
		RegistrationOpensAt:  opens,
		RegistrationClosesAt: opens.AddDate(0, 1, 0),
		Stages: []*StageSchedule{
			{Stage: StagePreliminary, Fee: 100000, OpensAt: opens, ClosesAt: opens.AddDate(0, 1, 0)},
		},
	}

	assert.False(t, c.RegistrationOpen(opens.Add(-time.Second)))
	assert.True(t, c.RegistrationOpen(opens))
	assert.False(t, c.RegistrationOpen(opens.AddDate(0, 1, 0)))

	assert.NotNil(t, c.Schedule(StagePreliminary))
	assert.Nil(t, c.Schedule(StageFinal))
}

func TestSponsorTier_Rank(t *testing.T) {
	assert.Less(t, SponsorTierPlatinum.Rank(), SponsorTierGold.Rank())
	assert.Less(t, SponsorTierSilver.Rank(), SponsorTierBronze.Rank())
	assert.Equal(t, 4, SponsorTier("friend").Rank())
}

func TestPayment_Usable(t *testing.T) {
	now := time.Now()
	p := &Payment{Status: PaymentStatusPending, ExpiresAt: now.Add(time.Minute)}
	assert.True(t, p.Usable(now))
	assert.False(t, p.Usable(now.Add(time.Minute)))

	p.Status = PaymentStatusPaid
	assert.False(t, p.Usable(now))
}
