package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/makarapreneur/internal/service"
	"go.uber.org/zap"
)

type fakeExpirer struct {
	calls []time.Time
	n     int64
	err   *service.Error
}

func (f *fakeExpirer) ExpireStale(_ context.Context, now time.Time) (int64, *service.Error) {
	f.calls = append(f.calls, now)
	return f.n, f.err
}

func TestScheduler_AddPaymentExpiry(t *testing.T) {
	s := New(zap.NewNop())

	assert.NoError(t, s.AddPaymentExpiry("@every 5m", &fakeExpirer{}))
	assert.Error(t, s.AddPaymentExpiry("every five minutes", &fakeExpirer{}))
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_ExpirePayments(t *testing.T) {
	now := time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		f    *fakeExpirer
	}{
		{name: "expired some", f: &fakeExpirer{n: 3}},
		{name: "nothing to expire", f: &fakeExpirer{}},
		{name: "service failure", f: &fakeExpirer{err: service.NewError(service.ErrorCodeUnspecified, "db down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(zap.NewNop())
			s.now = func() time.Time { return now }

			s.expirePayments(tt.f)

			require.Len(t, tt.f.calls, 1)
			assert.Equal(t, now, tt.f.calls[0])
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zap.NewNop())
	require.NoError(t, s.AddPaymentExpiry("@every 1h", &fakeExpirer{}))

	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

type countingSweeper struct {
	idle []time.Duration
}

func (c *countingSweeper) Sweep(idle time.Duration) int {
	c.idle = append(c.idle, idle)
	return len(c.idle)
}

func TestScheduler_AddIdleSweep(t *testing.T) {
	s := New(zap.NewNop())
	sw := &countingSweeper{}

	require.NoError(t, s.AddIdleSweep("@every 10m", time.Hour, sw))
	assert.Error(t, s.AddIdleSweep("often", time.Hour, sw))

	entries := s.cron.Entries()
	require.Len(t, entries, 1)

	entries[0].Job.Run()
	assert.Equal(t, []time.Duration{time.Hour}, sw.idle)
}
