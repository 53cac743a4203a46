package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mamadbah2/matcert/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingSweeper struct {
	calls atomic.Int32
	ttl   atomic.Int64
}

func (s *countingSweeper) SweepIdle(ttl time.Duration) int {
	s.calls.Add(1)
	s.ttl.Store(int64(ttl))
	return 0
}

func TestScheduler_RunsSweepWithTTL(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(config.SessionConfig{TTL: 90 * time.Minute, SweepSchedule: "@every 1s"}, sweeper, nil)

	require.NoError(t, s.Start())
	require.Eventually(t, func() bool { return sweeper.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()

	assert.Equal(t, int64(90*time.Minute), sweeper.ttl.Load())
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(config.SessionConfig{TTL: time.Minute, SweepSchedule: "every tuesday"}, &countingSweeper{}, nil)
	assert.Error(t, s.Start())
}

func TestScheduler_StopWithoutJobs(t *testing.T) {
	s := NewScheduler(config.SessionConfig{TTL: time.Minute, SweepSchedule: "@every 1h"}, &countingSweeper{}, nil)
	require.NoError(t, s.Start())
	s.Stop()
}
