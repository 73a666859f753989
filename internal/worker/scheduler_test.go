package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/pbm-pruner/internal/mailbox"
)

func TestSchedulerRejectsInvalidExpression(t *testing.T) {
	s := NewScheduler(mailbox.New[Job](), nil)
	err := s.Start("every night")
	require.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestSchedulerNextRun(t *testing.T) {
	s := NewScheduler(mailbox.New[Job](), nil)
	require.NoError(t, s.Start("0 3 * * *"))
	defer s.Stop()

	assert.True(t, s.IsRunning())
	next := s.NextRun()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	require.NoError(t, s.Reschedule("30 1 * * *"))
	next = s.NextRun()
	require.NotNil(t, next)
	assert.Equal(t, 1, next.Hour())
	assert.Equal(t, 30, next.Minute())

	require.Error(t, s.Reschedule("61 * * * *"))

	require.NoError(t, s.Reschedule(""))
	assert.Nil(t, s.NextRun())
}

func TestSchedulerPostsJobs(t *testing.T) {
	mb := mailbox.New[Job]()
	s := NewScheduler(mb, nil)
	require.NoError(t, s.Start("@every 1s"))
	defer s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job, err := mb.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "schedule", job.Reason)
}

func TestTriggerAndStop(t *testing.T) {
	mb := mailbox.New[Job]()
	s := NewScheduler(mb, nil)
	require.NoError(t, s.Start(""))
	assert.Nil(t, s.NextRun())

	s.Trigger("startup")
	job := mb.TryTake()
	require.NotNil(t, job)
	assert.Equal(t, "startup", job.Reason)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}
