package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsJobs(t *testing.T) {
	var runs int32
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		accepted, err := q.Enqueue(Job{ID: "j", Type: "noop"})
		require.NoError(t, err)
		assert.True(t, accepted)
	}
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 5 }, time.Second, 5*time.Millisecond)
}

func TestQueueCoalescesWaitingJobs(t *testing.T) {
	release := make(chan struct{})
	var runs int32
	q := NewQueue("recompute", func(ctx context.Context, job Job) error {
		<-release
		atomic.AddInt32(&runs, 1)
		return nil
	}, QueueConfig{Workers: 1, Coalesce: true})
	q.Start(context.Background())
	defer q.Stop()

	// first job is picked up by the worker and blocks
	_, err := q.Enqueue(Job{ID: "1", Key: "all"})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return q.Pending() == 0 }, time.Second, time.Millisecond)

	accepted, err := q.Enqueue(Job{ID: "2", Key: "all"})
	require.NoError(t, err)
	assert.True(t, accepted)
	accepted, err = q.Enqueue(Job{ID: "3", Key: "all"})
	require.NoError(t, err)
	assert.False(t, accepted)

	close(release)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 2 }, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts int32
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("boom")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(Job{ID: "r"})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&attempts) == 3 }, time.Second, time.Millisecond)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(Job{ID: "x"})
	assert.Error(t, err)
}
