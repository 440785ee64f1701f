package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeguardian-ai/codeguardian/internal/core"
)

type countingJob struct {
	mu      sync.Mutex
	events  []*core.PullRequestEvent
	err     error
	started chan struct{}
	release chan struct{}
}

func (j *countingJob) Run(_ context.Context, event *core.PullRequestEvent) error {
	if j.started != nil {
		select {
		case j.started <- struct{}{}:
		default:
		}
	}
	if j.release != nil {
		<-j.release
	}
	j.mu.Lock()
	j.events = append(j.events, event)
	j.mu.Unlock()
	return j.err
}

func (j *countingJob) processed() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

func TestDispatcherProcessesAllQueuedJobs(t *testing.T) {
	job := &countingJob{}
	d := NewDispatcher(job, 3, testLogger())

	for i := range 10 {
		event := testEvent()
		event.PRNumber = i + 1
		require.NoError(t, d.Dispatch(context.Background(), event))
	}

	// Stop drains the queue and waits for the workers.
	d.Stop()
	assert.Equal(t, 10, job.processed())
}

func TestDispatcherJobErrorsAreContained(t *testing.T) {
	job := &countingJob{err: errors.New("pipeline failed")}
	d := NewDispatcher(job, 1, testLogger())

	require.NoError(t, d.Dispatch(context.Background(), testEvent()))
	require.NoError(t, d.Dispatch(context.Background(), testEvent()))

	// Failing jobs must not stop the workers or escape Stop.
	d.Stop()
	assert.Equal(t, 2, job.processed())
}

func TestDispatcherRejectsWhenQueueIsFull(t *testing.T) {
	job := &countingJob{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	d := NewDispatcher(job, 1, testLogger())

	// Park the single worker on one event.
	require.NoError(t, d.Dispatch(context.Background(), testEvent()))
	<-job.started

	// Fill the queue behind it.
	for range jobQueueSize {
		require.NoError(t, d.Dispatch(context.Background(), testEvent()))
	}

	err := d.Dispatch(context.Background(), testEvent())
	assert.ErrorContains(t, err, "queue is full")

	close(job.release)
	d.Stop()
	assert.Equal(t, jobQueueSize+1, job.processed())
}

func TestDispatcherDefaultsToOneWorker(t *testing.T) {
	job := &countingJob{}
	d := NewDispatcher(job, 0, testLogger())

	require.NoError(t, d.Dispatch(context.Background(), testEvent()))
	d.Stop()
	assert.Equal(t, 1, job.processed())
}
