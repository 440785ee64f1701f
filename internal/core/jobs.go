package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that can accept and queue
// background jobs for asynchronous processing. This interface decouples the
// event source (the webhook handler) from the job execution mechanism: the
// handler acknowledges the delivery and hands the event off without ever
// waiting for the pipeline to run.
type JobDispatcher interface {
	// Dispatch accepts a PullRequestEvent and queues it for processing.
	// It returns an error if the job cannot be queued, for example when the
	// queue is full.
	Dispatch(ctx context.Context, event *PullRequestEvent) error

	// Stop shuts the dispatcher down, waiting for in-flight jobs to finish.
	Stop()
}

// Job represents a single, executable unit of background work triggered by a
// pull request event. Errors returned from Run are logged by the dispatcher's
// worker boundary and never propagate further.
type Job interface {
	Run(ctx context.Context, event *PullRequestEvent) error
}
