// Package jobs contains the background task definitions and the Asynq worker.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsRefresh recomputes the cached report snapshots.
	TaskReportsRefresh = "reports:refresh"
)

// ReportsRefreshPayload carries the refresh request metadata.
type ReportsRefreshPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// NewReportsRefreshTask constructs an Asynq task for a snapshot refresh.
func NewReportsRefreshTask(requestedAt time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(ReportsRefreshPayload{RequestedAt: requestedAt})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsRefresh, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueReportRefresh schedules a report snapshot refresh. Satisfies the
// ledger's ReportEnqueuer port.
func (c *Client) EnqueueReportRefresh(ctx context.Context) error {
	task, err := NewReportsRefreshTask(time.Now())
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
