package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNumberingAudit verifies invoice numbering integrity.
	TaskNumberingAudit = "billing:numbering_audit"
)

// NumberingAuditPayload configures one audit run.
type NumberingAuditPayload struct {
	// FixCounter advances the counter when it lags behind issued numbers.
	FixCounter bool `json:"fix_counter"`
}

// NewNumberingAuditTask constructs an Asynq task.
func NewNumberingAuditTask(payload NumberingAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNumberingAudit, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// EnqueueNumberingAudit enqueues an on-demand numbering audit.
func (c *Client) EnqueueNumberingAudit(ctx context.Context, payload NumberingAuditPayload) (*asynq.TaskInfo, error) {
	task, err := NewNumberingAuditTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}
