// Package queue carries stowage jobs between the API side and the
// placement worker over Redis. A job is a JSON record keyed by id; the
// pending queue is a Redis list of job ids, popped blockingly by workers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/piwi3910/CargoStow/internal/model"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Key layout in Redis.
const (
	DefaultPendingList = "cargostow:pending"
	jobKeyPrefix       = "cargostow:job:"
)

// Job is one unit of placement work together with its result record.
type Job struct {
	ID        string                 `json:"jobId"`
	Status    Status                 `json:"status"`
	Request   model.PlacementRequest `json:"request"`
	Result    *model.EngineOutput    `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// NewJob wraps a placement request into a pending job with a fresh id.
func NewJob(req model.PlacementRequest) Job {
	now := time.Now().UTC()
	return Job{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobKey returns the Redis key holding the given job's record.
func JobKey(id string) string {
	return jobKeyPrefix + id
}

// Client wraps the Redis connection used by both producers and workers.
type Client struct {
	rdb     *redis.Client
	pending string
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Client{rdb: rdb, pending: DefaultPendingList}, nil
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Enqueue stores the job record and pushes its id onto the pending list.
func (c *Client) Enqueue(ctx context.Context, req model.PlacementRequest) (Job, error) {
	job := NewJob(req)
	if err := c.save(ctx, job); err != nil {
		return Job{}, err
	}
	if err := c.rdb.LPush(ctx, c.pending, job.ID).Err(); err != nil {
		return Job{}, fmt.Errorf("failed to enqueue job %s: %w", job.ID, err)
	}
	return job, nil
}

// Dequeue blocks up to timeout for a pending job, marks it PROCESSING and
// returns it. A nil job with nil error means the wait timed out.
func (c *Client) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := c.rdb.BRPop(ctx, timeout, c.pending).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop pending queue: %w", err)
	}
	// BRPop returns [list, value].
	job, err := c.Job(ctx, res[1])
	if err != nil {
		return nil, err
	}
	job.Status = StatusProcessing
	job.UpdatedAt = time.Now().UTC()
	if err := c.save(ctx, *job); err != nil {
		return nil, err
	}
	return job, nil
}

// Job loads a job record by id.
func (c *Client) Job(ctx context.Context, id string) (*Job, error) {
	data, err := c.rdb.Get(ctx, JobKey(id)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("job %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("job %s is corrupt: %w", id, err)
	}
	return &job, nil
}

// Complete attaches the engine output to the job and finalises its
// status: COMPLETED when every item was placed, FAILED otherwise. Stale
// results from an earlier attempt are overwritten.
func (c *Client) Complete(ctx context.Context, job *Job, out model.EngineOutput) error {
	job.Result = &out
	job.Status = FinalStatus(out)
	job.Error = out.Error
	job.UpdatedAt = time.Now().UTC()
	return c.save(ctx, *job)
}

// Fail marks a job FAILED with a processing error outside the engine
// (bad payload, storage trouble).
func (c *Client) Fail(ctx context.Context, job *Job, cause error) error {
	job.Status = StatusFailed
	job.Error = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	return c.save(ctx, *job)
}

func (c *Client) save(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}
	if err := c.rdb.Set(ctx, JobKey(job.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store job %s: %w", job.ID, err)
	}
	return nil
}

// FinalStatus maps an engine output onto the job's terminal status.
func FinalStatus(out model.EngineOutput) Status {
	if out.Success {
		return StatusCompleted
	}
	return StatusFailed
}
