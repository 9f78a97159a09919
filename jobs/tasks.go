package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCacheWarmup repopulates cached page data after an invalidation.
	TaskCacheWarmup = "cache:warmup"
)

// CacheWarmupPayload names the page path to warm.
type CacheWarmupPayload struct {
	Path  string `json:"path"`
	Pages int    `json:"pages,omitempty"`
}

// NewCacheWarmupTask constructs an Asynq task.
func NewCacheWarmupTask(payload CacheWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheWarmup, data), nil
}
