package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Item represents a task mutation that should be replayed once the primary
// store is reachable again.
type Item struct {
	ID        string          `json:"id"`
	Owner     string          `json:"owner"`
	TaskID    int64           `json:"task_id"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
