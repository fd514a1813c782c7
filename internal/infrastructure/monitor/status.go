package monitor

import "time"

// Status is a point-in-time snapshot of the service dependencies: the task
// table, the session store, and the write-behind buffer.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether both stateful dependencies are reachable.
func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis
}
