package driver

import "time"

// Status reports the state of one pass in the pipeline.
type Status uint8

const (
	// StatusRunning marks a pass that has started.
	StatusRunning Status = iota
	// StatusDone marks a pass that finished successfully.
	StatusDone
	// StatusFailed marks a pass that returned an error.
	StatusFailed
)

// Event is one pipeline progress notification.
type Event struct {
	Pass    string
	Index   int
	Total   int
	Status  Status
	Elapsed time.Duration
	Err     string
}
