package repository

import "time"

// Snapshot is one stored key/value row.
type Snapshot struct {
	Key       string
	Payload   []byte
	UpdatedAt time.Time
}
