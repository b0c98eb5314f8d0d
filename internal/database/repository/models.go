package repository

import "time"

// Entry represents a local_storage row.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
