// Package db persists interview-analyzer preferences in SQLite.
package db

import "time"

// Preferences holds the last-used run settings restored on start.
type Preferences struct {
	Model        string
	ChunkMinutes int
	UpdatedAt    time.Time
}

// Preference keys in the preferences table.
const (
	keyModel        = "model"
	keyChunkMinutes = "chunk_minutes"
)
