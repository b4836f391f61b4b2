package storage

import (
	"errors"
	"fmt"
)

const (
	// RunsDir is the table holding the benchmark run reports.
	RunsDir = "runs"
)

var (
	// DefaultDir is the root of the file storage, adjustable for the tests.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key for a run artifact.
type Key struct {
	Run   string `json:"run"`
	Label string `json:"label"`
}

// Path returns the file name for the key.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%s.json", k.Label, k.Run)
}

// Persistence stores and loads values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
