package ml

import (
	"os"
	"sync"
)

var stdoutMutex = new(sync.Mutex)

// muted runs fn with os.Stdout pointing at os.Stderr.
// golearn and goml print their progress on stdout, which only carries the report.
func muted(fn func() error) error {
	stdoutMutex.Lock()
	defer stdoutMutex.Unlock()

	stdout := os.Stdout
	os.Stdout = os.Stderr
	defer func() {
		os.Stdout = stdout
	}()
	return fn()
}
