package sim

import (
	"strings"
	"sync"
)

// LogBuffer keeps the last few lines written to it. It is the console
// writer of the simulator's logger.
type LogBuffer struct {
	mu    sync.Mutex
	size  int
	lines []string
}

// NewLogBuffer keeps up to size lines.
func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{size: size}
}

// Write splits p into lines and appends them.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		b.lines = append(b.lines, l)
	}
	if len(b.lines) > b.size {
		b.lines = b.lines[len(b.lines)-b.size:]
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}
