package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// SafeBuffer is a mutex-guarded buffer shared by an App's output and its logger.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String returns everything written so far.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Fields splits the output into lines and each line into whitespace-separated
// fields, which makes tabwriter tables comparable regardless of padding.
func (b *SafeBuffer) Fields() [][]string {
	var out [][]string
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		out = append(out, strings.Fields(line))
	}
	return out
}
