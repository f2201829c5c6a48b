package syncer

import (
	"fmt"
	"sync"
	"time"
)

// Trail is the user-visible operation log for one sync or fetch. Lines
// are timestamped at emission, so concurrent platforms interleave in
// causal order instead of being batched per platform.
type Trail struct {
	mu    sync.Mutex
	now   func() time.Time
	lines []string
}

func NewTrail() *Trail {
	return &Trail{now: time.Now}
}

func (t *Trail) Logf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	line := t.now().UTC().Format(time.RFC3339) + " " + fmt.Sprintf(format, args...)
	t.lines = append(t.lines, line)
}

// Lines returns a copy in emission order.
func (t *Trail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}
