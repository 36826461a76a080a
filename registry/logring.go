package registry

import "sync"

// logRingCap is the maximum number of retained output lines per process,
// oldest-first eviction, per spec.
const logRingCap = 1000

// LogRing is a bounded, FIFO, concurrency-safe ring of recent output
// lines for a single process.
type LogRing struct {
	mu    sync.Mutex
	lines []string
	start int
}

// Append adds line to the ring, evicting the oldest line if the ring is
// already at capacity.
func (r *LogRing) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.lines) < logRingCap {
		r.lines = append(r.lines, line)
		return
	}

	r.lines[r.start] = line
	r.start = (r.start + 1) % logRingCap
}

// Lines returns a copy of the retained lines, oldest first.
func (r *LogRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.lines))
	for i := range out {
		out[i] = r.lines[(r.start+i)%len(r.lines)]
	}

	return out
}

// Len returns the number of retained lines.
func (r *LogRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.lines)
}
