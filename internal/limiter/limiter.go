// Package limiter restricts which visited scalars reach a consumer: skip the
// first N, keep at most N, or keep only the last N.
package limiter

import (
	"fmt"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Emit only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Emit only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}

	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}

	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

type record struct {
	path  *walk.Key
	value tree.Scalar
}

// Window applies a Config to a stream of visits and forwards the survivors
// to the next visitor. A Window is single-use and not safe for concurrent
// use.
type Window struct {
	cfg     Config
	next    walk.Visitor
	seen    int
	emitted int
	stopped bool

	// ring buffer of the last cfg.Tail records
	ring  []record
	start int
}

// NewWindow returns a Window forwarding to next.
func NewWindow(cfg Config, next walk.Visitor) *Window {
	w := &Window{cfg: cfg, next: next}
	if cfg.Tail > 0 {
		w.ring = make([]record, 0, cfg.Tail)
	}
	return w
}

// Visit is a walk.Visitor. It returns false once the limit has been reached
// or the next visitor asked to stop, which ends the walk early.
func (w *Window) Visit(path *walk.Key, value tree.Scalar) bool {
	if w.stopped {
		return false
	}
	w.seen++

	if w.cfg.Tail > 0 {
		w.push(record{path: path, value: value})
		return true
	}

	if w.seen <= w.cfg.Offset {
		return true
	}
	if !w.emit(path, value) {
		return false
	}
	if w.cfg.Limit > 0 && w.emitted >= w.cfg.Limit {
		w.stopped = true
		return false
	}
	return true
}

// Flush forwards the buffered tail records, oldest first. It is a no-op when
// Tail is not set. It returns false if the next visitor stopped.
func (w *Window) Flush() bool {
	if w.cfg.Tail == 0 {
		return !w.stopped
	}
	n := len(w.ring)
	for i := 0; i < n; i++ {
		r := w.ring[(w.start+i)%n]
		if !w.emit(r.path, r.value) {
			w.ring = w.ring[:0]
			return false
		}
	}
	w.ring = w.ring[:0]
	w.start = 0
	return true
}

// Seen is the number of records offered to the window.
func (w *Window) Seen() int { return w.seen }

// Emitted is the number of records forwarded to the next visitor.
func (w *Window) Emitted() int { return w.emitted }

// LimitReached reports whether the window stopped the walk because Limit
// records were emitted.
func (w *Window) LimitReached() bool {
	return w.cfg.Limit > 0 && w.emitted >= w.cfg.Limit
}

func (w *Window) emit(path *walk.Key, value tree.Scalar) bool {
	w.emitted++
	if !w.next(path, value) {
		w.stopped = true
		return false
	}
	return true
}

func (w *Window) push(r record) {
	if len(w.ring) < w.cfg.Tail {
		w.ring = append(w.ring, r)
		return
	}
	w.ring[w.start] = r
	w.start = (w.start + 1) % w.cfg.Tail
}
