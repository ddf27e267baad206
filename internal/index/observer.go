package index

import (
	"sync"
	"time"
)

const defaultProgressInterval = 150 * time.Millisecond

// Observer receives the growing entry sequence while a scan runs. The slice is a
// prefix of the final result and must not be modified.
type Observer interface {
	ScanProgress(entries []Entry)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(entries []Entry)

// ScanProgress calls f.
func (f ObserverFunc) ScanProgress(entries []Entry) {
	f(entries)
}

// ThrottledObserver forwards progress at most once per interval, except for the
// first few entries which are always forwarded so partial results show up at once.
// Flush forwards whatever was seen last.
type ThrottledObserver struct {
	next      Observer
	interval  time.Duration
	immediate int
	clock     func() time.Time

	mu           sync.Mutex
	lastEmit     time.Time
	lastReported int
	latest       []Entry
}

// NewThrottledObserver wraps next. A non-positive interval uses the default.
func NewThrottledObserver(next Observer, interval time.Duration) *ThrottledObserver {
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	return &ThrottledObserver{
		next:      next,
		interval:  interval,
		immediate: 64,
		clock:     time.Now,
	}
}

func (t *ThrottledObserver) withClock(clock func() time.Time) *ThrottledObserver {
	t.clock = clock
	return t
}

// ScanProgress implements Observer.
func (t *ThrottledObserver) ScanProgress(entries []Entry) {
	t.mu.Lock()
	t.latest = entries
	count := len(entries)
	if count <= t.lastReported {
		t.mu.Unlock()
		return
	}
	now := t.clock()
	emit := count <= t.immediate || now.Sub(t.lastEmit) >= t.interval
	if emit {
		t.lastEmit = now
		t.lastReported = count
	}
	t.mu.Unlock()

	if emit && t.next != nil {
		t.next.ScanProgress(entries)
	}
}

// Flush forwards the latest sequence if it was not reported yet.
func (t *ThrottledObserver) Flush() {
	t.mu.Lock()
	entries := t.latest
	pending := len(entries) > t.lastReported
	if pending {
		t.lastReported = len(entries)
		t.lastEmit = t.clock()
	}
	t.mu.Unlock()

	if pending && t.next != nil {
		t.next.ScanProgress(entries)
	}
}
