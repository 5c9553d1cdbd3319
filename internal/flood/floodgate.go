// Package flood limits how often a single owner may call an expensive
// operation such as the assistant.
package flood

import (
	"sync"
	"time"
)

const (
	// window is the sliding window every limit is expressed in.
	window = time.Minute
	// cleanupInterval is how often idle owners are forgotten.
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long an owner may stay silent before being forgotten.
	idleTimeout = 10 * time.Minute
)

// Floodgate is a per-owner sliding window rate limiter.
type Floodgate struct {
	limitPerMinute int
	entries        map[string]*ownerEntry
	mutex          sync.Mutex
	now            func() time.Time
	stopCleanup    chan struct{}
	stopOnce       sync.Once
}

type ownerEntry struct {
	calls    []time.Time
	lastSeen time.Time
}

// New creates a Floodgate admitting limitPerMinute calls per owner. A
// non-positive limit admits everything.
func New(limitPerMinute int) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		entries:        make(map[string]*ownerEntry),
		now:            time.Now,
		stopCleanup:    make(chan struct{}),
	}

	go fg.cleanup()

	return fg
}

// Stop ends the background cleanup. It is safe to call more than once.
func (fg *Floodgate) Stop() {
	fg.stopOnce.Do(func() { close(fg.stopCleanup) })
}

// Allow records a call by ownerID and reports whether it is admitted. When
// it is not, retryAfter is how long until the oldest call leaves the window.
func (fg *Floodgate) Allow(ownerID string) (allowed bool, retryAfter time.Duration) {
	if fg.limitPerMinute <= 0 {
		return true, 0
	}

	now := fg.now()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	entry, exists := fg.entries[ownerID]
	if !exists {
		entry = &ownerEntry{calls: make([]time.Time, 0, fg.limitPerMinute+1)}
		fg.entries[ownerID] = entry
	}
	entry.lastSeen = now

	windowStart := now.Add(-window)
	kept := entry.calls[:0]
	for _, ts := range entry.calls {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	entry.calls = kept

	if len(entry.calls) >= fg.limitPerMinute {
		return false, entry.calls[0].Add(window).Sub(now)
	}

	entry.calls = append(entry.calls, now)
	return true, 0
}

func (fg *Floodgate) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.forgetIdle()
		case <-fg.stopCleanup:
			return
		}
	}
}

func (fg *Floodgate) forgetIdle() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for owner, entry := range fg.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(fg.entries, owner)
		}
	}
}

// Stats returns the current limiter state.
func (fg *Floodgate) Stats() Stats {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	return Stats{
		ActiveOwners:   len(fg.entries),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(window.Seconds()),
	}
}

type Stats struct {
	ActiveOwners   int `json:"activeOwners"`
	LimitPerMinute int `json:"limitPerMinute"`
	WindowSeconds  int `json:"windowSeconds"`
}
