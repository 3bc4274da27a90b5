package chat

import (
	"sync"
	"time"
)

// Dedup prevents duplicate message processing using a TTL cache.
// The client store uses it to drop the relay echo of its own sends.
// Close releases the background cleanup when the owner goes away.
type Dedup struct {
	mu        sync.Mutex
	cache     map[string]time.Time
	ttl       time.Duration
	stop      chan struct{}
	closeOnce sync.Once
}

func NewDedup(ttl time.Duration) *Dedup {
	d := &Dedup{
		cache: make(map[string]time.Time),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go d.cleanupLoop()
	return d
}

// Seen returns true if this message ID was recorded recently.
// If not, records it and returns false.
func (d *Dedup) Seen(id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.cache[id]; exists {
		return true
	}
	d.cache[id] = time.Now()
	return false
}

// Close stops the cleanup loop. Safe to call more than once; Seen keeps
// working afterwards, entries just stop expiring.
func (d *Dedup) Close() {
	d.closeOnce.Do(func() { close(d.stop) })
}

func (d *Dedup) cleanupLoop() {
	ticker := time.NewTicker(d.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.mu.Lock()
			cutoff := time.Now().Add(-d.ttl)
			for k, t := range d.cache {
				if t.Before(cutoff) {
					delete(d.cache, k)
				}
			}
			d.mu.Unlock()
		}
	}
}
