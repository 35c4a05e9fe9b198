package dedup

import (
	"sync"
	"time"
)

// Deduper remembers ids for a TTL so that QoS 1 redeliveries are processed once.
type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	max  int
	now  func() time.Time
	seen map[string]time.Time // id -> expiry
}

func New(ttl time.Duration, max int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 10000
	}
	return &Deduper{ttl: ttl, max: max, now: time.Now, seen: make(map[string]time.Time)}
}

// ShouldProcess returns false when id was already seen within the TTL.
// Empty ids are never deduplicated.
func (d *Deduper) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return false
	}
	if len(d.seen) >= d.max {
		d.evict(now)
	}
	d.seen[id] = now.Add(d.ttl)
	return true
}

// evict drops expired ids; if the map is still full it drops the id closest
// to expiry.
func (d *Deduper) evict(now time.Time) {
	var (
		oldestID  string
		oldestExp time.Time
	)
	for id, exp := range d.seen {
		if !now.Before(exp) {
			delete(d.seen, id)
			continue
		}
		if oldestID == "" || exp.Before(oldestExp) {
			oldestID, oldestExp = id, exp
		}
	}
	if len(d.seen) >= d.max && oldestID != "" {
		delete(d.seen, oldestID)
	}
}

// Len is the number of remembered ids.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Forget removes id so that a redelivery is processed again.
func (d *Deduper) Forget(id string) {
	d.mu.Lock()
	delete(d.seen, id)
	d.mu.Unlock()
}
