package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/domain/schedule"
)

type entry struct {
	slots    []schedule.FreeSlot
	storedAt time.Time
}

// Availability caches each doctor's free-slot listing for a fixed TTL. An
// expired entry is treated as absent and removed on the next read. Writers
// that touch a doctor's slot set must call Evict before returning, so reads
// never observe a listing older than the last write.
type Availability struct {
	cache *lru.Cache[uuid.UUID, *entry]
	ttl   time.Duration
	mu    sync.RWMutex
	log   *zap.Logger

	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewAvailability(size int, ttl time.Duration, log *zap.Logger) (*Availability, error) {
	c, err := lru.New[uuid.UUID, *entry](size)
	if err != nil {
		return nil, err
	}
	return &Availability{cache: c, ttl: ttl, log: log}, nil
}

// WithMetrics attaches hit/miss counters. Safe to skip in tests.
func (a *Availability) WithMetrics(hits, misses prometheus.Counter) *Availability {
	a.hits = hits
	a.misses = misses
	return a
}

// Get returns the cached free-slot listing for the doctor, if present and
// within the TTL. The returned slice is a copy; callers may not mutate cache
// state through it.
func (a *Availability) Get(doctorID uuid.UUID) ([]schedule.FreeSlot, bool) {
	a.mu.RLock()
	e, ok := a.cache.Get(doctorID)
	a.mu.RUnlock()

	if ok && time.Since(e.storedAt) <= a.ttl {
		if a.hits != nil {
			a.hits.Inc()
		}
		out := make([]schedule.FreeSlot, len(e.slots))
		copy(out, e.slots)
		return out, true
	}

	if ok {
		a.mu.Lock()
		a.cache.Remove(doctorID)
		a.mu.Unlock()
		a.log.Debug("availability cache entry expired", zap.String("doctor_id", doctorID.String()))
	}
	if a.misses != nil {
		a.misses.Inc()
	}
	return nil, false
}

func (a *Availability) Put(doctorID uuid.UUID, slots []schedule.FreeSlot) {
	stored := make([]schedule.FreeSlot, len(slots))
	copy(stored, slots)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Add(doctorID, &entry{slots: stored, storedAt: time.Now()})
}

func (a *Availability) Evict(doctorID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Remove(doctorID)
}
