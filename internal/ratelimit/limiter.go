package ratelimit

import (
	"sync"
	"time"

	"github.com/arjunmehta31/forkcast/internal/config"
)

// quota tracks the sliding minute/hour/day counters for one provider.
// Window rollover is computed lazily on each call, no background timer.
type quota struct {
	minuteStart time.Time
	hourStart   time.Time
	dayStart    time.Time
	countMinute int
	countHour   int
	countDay    int
}

// Snapshot is a read-only view of one provider's counters, used by the
// admin limits endpoint.
type Snapshot struct {
	Provider    string `json:"provider"`
	CountMinute int    `json:"count_minute"`
	CountHour   int    `json:"count_hour"`
	CountDay    int    `json:"count_day"`
	PerMinute   int    `json:"limit_per_minute"`
	PerHour     int    `json:"limit_per_hour"`
	PerDay      int    `json:"limit_per_day"`
}

// Limiter gates outbound provider calls against per-provider ceilings.
// State is process-lifetime only and protected by a single mutex; provider
// fan-out goroutines share nothing else.
type Limiter struct {
	mu     sync.Mutex
	limits map[string]config.ProviderLimits
	quotas map[string]*quota
	now    func() time.Time
}

// NewLimiter creates a limiter with the given per-provider ceilings
func NewLimiter(limits map[string]config.ProviderLimits) *Limiter {
	return &Limiter{
		limits: limits,
		quotas: make(map[string]*quota),
		now:    time.Now,
	}
}

// SetClock overrides the time source (tests only)
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// TryAcquire admits or rejects one call for the provider. If any ceiling is
// currently met it returns false without side effects; otherwise it
// increments all three counters and returns true. A denied provider is
// skipped for the current request, never waited on.
func (l *Limiter) TryAcquire(providerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limits, ok := l.limits[providerID]
	if !ok {
		// Unknown providers are not limited
		return true
	}

	now := l.now()
	q := l.quotas[providerID]
	if q == nil {
		q = &quota{minuteStart: now, hourStart: now, dayStart: now}
		l.quotas[providerID] = q
	}

	l.rollover(q, now)

	if limits.PerMinute > 0 && q.countMinute >= limits.PerMinute {
		return false
	}
	if limits.PerHour > 0 && q.countHour >= limits.PerHour {
		return false
	}
	if limits.PerDay > 0 && q.countDay >= limits.PerDay {
		return false
	}

	q.countMinute++
	q.countHour++
	q.countDay++
	return true
}

// rollover resets any counter whose window has elapsed
func (l *Limiter) rollover(q *quota, now time.Time) {
	if now.Sub(q.minuteStart) >= time.Minute {
		q.minuteStart = now
		q.countMinute = 0
	}
	if now.Sub(q.hourStart) >= time.Hour {
		q.hourStart = now
		q.countHour = 0
	}
	if now.Sub(q.dayStart) >= 24*time.Hour {
		q.dayStart = now
		q.countDay = 0
	}
}

// Snapshots returns the current counters for every configured provider
func (l *Limiter) Snapshots() []Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	snaps := make([]Snapshot, 0, len(l.limits))
	for id, limits := range l.limits {
		s := Snapshot{
			Provider:  id,
			PerMinute: limits.PerMinute,
			PerHour:   limits.PerHour,
			PerDay:    limits.PerDay,
		}
		if q := l.quotas[id]; q != nil {
			l.rollover(q, now)
			s.CountMinute = q.countMinute
			s.CountHour = q.countHour
			s.CountDay = q.countDay
		}
		snaps = append(snaps, s)
	}
	return snaps
}
