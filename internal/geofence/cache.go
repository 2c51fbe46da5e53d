package geofence

import (
	"context"
	"sync"
	"time"

	"geo-attendance/internal/model"
)

// CachedDirectory memoizes another directory for ttl. Failed fetches are
// not cached. A ttl <= 0 fetches on every call.
type CachedDirectory struct {
	next Directory
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	offices   []model.Office
	fetchedAt time.Time
	valid     bool
}

func NewCachedDirectory(next Directory, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{next: next, ttl: ttl, now: time.Now}
}

func (c *CachedDirectory) Offices(ctx context.Context) ([]model.Office, error) {
	if c.ttl <= 0 {
		return c.next.Offices(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.offices, nil
	}

	offices, err := c.next.Offices(ctx)
	if err != nil {
		return nil, err
	}
	c.offices = offices
	c.fetchedAt = c.now()
	c.valid = true
	return offices, nil
}

// Invalidate drops the cached list so the next call refetches.
func (c *CachedDirectory) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
