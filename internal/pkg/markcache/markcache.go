// Package markcache remembers which users already marked attendance for the current local day.
package markcache

import (
	"sync"
	"time"
)

type entry struct {
	date      string
	expiresAt time.Time
}

// Cache holds one entry per user. An entry expires at the first local midnight after it was set.
type Cache struct {
	mu      sync.RWMutex
	loc     *time.Location
	entries map[string]entry
}

func New(loc *time.Location) *Cache {
	if loc == nil {
		loc = time.UTC
	}
	return &Cache{
		loc:     loc,
		entries: make(map[string]entry),
	}
}

// NextMidnight returns the start of the local day following now.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

func (c *Cache) MarkToday(userID string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = entry{
		date:      now.In(c.loc).Format("2006-01-02"),
		expiresAt: NextMidnight(now, c.loc),
	}
}

func (c *Cache) MarkedToday(userID string, now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[userID]
	if !ok {
		return false
	}
	return now.Before(e.expiresAt) && e.date == now.In(c.loc).Format("2006-01-02")
}

func (c *Cache) Forget(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache) Purge(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
