package discord

import (
	"sync"
	"time"
)

// cooldown throttles slash commands per user. Expired entries are swept
// lazily so a long-lived process does not keep one map entry per user
// it has ever seen.
type cooldown struct {
	mu    sync.Mutex
	until map[string]time.Time
	win   time.Duration
	sweep time.Time
}

func newCooldown(window time.Duration) *cooldown {
	return &cooldown{until: map[string]time.Time{}, win: window}
}

func (c *cooldown) Allow(userID string) bool {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.After(c.sweep) {
		for id, t := range c.until {
			if now.After(t) {
				delete(c.until, id)
			}
		}
		c.sweep = now.Add(time.Minute)
	}
	if t, ok := c.until[userID]; ok && now.Before(t) {
		return false
	}
	c.until[userID] = now.Add(c.win)
	return true
}
