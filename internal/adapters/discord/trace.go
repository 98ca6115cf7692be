package discord

import (
	"log"
	"time"
)

// Handlers that stay under this are the normal database-only ones;
// anything slower probably went out to the tournament API.
const slowThreshold = 2 * time.Second

func timed(name string) func() {
	start := time.Now()
	return func() {
		if d := time.Since(start); d > slowThreshold {
			log.Printf("[discord] slow /%s: %s", name, d)
		}
	}
}
