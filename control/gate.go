package control

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Gate is a polling timer. It opens once the interval has elapsed since it
// last opened and restarts from the time it was polled, so a late poll
// delays every following cycle.
type Gate struct {
	clock    clockwork.Clock
	interval time.Duration
	last     time.Time
}

func NewGate(clock clockwork.Clock, interval time.Duration) *Gate {
	return &Gate{
		clock:    clock,
		interval: interval,
		last:     clock.Now(),
	}
}

func (g *Gate) Ready() bool {
	now := g.clock.Now()
	if now.Sub(g.last) < g.interval {
		return false
	}
	g.last = now
	return true
}
