package drape

import (
	"fmt"
	"os"
	"time"
)

// stepStats holds per-tick timing. Only populated when debug is on.
type stepStats struct {
	springTime    time.Duration
	integrateTime time.Duration
	warnedFinite  bool
}

// debugLogEvery limits timing output to one line per this many ticks.
const debugLogEvery = 60

// SetDebug enables per-tick timing output on stderr and a one-time warning
// when a vertex position stops being finite.
func (c *Cloth) SetDebug(enabled bool) {
	c.debug = enabled
}

// debugLog prints timing stats to stderr.
func (c *Cloth) debugLog() {
	if c.tick%debugLogEvery != 0 {
		return
	}
	s := c.stats
	_, _ = fmt.Fprintf(os.Stderr,
		"[drape] tick %d | springs: %v | integrate: %v | total: %v\n",
		c.tick, s.springTime, s.integrateTime, s.springTime+s.integrateTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[drape] vertices: %d | springs: %d | pinned: %d | workers: %d\n",
		len(c.Vertices), len(c.Springs), c.PinnedCount(), c.Config.Workers)
}

// debugCheckFinite warns once when the integrator has diverged. Divergence
// is not an error; it means dt or stiffness is too large for explicit
// integration.
func (c *Cloth) debugCheckFinite() {
	if c.stats.warnedFinite {
		return
	}
	for i := range c.Vertices {
		if !c.Vertices[i].Position.IsFinite() {
			c.stats.warnedFinite = true
			_, _ = fmt.Fprintf(os.Stderr,
				"[drape] warning: vertex %d diverged at tick %d (dt or stiffness too large)\n",
				i, c.tick)
			return
		}
	}
}
