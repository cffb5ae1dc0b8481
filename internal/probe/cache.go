package probe

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cached is a caller-owned holder for the most recent snapshot. A probe takes
// seconds, so Get serves the stored result once one exists and concurrent
// misses share a single in-flight probe. The zero value is ready to use and
// probes with Collect; set Probe to substitute another source.
type Cached struct {
	Probe func() *MachineSnapshot

	group singleflight.Group
	mu    sync.RWMutex
	snap  *MachineSnapshot
}

// Get returns the cached snapshot, probing first if none has been taken yet.
func (c *Cached) Get() *MachineSnapshot {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil {
		return snap
	}
	return c.Refresh()
}

// Refresh probes the host again and replaces the cached snapshot. Concurrent
// callers piggyback on the same probe and receive the same result.
func (c *Cached) Refresh() *MachineSnapshot {
	v, _, _ := c.group.Do("probe", func() (any, error) {
		probe := c.Probe
		if probe == nil {
			probe = Collect
		}
		snap := probe()

		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()
		return snap, nil
	})
	return v.(*MachineSnapshot)
}
