package probe

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCachedGetProbesOnce(t *testing.T) {
	var calls atomic.Int32
	c := &Cached{Probe: func() *MachineSnapshot {
		calls.Add(1)
		return &MachineSnapshot{SnapshotID: "snap-1"}
	}}

	first := c.Get()
	second := c.Get()

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCachedRefreshProbesAgain(t *testing.T) {
	var calls atomic.Int32
	c := &Cached{Probe: func() *MachineSnapshot {
		calls.Add(1)
		return &MachineSnapshot{}
	}}

	c.Get()
	refreshed := c.Refresh()

	assert.Equal(t, int32(2), calls.Load())
	assert.Same(t, refreshed, c.Get())
}

func TestCachedConcurrentGetsShareOneProbe(t *testing.T) {
	var calls atomic.Int32
	c := &Cached{Probe: func() *MachineSnapshot {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return &MachineSnapshot{SnapshotID: "shared"}
	}}

	var wg sync.WaitGroup
	results := make([]*MachineSnapshot, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Get()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, snap := range results {
		assert.Equal(t, "shared", snap.SnapshotID)
	}
}
