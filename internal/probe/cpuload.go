package probe

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// UtilizationCounter exposes the host's CPU utilization as a fraction in
// [0,1]. A utilization reading needs a measurement interval, so acquiring a
// counter only starts the warm-up; Sample reports 0 until warm-up completes.
// Callers that need a guaranteed reading should wait and sample again.
type UtilizationCounter struct {
	done chan struct{}
	frac float32
}

// AcquireUtilizationCounter returns immediately and measures utilization
// over a one-second window on its own goroutine.
func AcquireUtilizationCounter() *UtilizationCounter {
	c := &UtilizationCounter{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		pct, err := cpu.Percent(time.Second, false)
		if err != nil || len(pct) == 0 {
			return
		}
		c.frac = float32(min(max(pct[0]/100, 0), 1))
	}()
	return c
}

// Sample returns the measured utilization fraction, or 0 while the warm-up
// window is still open.
func (c *UtilizationCounter) Sample() float32 {
	select {
	case <-c.done:
		return c.frac
	default:
		return 0
	}
}
