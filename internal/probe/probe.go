// Package probe gathers static and near-static facts about the local
// machine — identity, capacity, and a coarse thermal reading — into a single
// MachineSnapshot. Acquisition is platform specific: Windows is probed
// through WMI and the registry, Linux through /proc, /sys, and a hardware
// dump command. Everything is best-effort; a probe never fails outright.
package probe

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlatformProbe fills the platform-specific fields of a MachineSnapshot.
// Implementations leave fields they cannot obtain at their zero values and
// never return an error.
type PlatformProbe interface {
	Fill(snap *MachineSnapshot)
}

// Collect probes the local host once and returns a fully assembled snapshot.
// It blocks until all platform sources have been consulted, which can take
// several seconds when external commands are involved.
func Collect() *MachineSnapshot {
	return CollectWith(newPlatformProbe())
}

// CollectWith assembles a snapshot using the given platform probe. The
// utilization counter is acquired first so its warm-up overlaps the rest of
// the probe; the counter is sampled last and may still read 0 if warm-up has
// not finished by then.
func CollectWith(p PlatformProbe) *MachineSnapshot {
	counter := AcquireUtilizationCounter()

	hostname, _ := os.Hostname()
	snap := &MachineSnapshot{
		SnapshotID:  uuid.NewString(),
		Hostname:    hostname,
		CollectedAt: time.Now().UTC(),
	}

	p.Fill(snap)

	snap.CPUUtilization = counter.Sample()
	return snap
}

// joinSorted collapses a multi-row query result into one stable string:
// values are trimmed, empties dropped, the rest sorted ascending,
// deduplicated, and joined with ",".
func joinSorted(vals []string) string {
	var kept []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	slices.Sort(kept)
	return strings.Join(slices.Compact(kept), ",")
}

// thermalZoneCelsius converts an ACPI thermal-zone reading, expressed in
// tenths of a kelvin, to degrees Celsius. Firmware encodings vary, so treat
// the result as a rough proxy rather than a calibrated sensor value.
func thermalZoneCelsius(raw int64) float64 {
	return float64(raw-2732) / 10
}
