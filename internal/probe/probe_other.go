//go:build !linux && !windows

package probe

// stubProbe serves platforms without a dedicated acquisition path: the
// snapshot keeps its identity fields and everything platform-specific stays
// at its zero value.
type stubProbe struct{}

func newPlatformProbe() PlatformProbe { return stubProbe{} }

func (stubProbe) Fill(*MachineSnapshot) {}
