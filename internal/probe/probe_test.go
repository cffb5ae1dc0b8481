package probe

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture creates a pseudo-file stand-in for tests.
func writeFixture(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestJoinSorted(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"duplicates removed and sorted", []string{"A", "A", "B"}, "A,B"},
		{"unsorted input", []string{"beta", "alpha"}, "alpha,beta"},
		{"whitespace trimmed", []string{" A ", "A"}, "A"},
		{"empties dropped", []string{"", "A", "  "}, "A"},
		{"nil input", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinSorted(tt.in))
		})
	}
}

func TestThermalZoneCelsius(t *testing.T) {
	assert.Equal(t, 100.0, thermalZoneCelsius(3732))
	assert.Equal(t, 25.0, thermalZoneCelsius(2982))
	assert.Equal(t, 0.0, thermalZoneCelsius(2732))
}

type fakeProbe struct {
	filled bool
}

func (f *fakeProbe) Fill(snap *MachineSnapshot) {
	f.filled = true
	snap.OSName = "Test OS"
	snap.TotalMemoryBytes = 4096
}

func TestCollectWith(t *testing.T) {
	fake := &fakeProbe{}
	snap := CollectWith(fake)

	require.NotNil(t, snap)
	assert.True(t, fake.filled)
	assert.Equal(t, "Test OS", snap.OSName)
	assert.Equal(t, uint64(4096), snap.TotalMemoryBytes)

	_, err := uuid.Parse(snap.SnapshotID)
	assert.NoError(t, err, "snapshot ID should be a UUID")

	hostname, _ := os.Hostname()
	assert.Equal(t, hostname, snap.Hostname)
	assert.WithinDuration(t, time.Now().UTC(), snap.CollectedAt, time.Minute)

	assert.GreaterOrEqual(t, snap.CPUUtilization, float32(0))
	assert.LessOrEqual(t, snap.CPUUtilization, float32(1))
}

func TestUtilizationCounterSampleBeforeWarmup(t *testing.T) {
	c := AcquireUtilizationCounter()
	// The measurement window is one second; an immediate sample reads 0.
	assert.Equal(t, float32(0), c.Sample())
}

func TestUtilizationCounterSampleAfterWarmup(t *testing.T) {
	c := AcquireUtilizationCounter()
	time.Sleep(1500 * time.Millisecond)

	got := c.Sample()
	assert.GreaterOrEqual(t, got, float32(0))
	assert.LessOrEqual(t, got, float32(1))
}
