package probe

import "time"

// MachineSnapshot is the unified result of a single probe of the local host.
// Every field is best-effort: a data point that could not be obtained is left
// at its zero value rather than reported as an error, so a probe always
// yields a (possibly sparse) snapshot. The snapshot is immutable once
// returned and cheap to cache; acquisition itself can take seconds.
type MachineSnapshot struct {
	SnapshotID  string    `json:"snapshot_id"`
	Hostname    string    `json:"hostname"`
	CollectedAt time.Time `json:"collected_at"`

	OSName          string `json:"os_name"`
	OSVersion       string `json:"os_version"`
	ProcessorModel  string `json:"processor_model"`
	ProcessorSerial string `json:"processor_serial,omitempty"`
	HardwareUUID    string `json:"hardware_uuid,omitempty"`
	MachineGUID     string `json:"machine_guid,omitempty"`

	TotalMemoryBytes     uint64 `json:"total_memory_bytes"`
	AvailableMemoryBytes uint64 `json:"available_memory_bytes"`

	// CPUUtilization is an instantaneous sample in [0,1]; it reads as 0
	// when sampled before the utilization counter finished warming up.
	CPUUtilization float32 `json:"cpu_utilization"`

	// TemperatureCelsius is a rough proxy reading from whatever thermal
	// source the platform exposes, 0 when none is available.
	TemperatureCelsius float64 `json:"temperature_celsius"`
}
