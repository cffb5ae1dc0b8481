package convert

import (
	"encoding/json"
	"fmt"

	"github.com/go-tangra/go-tangra-machsnap/internal/probe"
	"github.com/go-tangra/go-tangra-machsnap/internal/store"
)

// SnapshotToRecord converts a machine snapshot to a store record, embedding
// the full snapshot as JSON alongside the indexed identity columns.
func SnapshotToRecord(snap *probe.MachineSnapshot) (*store.SnapshotRecord, error) {
	jsonBytes, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot to JSON: %w", err)
	}

	return &store.SnapshotRecord{
		SnapshotID:   snap.SnapshotID,
		Hostname:     snap.Hostname,
		MachineGUID:  snap.MachineGUID,
		HardwareUUID: snap.HardwareUUID,
		OSName:       snap.OSName,
		CollectedAt:  snap.CollectedAt,
		SnapshotJSON: string(jsonBytes),
	}, nil
}

// RecordToSnapshot converts a store record back to a machine snapshot.
func RecordToSnapshot(rec *store.SnapshotRecord) (*probe.MachineSnapshot, error) {
	var snap probe.MachineSnapshot
	if err := json.Unmarshal([]byte(rec.SnapshotJSON), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot JSON: %w", err)
	}
	return &snap, nil
}
