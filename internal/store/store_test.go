package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "machsnap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(hostname string, collectedAt time.Time) *SnapshotRecord {
	return &SnapshotRecord{
		SnapshotID:   "b5c7a0f2-0000-0000-0000-000000000001",
		Hostname:     hostname,
		MachineGUID:  "8f3a2b1c4d5e6f70",
		HardwareUUID: "03000200-0400-0500-0006-000700080009",
		OSName:       "Debian GNU/Linux 12 (bookworm)",
		CollectedAt:  collectedAt,
		SnapshotJSON: `{"os_name":"Debian GNU/Linux 12 (bookworm)"}`,
	}
}

func TestInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord("host-a", time.Now().UTC())
	id, storedAt, err := s.Insert(ctx, rec)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.False(t, storedAt.IsZero())

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "host-a", got.Hostname)
	assert.Equal(t, rec.MachineGUID, got.MachineGUID)
	assert.Equal(t, rec.HardwareUUID, got.HardwareUUID)
	assert.Equal(t, rec.OSName, got.OSName)
	assert.Equal(t, rec.SnapshotJSON, got.SnapshotJSON)
	assert.WithinDuration(t, rec.CollectedAt, got.CollectedAt, time.Second)
}

func TestGetLatestByHostname(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, _, err := s.Insert(ctx, testRecord("host-a", now.Add(-2*time.Hour)))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, testRecord("host-a", now))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, testRecord("host-b", now.Add(time.Hour)))
	require.NoError(t, err)

	got, err := s.GetLatestByHostname(ctx, "host-a")
	require.NoError(t, err)
	assert.WithinDuration(t, now, got.CollectedAt, time.Second)
}

func TestListFilterAndPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		_, _, err := s.Insert(ctx, testRecord("host-a", now.Add(time.Duration(-i)*time.Hour)))
		require.NoError(t, err)
	}
	_, _, err := s.Insert(ctx, testRecord("host-b", now))
	require.NoError(t, err)

	records, total, err := s.List(ctx, ListFilter{Hostname: "host-a", PageSize: 2, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, records, 2)
	// Newest first; listings omit the JSON payload.
	assert.WithinDuration(t, now, records[0].CollectedAt, time.Second)
	assert.Empty(t, records[0].SnapshotJSON)

	records, total, err = s.List(ctx, ListFilter{Hostname: "host-a", PageSize: 2, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, records, 1)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.Insert(ctx, testRecord("host-a", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), sql.ErrNoRows)

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, _, err := s.Insert(ctx, testRecord("host-a", now.Add(-100*24*time.Hour)))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, testRecord("host-a", now))
	require.NoError(t, err)

	n, err := s.Purge(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, total, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
