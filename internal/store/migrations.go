package store

const createTableSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    snapshot_id    TEXT NOT NULL DEFAULT '',
    hostname       TEXT NOT NULL,
    machine_guid   TEXT NOT NULL DEFAULT '',
    hardware_uuid  TEXT NOT NULL DEFAULT '',
    os_name        TEXT NOT NULL DEFAULT '',
    collected_at   TEXT NOT NULL,
    stored_at      TEXT NOT NULL,
    snapshot_json  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_hostname ON snapshots(hostname);
CREATE INDEX IF NOT EXISTS idx_snapshots_machine_guid ON snapshots(machine_guid);
CREATE INDEX IF NOT EXISTS idx_snapshots_hardware_uuid ON snapshots(hardware_uuid);
CREATE INDEX IF NOT EXISTS idx_snapshots_collected_at ON snapshots(collected_at);
`
