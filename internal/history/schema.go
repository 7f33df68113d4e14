// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// Schema creates the ledger tables.
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- One row per pipeline run that reached the publish step
CREATE TABLE IF NOT EXISTS exports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,  -- UUID of the run
    source TEXT NOT NULL,         -- Export file that was read
    name TEXT NOT NULL,           -- Conversation name
    kind TEXT NOT NULL,           -- personal, group
    period TEXT NOT NULL,         -- dd.mm.yyyy — dd.mm.yyyy
    path TEXT NOT NULL,           -- Artifact path
    status TEXT NOT NULL,         -- created, exists
    messages INTEGER NOT NULL,
    pages INTEGER NOT NULL,
    created_at INTEGER NOT NULL   -- Unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at);
CREATE INDEX IF NOT EXISTS idx_exports_path ON exports(path);
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
