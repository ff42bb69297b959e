package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
const Schema = `
-- History records table
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,
    request_id TEXT NOT NULL,

    -- Routing outcome
    operation TEXT NOT NULL,
    requested_provider TEXT,
    actual_provider TEXT,
    model TEXT,
    status TEXT NOT NULL,
    failure_cause TEXT,
    attempts INTEGER NOT NULL DEFAULT 0,

    -- Exchange sizing
    prompt_chars INTEGER NOT NULL DEFAULT 0,
    response_chars INTEGER NOT NULL DEFAULT 0,
    latency_ms INTEGER NOT NULL DEFAULT 0
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp);
CREATE INDEX IF NOT EXISTS idx_history_operation ON history(operation);
CREATE INDEX IF NOT EXISTS idx_history_actual_provider ON history(actual_provider);
CREATE INDEX IF NOT EXISTS idx_history_status ON history(status);
CREATE INDEX IF NOT EXISTS idx_history_request_id ON history(request_id);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
