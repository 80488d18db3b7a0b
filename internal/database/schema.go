package database

// Schema is the single source of truth for the store layout.
// Strategies and constraints are read-only inputs at optimization time;
// decision_packages holds built packages as msgpack blobs for retrieval
// and retention pruning.
const Schema = `
CREATE TABLE IF NOT EXISTS strategies (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    category           TEXT NOT NULL,
    risk_reduction_pct REAL NOT NULL,
    cost_estimate      REAL NOT NULL,
    cost_min           REAL,
    cost_max           REAL,
    time_estimate_days INTEGER NOT NULL,
    time_min_days      INTEGER,
    time_max_days      INTEGER,
    applicability      TEXT NOT NULL DEFAULT '[]',
    approval_level     TEXT NOT NULL DEFAULT '',
    disruption_level   TEXT NOT NULL DEFAULT 'low',
    created_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
    updated_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);

CREATE INDEX IF NOT EXISTS idx_strategies_category ON strategies(category);

CREATE TABLE IF NOT EXISTS constraints (
    name             TEXT PRIMARY KEY,
    kind             TEXT NOT NULL,
    scope            TEXT NOT NULL,
    min_value        REAL,
    max_value        REAL,
    target           REAL NOT NULL DEFAULT 0,
    penalty_per_unit REAL NOT NULL DEFAULT 0,
    created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);

CREATE TABLE IF NOT EXISTS decision_packages (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    risk_score REAL NOT NULL,
    budget     REAL NOT NULL,
    payload    BLOB NOT NULL,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);

CREATE INDEX IF NOT EXISTS idx_decision_packages_created ON decision_packages(created_at);
`
