package sqlite

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens (or creates) the single-file database artifact and applies
// the schema. Everything the system persists lives in this one file; the
// similarity index is rebuilt from it at startup.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
PRAGMA journal_mode=WAL;
PRAGMA synchronous=NORMAL;
PRAGMA busy_timeout=5000;
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS nodes (
    id           TEXT PRIMARY KEY,
    kind         TEXT NOT NULL,
    title        TEXT NOT NULL,
    content      TEXT NOT NULL,
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL,

    -- module variant
    intentions     TEXT,
    priority       INTEGER,
    research_depth INTEGER,
    active         INTEGER,
    declared_at    TEXT,

    -- internal/leaf variant
    status       TEXT,
    source       TEXT,
    confidence   REAL,
    purpose      TEXT,
    source_type  TEXT,
    valence      TEXT,
    valid_from   TEXT,
    valid_to     TEXT,
    recorded_at  TEXT,
    suggested_at TEXT,

    -- organization variant
    org_kind TEXT
);

CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);

CREATE TABLE IF NOT EXISTS edges (
    id         TEXT PRIMARY KEY,
    from_id    TEXT NOT NULL,
    to_id      TEXT NOT NULL,
    edge_type  TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'confirmed',
    confidence REAL NOT NULL DEFAULT 1.0,
    rationale  TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (from_id) REFERENCES nodes(id),
    FOREIGN KEY (to_id)   REFERENCES nodes(id)
);

CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id, edge_type);
CREATE INDEX IF NOT EXISTS idx_edges_to   ON edges(to_id, edge_type);

CREATE TABLE IF NOT EXISTS embeddings (
    node_id        TEXT NOT NULL,
    embedding_type TEXT NOT NULL,
    embedding      BLOB NOT NULL,
    model          TEXT NOT NULL,
    dimensions     INTEGER NOT NULL,
    created_at     TEXT NOT NULL,
    PRIMARY KEY (node_id, embedding_type),
    FOREIGN KEY (node_id) REFERENCES nodes(id)
);
`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
