package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: pragmas are per connection and :memory: databases are
	// per connection too.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	// hygroctl and the server may share a database file.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

const schema = `
-- Inspection records. Measurement sections are stored as JSON arrays.
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    factory TEXT NOT NULL,
    department TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('Environment', 'Product')),
    time_slot TEXT NOT NULL,
    operator TEXT NOT NULL,
    guidance TEXT NOT NULL DEFAULT '',
    temperature TEXT NOT NULL DEFAULT '',
    humidity TEXT NOT NULL DEFAULT '',
    room TEXT NOT NULL DEFAULT '',
    line TEXT NOT NULL DEFAULT '',
    semi_sets TEXT NOT NULL DEFAULT '[]',
    product_sets TEXT NOT NULL DEFAULT '[]',
    explicit_status TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    revision INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tenant_records ON records(tenant_id, created_at);
CREATE INDEX IF NOT EXISTS idx_records_factory ON records(factory);
CREATE INDEX IF NOT EXISTS idx_records_department ON records(department);

-- 4-point spot checks, append-only
CREATE TABLE IF NOT EXISTS check_rounds (
    record_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    positions TEXT NOT NULL,
    result TEXT NOT NULL CHECK(result IN ('Pass', 'Fail')),
    checked_at TIMESTAMP NOT NULL,
    PRIMARY KEY (record_id, seq),
    FOREIGN KEY (record_id) REFERENCES records(id)
);

-- Sections replaced by product re-checks, append-only
CREATE TABLE IF NOT EXISTS product_history (
    record_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    semi_sets TEXT NOT NULL,
    product_sets TEXT NOT NULL,
    captured_at TIMESTAMP NOT NULL,
    PRIMARY KEY (record_id, seq),
    FOREIGN KEY (record_id) REFERENCES records(id)
);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    record_id TEXT NOT NULL,
    activity_type TEXT NOT NULL CHECK(activity_type IN ('record_created', 'spot_check_submitted', 'product_recheck_submitted')),
    status TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL,
    revision INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tenant_activity ON activity_log(tenant_id, created_at);
CREATE INDEX IF NOT EXISTS idx_record_activity ON activity_log(record_id);

-- API keys for authentication
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_tenant_keys ON api_keys(tenant_id);
`

// RunMigrations creates the schema. It is safe to run on every start.
func (db *DB) RunMigrations() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
