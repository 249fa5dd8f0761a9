package sqlstore

import "fmt"

// Dialect holds the statements that differ between database engines.
type Dialect struct {
	// Name is the backend name used in configuration.
	Name string
	// Driver is the database/sql driver name.
	Driver string

	createTable string
	upsert      string
	selectOne   string
	selectAll   string
	deleteOne   string
}

const table = "save_slots"

var (
	SQLite = Dialect{
		Name:        "sqlite",
		Driver:      "sqlite",
		createTable: "CREATE TABLE IF NOT EXISTS " + table + " (ts INTEGER PRIMARY KEY, data BLOB NOT NULL)",
		upsert:      "INSERT INTO " + table + " (ts, data) VALUES (?, ?) ON CONFLICT(ts) DO UPDATE SET data = excluded.data",
		selectOne:   "SELECT data FROM " + table + " WHERE ts = ?",
		selectAll:   "SELECT ts FROM " + table + " ORDER BY ts DESC",
		deleteOne:   "DELETE FROM " + table + " WHERE ts = ?",
	}

	MySQL = Dialect{
		Name:        "mysql",
		Driver:      "mysql",
		createTable: "CREATE TABLE IF NOT EXISTS " + table + " (ts BIGINT PRIMARY KEY, data LONGBLOB NOT NULL)",
		upsert:      "INSERT INTO " + table + " (ts, data) VALUES (?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data)",
		selectOne:   "SELECT data FROM " + table + " WHERE ts = ?",
		selectAll:   "SELECT ts FROM " + table + " ORDER BY ts DESC",
		deleteOne:   "DELETE FROM " + table + " WHERE ts = ?",
	}

	Postgres = Dialect{
		Name:        "postgres",
		Driver:      "postgres",
		createTable: "CREATE TABLE IF NOT EXISTS " + table + " (ts BIGINT PRIMARY KEY, data BYTEA NOT NULL)",
		upsert:      "INSERT INTO " + table + " (ts, data) VALUES ($1, $2) ON CONFLICT (ts) DO UPDATE SET data = EXCLUDED.data",
		selectOne:   "SELECT data FROM " + table + " WHERE ts = $1",
		selectAll:   "SELECT ts FROM " + table + " ORDER BY ts DESC",
		deleteOne:   "DELETE FROM " + table + " WHERE ts = $1",
	}
)

// DialectFor maps a backend name to its dialect.
func DialectFor(backend string) (Dialect, error) {
	switch backend {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database backend: %s", backend)
}
