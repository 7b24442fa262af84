package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens (or creates) a SQLite database at the given DSN and
// ensures the schema exists. An empty DSN falls back to a local file.
// In-memory DSNs like "file:x?mode=memory&cache=shared" are accepted,
// which is how the tests run without an external database server.
func OpenSQLite(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = "tour.db"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	// journal_mode may not be supported in some contexts (e.g. in-memory). Ignore errors.
	_, _ = db.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db, "sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMySQL connects to MySQL, verifies the connection and ensures the
// schema exists.
func OpenMySQL(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db, "mysql"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// schemas holds per-dialect CREATE TABLE statements. Tables are created on
// every boot with IF NOT EXISTS, so a fresh database needs no separate
// provisioning step.
var schemas = map[string][]string{
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS pois (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT NOT NULL,
			lat      REAL NOT NULL,
			lng      REAL NOT NULL,
			type     TEXT NOT NULL,
			scene_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS posters (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id  TEXT NOT NULL,
			text      TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			color     TEXT NOT NULL DEFAULT '',
			pitch     REAL NOT NULL,
			yaw       REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS nav_links (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id        TEXT NOT NULL,
			target_scene_id TEXT NOT NULL,
			pitch           REAL NOT NULL,
			yaw             REAL NOT NULL,
			label           TEXT NOT NULL DEFAULT '',
			color           TEXT NOT NULL DEFAULT ''
		)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			username      VARCHAR(190) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_admin      TINYINT(1) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS pois (
			id       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name     VARCHAR(255) NOT NULL,
			lat      DOUBLE NOT NULL,
			lng      DOUBLE NOT NULL,
			type     VARCHAR(32) NOT NULL,
			scene_id VARCHAR(190) NOT NULL DEFAULT ''
		)`,
		"CREATE TABLE IF NOT EXISTS posters (\n" +
			"	id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,\n" +
			"	scene_id  VARCHAR(190) NOT NULL,\n" +
			"	`text`    TEXT NOT NULL,\n" +
			"	image_url VARCHAR(512) NOT NULL DEFAULT '',\n" +
			"	color     VARCHAR(64) NOT NULL DEFAULT '',\n" +
			"	pitch     DOUBLE NOT NULL,\n" +
			"	yaw       DOUBLE NOT NULL\n" +
			")",
		`CREATE TABLE IF NOT EXISTS nav_links (
			id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			scene_id        VARCHAR(190) NOT NULL,
			target_scene_id VARCHAR(190) NOT NULL,
			pitch           DOUBLE NOT NULL,
			yaw             DOUBLE NOT NULL,
			label           VARCHAR(255) NOT NULL DEFAULT '',
			color           VARCHAR(64) NOT NULL DEFAULT ''
		)`,
	},
}

// ensureSchema creates missing tables and then applies the lazy column
// migrations. The posters table originally shipped without scale and
// font_size; older databases are upgraded in place on boot, so the base
// CREATE statement above deliberately omits both columns.
func ensureSchema(db *sql.DB, driver string) error {
	stmts, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if err := ensureColumn(db, driver, "posters", "scale",
		`ALTER TABLE posters ADD COLUMN scale REAL NOT NULL DEFAULT 1.0`,
		`ALTER TABLE posters ADD COLUMN scale DOUBLE NOT NULL DEFAULT 1.0`); err != nil {
		return err
	}
	if err := ensureColumn(db, driver, "posters", "font_size",
		`ALTER TABLE posters ADD COLUMN font_size REAL NOT NULL DEFAULT 14.0`,
		`ALTER TABLE posters ADD COLUMN font_size DOUBLE NOT NULL DEFAULT 14.0`); err != nil {
		return err
	}
	return nil
}

// ensureColumn adds a column when it is missing, using the dialect's own
// catalog to detect presence.
func ensureColumn(db *sql.DB, driver, table, column, sqliteDDL, mysqlDDL string) error {
	var n int
	var err error
	switch driver {
	case "sqlite3":
		err = db.QueryRow(
			`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
			table, column,
		).Scan(&n)
	case "mysql":
		err = db.QueryRow(
			`SELECT COUNT(*) FROM information_schema.columns
			 WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`,
			table, column,
		).Scan(&n)
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ddl := sqliteDDL
	if driver == "mysql" {
		ddl = mysqlDDL
	}
	_, err = db.Exec(ddl)
	return err
}
