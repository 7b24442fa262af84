package database

import (
	"database/sql"
	"testing"
)

func hasColumn(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&n)
	if err != nil {
		t.Fatalf("pragma_table_info: %v", err)
	}
	return n > 0
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	db, err := OpenSQLite("file:dbschema?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"users", "pois", "posters", "nav_links"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
	if !hasColumn(t, db, "posters", "scale") || !hasColumn(t, db, "posters", "font_size") {
		t.Error("poster migration columns missing on fresh schema")
	}

	// Re-applying the schema against an existing database must be a no-op.
	if err := ensureSchema(db, "sqlite3"); err != nil {
		t.Errorf("second ensureSchema: %v", err)
	}
}

func TestEnsureSchemaUpgradesOldPosters(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:dbupgrade?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// The posters table as it existed before scale and font_size shipped.
	_, err = db.Exec(`CREATE TABLE posters (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		scene_id  TEXT NOT NULL,
		text      TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		color     TEXT NOT NULL DEFAULT '',
		pitch     REAL NOT NULL,
		yaw       REAL NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create old table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO posters (scene_id, pitch, yaw) VALUES ('scene1', 0, 0)`); err != nil {
		t.Fatalf("insert old row: %v", err)
	}

	if err := ensureSchema(db, "sqlite3"); err != nil {
		t.Fatalf("ensureSchema: %v", err)
	}
	if !hasColumn(t, db, "posters", "scale") || !hasColumn(t, db, "posters", "font_size") {
		t.Fatal("columns not added to old table")
	}

	// Pre-existing rows pick up the column defaults.
	var scale, fontSize float64
	if err := db.QueryRow(`SELECT scale, font_size FROM posters`).Scan(&scale, &fontSize); err != nil {
		t.Fatalf("select: %v", err)
	}
	if scale != 1.0 || fontSize != 14.0 {
		t.Errorf("scale = %v, font_size = %v, want 1.0 and 14.0", scale, fontSize)
	}
}

func TestEnsureSchemaRejectsUnknownDriver(t *testing.T) {
	db, err := OpenSQLite("file:dbdriver?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := ensureSchema(db, "postgres"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
