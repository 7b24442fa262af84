// Package testutil holds helpers shared by repository and handler tests.
package testutil

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/iliyamo/virtual-tour/internal/database"
	"github.com/iliyamo/virtual-tour/internal/utils"
)

// OpenInMemoryDB opens an in-memory SQLite database with the schema
// applied. The shared cache keeps the database alive across the pooled
// connections of a single test. Closing is registered via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SessionCookie returns a session cookie for the given identity, signed
// with the given secret, usable directly on httptest requests.
func SessionCookie(t *testing.T, secret string, userID uint64, isAdmin bool) *http.Cookie {
	t.Helper()
	tok, err := utils.NewSessionToken(secret, userID, isAdmin, 60)
	if err != nil {
		t.Fatalf("sign session token: %v", err)
	}
	return &http.Cookie{Name: "session", Value: tok.Token}
}
