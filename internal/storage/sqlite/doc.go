// Package sqlite persists spells and trained networks in a SQLite
// database.
//
// The schema is owned by the embedded golang-migrate migrations under
// migrations/. Stores take a *sql.DB so tests can open a throwaway file
// database with the same pragmas as production.
package sqlite
