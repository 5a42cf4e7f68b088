// Package database provides the SQLite backend for the Movie API.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Schema migrations loaded from an fs.FS (see the migrations package)
//   - Connection lifecycle and health checks
//   - Constraint-error classification for repositories
//
// SQLite is the alternate document store: configure database.driver: sqlite.
// Tests open it with Path set to MemoryPath.
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migrations are additive-only:
//   - New columns must be NULLABLE or have DEFAULT values
//   - Never DROP or RENAME columns
//   - Each migration has both .up.sql and .down.sql
package database
