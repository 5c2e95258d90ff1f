//go:build integration

// Package testdb provides the PostgreSQL harness for integration tests.
//
// Each test runs in its own transaction that is rolled back when the test
// completes, so tests can share one migrated database and run in parallel:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    boards := postgres.NewPostgresBoardStore(tx, nil)
//	    ...
//	})
//
// Tests are skipped unless DATABASE_URL (or KANBAN_TEST_DB_URL) is set.
package testdb
