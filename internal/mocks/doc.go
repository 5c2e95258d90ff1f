// Package mocks provides centralized test doubles for the store and auth
// interfaces.
//
// The store mocks share a MemoryDB, an in-memory stand-in for the PostgreSQL
// schema. Stores created from the same MemoryDB see each other's writes and
// honour the schema rules the services rely on: unique emails, one token per
// user, cascading deletes and SET NULL on assignee and reviewer.
//
// Usage:
//
//	db := mocks.NewMemoryDB()
//	users := db.UserStore()
//	boards := db.BoardStore()
//	tx := db.TxRunner()
//
//	// Make the next SetMembers call fail:
//	db.FailOn("BoardStore.SetMembers", errors.New("boom"))
//
// MockTxRunner snapshots the MemoryDB before running a transaction function
// and restores it when the function fails, so rollback behaviour can be
// asserted without a database.
package mocks
