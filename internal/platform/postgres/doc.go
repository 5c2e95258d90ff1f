// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles the details of query execution, mapping between domain entities
// and database records, and the embedded goose migrations that own the schema.
package postgres
