// Package service contains the application use cases of the kanban backend:
// registration and login, boards, tasks and comments.
//
// Services depend on the store interfaces and a store.TxRunner, never on a
// concrete database. Every permission check runs before any mutation, and
// multi-step writes run inside a single transaction.
//
// Error handling:
//   - Expected conditions are reported with the sentinel errors in errors.go,
//     which the API layer maps to HTTP status codes.
//   - Input problems are reported as domain.ValidationError values.
//   - Unexpected failures are wrapped in a ServiceError naming the operation.
package service
