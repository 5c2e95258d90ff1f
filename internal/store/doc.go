// Package store defines the persistence interfaces for users, auth tokens,
// boards, tasks and comments. Implementations live in internal/platform;
// the service layer depends only on these interfaces.
package store
