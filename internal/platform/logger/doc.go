// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, an optional rotated log file, and helpers to carry
// request-scoped loggers through a context.Context.
package logger
