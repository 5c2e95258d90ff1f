// Package config loads and validates the server configuration from an
// optional YAML file, an optional .env file and KANBAN_* environment
// variables.
package config
