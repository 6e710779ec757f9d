// Package pg wraps pgx connection management for the application:
// pool construction with startup retries, goose migrations over the
// shared pool, health probes, and classifiers for the SQLSTATE errors
// the domain layer cares about (not-found, duplicate key).
package pg
