// Package logger builds slog loggers with application-wide conventions:
// a selectable json/text format, environment-driven configuration, and
// a handler decorator that enriches every record with request-scoped
// attributes (environment, tenant, user) extracted from the context.
package logger
