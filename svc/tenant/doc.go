// Package tenant implements the per-request tenant-resolution and
// access-decision pipeline.
//
// Every request flows through four steps: shared-dependency bootstrap
// (once per process, retryable on failure), identity resolution
// against the external provider (fail-open to anonymous), hostname
// tenant resolution (pure) and organization/membership resolution.
// The access decision engine then reduces the result to one of three
// dispositions: serve, redirect, or deny. Component failures become
// classified context fields rather than propagated errors, so the
// user-visible outcome is always a page or a redirect.
package tenant
