// Package org owns the organization and membership domain: the
// PostgreSQL store behind tenant resolution, the creation flow that
// makes the caller the first admin of a new workspace, and the HTTP
// endpoints for both.
package org
