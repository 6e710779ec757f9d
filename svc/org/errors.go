package org

import "errors"

var (
	// ErrNotFound is returned when a slug has no matching organization.
	ErrNotFound = errors.New("org: organization not found")

	// ErrSlugTaken is returned when the requested slug already exists.
	// Enforced twice: a pre-check for a friendly error, and the storage
	// unique constraint as the hard guarantee under concurrency.
	ErrSlugTaken = errors.New("org: slug already taken")

	// ErrInvalidSlug is returned when a slug fails format validation.
	ErrInvalidSlug = errors.New("org: slug must contain only lowercase letters, numbers and hyphens")

	// ErrNameRequired is returned when an organization name is missing.
	ErrNameRequired = errors.New("org: name is required")
)
