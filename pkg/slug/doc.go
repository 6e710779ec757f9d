// Package slug generates and validates URL- and DNS-safe identifiers
// used for organization subdomains.
package slug
