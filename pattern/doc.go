// SPDX-License-Identifier: MIT

// Package pattern is the typed data model of the pattern registry.
//
// A Pattern bundles everything the projector, matcher and fitter need for one
// named pattern: its transfer matrix, the empirical manifold (centroid and
// covariance), scoring thresholds, per-cell axiom bounds for fitting and an
// ordered list of sub-variants with closed-enum triggers.
//
// Patterns are validated once when loaded (Validate); downstream code treats
// them as trusted. Persisted records carry schema and codec versions
// (VersionedRecord); DecodeJSON rejects records from another version.
package pattern
