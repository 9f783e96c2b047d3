// Package validate checks image records against the configured size,
// dimension and filename constraints.
//
// Every check is a pure predicate that returns a typed error carrying the
// offending values. Callers decide how failures are presented.
package validate
