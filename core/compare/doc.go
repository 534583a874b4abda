// Package compare matches tested records against reference records by identity
// key and produces field level mismatch rows.
//
// Analyze is pure: it performs no I/O and the same input always yields the
// same output, including ordering. Reference records are indexed by key; the
// tested collection drives matching, so tested records without a reference
// counterpart are reported but never compared.
package compare
