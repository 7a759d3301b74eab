// Package magetasks holds the build tasks behind the repository Magefile.
//
// Tasks cover building the icongate binary with stamped version metadata,
// running tests with a condensed per-package summary, linting, and the CI
// sequence that chains them.
package magetasks
