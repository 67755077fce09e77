// Package sevenzip wraps a 7-Zip compatible binary for creating and
// extracting game archives.
package sevenzip
