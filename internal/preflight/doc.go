// Package preflight verifies the environment before a run mutates
// anything: directories must be accessible and the external binaries a
// command shells out to must resolve. The status command renders the
// same checks for operators.
package preflight
