// Package main hosts the jewelcase CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into the
// tagging, conversion, and packing drivers, plus read-only inspection and
// configuration scaffolding. It centralizes configuration resolution,
// structured logging setup, and run correlation so subcommands can focus
// on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
