// Package services defines shared utilities consumed by the command drivers
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp command names and run correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent batch dispositions (skip the item vs abort the run).
//
// Use these helpers when wiring new driver logic so operational behaviour
// stays uniform across commands.
package services
