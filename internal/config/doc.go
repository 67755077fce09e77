// Package config defines the jewelcase configuration model and loads
// it from TOML.
//
// Load resolves the config path (explicit flag, then
// ~/.config/jewelcase/config.toml, then a project-local
// jewelcase.toml), decodes the file over the defaults, then
// normalizes and validates the result. A missing file is not an
// error; every command works with defaults alone.
//
// Normalization expands ~ in paths, applies environment fallbacks for
// tool overrides, and fills zero values. Validation rejects values
// the rest of the program cannot use, such as compression levels
// outside 0-9.
package config
