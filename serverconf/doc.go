// Package serverconf converts an untrusted RawConfig into a validated ServerConfig.
//
// Convert is the only way to obtain a populated ServerConfig. It runs a fixed,
// fail-fast sequence of checks and returns the first failure as a *ConversionError:
//   - Presence: server_name, port_number, worker_threads (MissingField).
//   - Port: range [MinPort, MaxPort] on the wide value, then narrowing to uint16.
//   - Threads: narrowing to uint8 (InvalidType), then the zero check (RangeError).
//
// Decode lifts loosely typed maps (provider output, flags, JSON) into a RawConfig,
// and Parse chains Decode with Convert. Callers branch on failures via errors.Is
// against ErrMissingField, ErrInvalidType and ErrRange, or errors.As to reach the
// field and offending value.
package serverconf
