package serverconf

import (
	"encoding/json"
	"fmt"
	"math"
)

// Keys of the RawConfig fields, also used as ConversionError.Field.
const (
	FieldServerName    = "server_name"
	FieldPortNumber    = "port_number"
	FieldWorkerThreads = "worker_threads"
)

// Accepted domains: ports in [MinPort, MaxPort], threads in [MinThreads, MaxThreads].
const (
	MinPort    = 1024
	MaxPort    = math.MaxUint16
	MinThreads = 1
	MaxThreads = math.MaxUint8
)

// RawConfig is caller supplied and untrusted. Any field may be absent or out of range.
type RawConfig struct {
	ServerName    Optional[string] `mapstructure:"server_name" json:"server_name"`
	PortNumber    Optional[int64]  `mapstructure:"port_number" json:"port_number"`
	WorkerThreads Optional[int64]  `mapstructure:"worker_threads" json:"worker_threads"`
}

// ServerConfig is the validated result of Convert.
// Its fields are unexported so a populated value cannot bypass validation;
// the zero value is not a valid configuration.
type ServerConfig struct {
	name    string
	port    uint16
	threads uint8
}

// Name returns the server name. It may be empty; only its presence is validated.
func (c ServerConfig) Name() string {
	return c.name
}

// Port returns the listen port, within [MinPort, MaxPort].
func (c ServerConfig) Port() uint16 {
	return c.port
}

// Threads returns the worker thread count, within [MinThreads, MaxThreads].
func (c ServerConfig) Threads() uint8 {
	return c.threads
}

// String returns a human readable representation for logs and diagnostics.
func (c ServerConfig) String() string {
	return fmt.Sprintf("ServerConfig{name: %q, port: %d, threads: %d}", c.name, c.port, c.threads)
}

// MarshalJSON encodes the config as {"name", "port", "threads"}.
func (c ServerConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string `json:"name"`
		Port    uint16 `json:"port"`
		Threads uint8  `json:"threads"`
	}{c.name, c.port, c.threads})
}
