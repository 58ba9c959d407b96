package serverconf

// Convert validates raw and returns the resulting ServerConfig.
//
// Checks run in a fixed order and stop at the first failure, which is returned as
// a *ConversionError. Convert is pure: the same input always yields the same outcome.
func Convert(raw RawConfig) (ServerConfig, error) {
	name, ok := raw.ServerName.ValueOK()
	if !ok {
		return ServerConfig{}, MissingField(FieldServerName)
	}
	rawPort, ok := raw.PortNumber.ValueOK()
	if !ok {
		return ServerConfig{}, MissingField(FieldPortNumber)
	}
	rawThreads, ok := raw.WorkerThreads.ValueOK()
	if !ok {
		return ServerConfig{}, MissingField(FieldWorkerThreads)
	}

	// bounds are checked on the wide value so the error carries it untruncated
	if rawPort < MinPort || rawPort > MaxPort {
		return ServerConfig{}, RangeError(FieldPortNumber, rawPort)
	}
	port, ok := narrow[uint16](rawPort)
	if !ok {
		return ServerConfig{}, narrowingError(FieldPortNumber, rawPort, "port_number conversion error: %d")
	}

	threads, ok := narrow[uint8](rawThreads)
	if !ok {
		return ServerConfig{}, narrowingError(FieldWorkerThreads, rawThreads, "worker_threads value: %d")
	}
	// narrowing already bounds threads by MaxThreads; below MinThreads only zero remains
	if threads < MinThreads {
		return ServerConfig{}, RangeError(FieldWorkerThreads, rawThreads)
	}

	return ServerConfig{
		name:    name,
		port:    port,
		threads: threads,
	}, nil
}

// narrow converts v into the unsigned type U, reporting false when v does not fit.
func narrow[U uint8 | uint16](v int64) (U, bool) {
	if v < 0 {
		return 0, false
	}
	u := U(v)
	if int64(u) != v {
		return 0, false
	}
	return u, true
}
