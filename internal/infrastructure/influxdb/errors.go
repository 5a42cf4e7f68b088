package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	// Callers treat it as "record no account counters", not as a failure.
	ErrDisabled = errors.New("influxdb: account counters disabled")

	// ErrConnectionFailed is returned when the server cannot be reached or
	// reports itself unhealthy at startup.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned by HealthCheck after Close.
	ErrNotConnected = errors.New("influxdb: not connected")
)
