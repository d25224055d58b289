package server

import "time"

const (
	readTimeout = 10 * time.Second
	// A cold search fans out to every course, each bounded by the provider timeout.
	writeTimeout = 20 * time.Second
	idleTimeout  = 60 * time.Second

	cacheOpenTimeout = 5 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
