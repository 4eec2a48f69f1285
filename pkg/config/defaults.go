package config

import "time"

// Defaults applied when neither the config file nor the environment sets a
// value.
const (
	// DefaultAPIURL is the file-management API of a local Orchest
	// deployment.
	DefaultAPIURL = "http://localhost:8000/async/file-management"

	// DefaultDepth is how many directory levels are fetched when a root
	// has no previously materialized depth.
	DefaultDepth = 2

	// DefaultDedupeWindow is how long a settled operation result keeps
	// absorbing duplicate triggers.
	DefaultDedupeWindow = 500 * time.Millisecond

	// DefaultRequestTimeout bounds each remote call.
	DefaultRequestTimeout = 30 * time.Second
)

// DefaultRoots are the independently cached namespaces of a project: its
// own files and the shared data directory.
var DefaultRoots = []string{"project-dir", "data"}
