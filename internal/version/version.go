package version

// Build information, set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)
