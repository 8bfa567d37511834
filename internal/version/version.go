// internal/version/version.go
package version

// Version is overridden at link time: -ldflags "-X oligo/internal/version.Version=v1.2.3".
var Version = "dev"
