// Package version holds the build version string.
package version

// Version is the current release. Overridden at build time via
// -ldflags "-X github.com/Dicklesworthstone/context_loader/pkg/version.Version=...".
var Version = "0.1.0"
