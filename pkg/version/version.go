// Package version provides version information for reqtemplate
package version

// Version is the current version of the library. Release builds override it with
// -ldflags "-X github.com/WhileEndless/go-reqtemplate/pkg/version.Version=...".
var Version = "0.3.0"

// GetVersion returns the current version of the library
func GetVersion() string {
	return Version
}
