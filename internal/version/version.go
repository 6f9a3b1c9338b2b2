package version

// Version is the current version of argo-pulse.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-pulse/internal/version.Version=1.2.3"
// The value "main" indicates a development build.
var Version = "v0.4.0"

// GetVersion returns the current version of the binary.
func GetVersion() string {
	return Version
}
