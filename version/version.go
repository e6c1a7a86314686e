package version

import "os"

// Version reports the build identifier from the environment, truncated to a
// short commit hash. Returns "unknown" when no identifier is set.
func Version() string {
	version, ok := os.LookupEnv("COMMIT_SHA")
	if !ok {
		version = "unknown"
	}
	if len(version) > 7 {
		version = version[:7]
	}
	return version
}
