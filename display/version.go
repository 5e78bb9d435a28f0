package display

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// BuildVersion returns the version line printed by --version. An empty
// version is inferred from the main module's build info.
func BuildVersion(name, version string) string {
	if version == "" {
		inferred, ok := inferVersion()
		if !ok {
			return "No version specified"
		}
		version = inferred
	}

	if name != "" {
		name = name + " "
	}
	return fmt.Sprintf("%sv%s", name, strings.TrimPrefix(version, "v"))
}

// inferVersion attempts to infer the user's module version from build info.
func inferVersion() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, true
	}

	return "", false
}
