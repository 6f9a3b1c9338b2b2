package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// CheckConfigCompatibility checks that a config file written for configVersion
// can be read by a binary at binaryVersion.
//
// Compatibility Rules:
//   - An empty config version, or "main" on either side, skips the check
//   - Major versions must match exactly
//   - The config may not be newer than the binary in major.minor
//   - Patch versions are ignored
//
// Examples:
//   - Binary 0.4.0, Config 0.4.0 -> OK
//   - Binary 0.4.2, Config 0.3.0 -> OK (older config)
//   - Binary 0.4.0, Config 0.4.9 -> OK (patch differs)
//   - Binary 0.4.0, Config 0.5.0 -> ERROR (config is newer)
//   - Binary 1.0.0, Config 0.4.0 -> ERROR (major differs)
func CheckConfigCompatibility(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || binaryVersion == "main" || configVersion == "main" {
		return nil
	}

	binary, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid binary version '%s'", binaryVersion)
	}

	config, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if binary.Major() != config.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "major version mismatch: binary is %d.x.x but config is written for %d.x.x",
			binary.Major(), config.Major())
	}

	if config.Minor() > binary.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "config is newer than binary: config requires %d.%d.x, binary is %d.%d.x",
			config.Major(), config.Minor(), binary.Major(), binary.Minor())
	}

	return nil
}
