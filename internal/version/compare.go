package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// CheckVersionCompatibility checks if the engine can run a strategy written for strategyVersion.
// Returns nil if compatible, error with details if not.
//
// strategyVersion is either a plain version or a semver constraint such as "^1.2" or ">= 1.0, < 2".
//
// Compatibility Rules for a plain version:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
//
// Examples:
//   - Engine 1.2.0, Strategy 1.2.0 -> OK (exact match)
//   - Engine 1.2.1, Strategy 1.2.0 -> OK (patch differs)
//   - Engine 1.3.0, Strategy 1.2.0 -> ERROR (minor differs)
//   - Engine 2.0.0, Strategy 1.2.0 -> ERROR (major differs)
//   - Engine 1.3.0, Strategy ^1.2 -> OK (constraint satisfied)
//   - Engine main, Strategy 1.2.0 -> OK (dev build, skip check)
func CheckVersionCompatibility(engineVersion, strategyVersion string) error {
	// Strip 'v' prefix if present for consistency
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	strategyVersion = strings.TrimPrefix(strings.TrimSpace(strategyVersion), "v")

	// Skip version check for "main" (development builds)
	if engineVersion == "main" || strategyVersion == "main" {
		return nil
	}

	if strategyVersion == "" {
		return errors.New(errors.ErrCodeInvalidVersion, "invalid strategy version '': version is required")
	}

	// Parse engine version
	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	// Parse strategy version
	strategySemver, err := semver.NewVersion(strategyVersion)
	if err != nil {
		return checkConstraint(engineSemver, strategyVersion)
	}

	// Check major version match
	if engineSemver.Major() != strategySemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: engine is %d.x.x but strategy requires %d.x.x",
			engineSemver.Major(), strategySemver.Major())
	}

	// Check minor version match
	if engineSemver.Minor() != strategySemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: engine is %d.%d.x but strategy requires %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			strategySemver.Major(), strategySemver.Minor())
	}

	// Patch versions can differ, so we're compatible
	return nil
}

func checkConstraint(engine *semver.Version, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid strategy version '%s'", constraint)
	}

	if ok, reasons := c.Validate(engine); !ok {
		return errors.Newf(errors.ErrCodeVersionMismatch, "engine %s does not satisfy strategy constraint '%s': %v",
			engine.String(), constraint, reasons)
	}

	return nil
}
