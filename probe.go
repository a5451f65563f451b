// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
)

var versionPattern = regexp.MustCompile(`v?\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.-]+)?`)

// Probe checks the tool can be executed by running it with --version
//
// The exit code is ignored, only a failure to start the process is fatal.
// When minVersion is set the reported version must satisfy it.
// The detected version is returned, or nil when it could not be parsed.
func Probe(ctx context.Context, runner Runner, toolPath, minVersion string) (*semver.Version, error) {
	logger := log.FromContext(ctx)

	result, err := runner.Run(ctx, toolPath, []string{"--version"})
	if err != nil {
		return nil, &ToolNotFoundError{Path: toolPath, err: err}
	}

	var version *semver.Version
	if match := versionPattern.FindString(result.Stdout + "\n" + result.Stderr); match != "" {
		version, err = semver.NewVersion(match)
		if err != nil {
			logger.Debug("unparseable tool version", "output", match, "error", err)
			version = nil
		}
	}

	logger.Debug("probed", "tool", toolPath, "version", version)

	if minVersion == "" {
		return version, nil
	}

	constraint, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum tool version %q: %w", minVersion, err)
	}
	if version == nil {
		return nil, fmt.Errorf("unable to determine %s version, %s or newer is required", toolPath, minVersion)
	}
	if !constraint.Check(version) {
		return nil, fmt.Errorf("%s version %s is older than the required %s", toolPath, version, minVersion)
	}

	return version, nil
}
