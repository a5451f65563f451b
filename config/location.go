// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package config provides project-level configuration for schemaconv
package config

import (
	"os"
)

// DefaultFileName is the config file looked up in the project directory
const DefaultFileName = "schemaconv.yaml"

// EnvVar names an environment variable holding an explicit config file path
const EnvVar = "SCHEMACONV_CONFIG"

// Versioned is a tiny struct used to grab the schema version for a config
type Versioned struct {
	// SchemaVersion is the config schema that this config follows
	SchemaVersion string `json:"schema-version"`
}

// PathFromEnv returns the config path set through EnvVar, if any
func PathFromEnv() (string, bool) {
	p := os.Getenv(EnvVar)
	return p, p != ""
}
