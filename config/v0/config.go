// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package v0 provides the schema for v0 of the schemaconv project config file
//
// v0 allows for breaking changes without a major version increase
package v0

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"

	"github.com/defenseunicorns/schemaconv"
	"github.com/defenseunicorns/schemaconv/config"
)

// SchemaVersion is the current schema version for configs
const SchemaVersion = "v0"

// Config is the project configuration file for schemaconv
type Config struct {
	SchemaVersion  string             `json:"schema-version"`
	ToolPath       string             `json:"tool-path,omitempty"        jsonschema:"description=Path to the avrotize executable"`
	MinToolVersion string             `json:"min-tool-version,omitempty" jsonschema:"description=Minimum avrotize version (semver)"`
	InputDir       string             `json:"input-dir,omitempty"        jsonschema:"description=Directory containing the input schemas"`
	OutputDir      string             `json:"output-dir,omitempty"       jsonschema:"description=Directory receiving generated artifacts"`
	InputFormat    schemaconv.Format  `json:"input-format,omitempty"`
	OutputFormat   schemaconv.Format  `json:"output-format,omitempty"`
	PackageName    string             `json:"package-name,omitempty"     jsonschema:"description=Package name for generated code"`
	Direct         bool               `json:"direct,omitempty"           jsonschema:"description=Use single invocation JSON Schema conversions when the tool provides them"`
	Filter         string             `json:"filter,omitempty"           jsonschema:"description=Expression selecting which input files are converted"`
	Concurrency    int                `json:"concurrency,omitempty"      jsonschema:"description=Number of files converted at once,minimum=0"`
	TempDir        string             `json:"temp-dir,omitempty"         jsonschema:"description=Directory for intermediate artifacts"`
}

// JSONSchemaExtend extends the JSON schema for a config
func (Config) JSONSchemaExtend(schema *jsonschema.Schema) {
	if schemaVersion, ok := schema.Properties.Get("schema-version"); ok && schemaVersion != nil {
		schemaVersion.Description = "Config schema version"
		schemaVersion.Enum = []any{SchemaVersion}
	}

	if packageName, ok := schema.Properties.Get("package-name"); ok && packageName != nil {
		packageName.Pattern = `^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`
	}

	if inputFormat, ok := schema.Properties.Get("input-format"); ok && inputFormat != nil {
		inputFormat.Description = "Format of the input schemas"
		inputFormat.Default = string(schemaconv.DefaultInputFormat)
	}

	if outputFormat, ok := schema.Properties.Get("output-format"); ok && outputFormat != nil {
		outputFormat.Description = "Format to generate"
		outputFormat.Default = string(schemaconv.DefaultOutputFormat)
	}
}

// Default returns a config populated with every default
func Default() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		ToolPath:      schemaconv.DefaultToolPath,
		InputDir:      schemaconv.DefaultInputDir,
		OutputDir:     schemaconv.DefaultOutputDir,
		InputFormat:   schemaconv.DefaultInputFormat,
		OutputFormat:  schemaconv.DefaultOutputFormat,
	}
}

// LoadConfig reads, defaults and validates a config
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var versioned config.Versioned
	if err := yaml.Unmarshal(data, &versioned); err != nil {
		return nil, err
	}

	switch version := versioned.SchemaVersion; version {
	case SchemaVersion:
		cfg := Default()
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.applyDefaults()
		return cfg, Validate(cfg)
	default:
		return nil, fmt.Errorf("unsupported config schema version: expected %q, got %q", SchemaVersion, version)
	}
}

// LoadDefaultConfig loads config.DefaultFileName from fsys
//
// If the file does not exist, a default config is returned
func LoadDefaultConfig(fsys afero.Fs) (*Config, error) {
	f, err := fsys.Open(config.DefaultFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// explicitly empty values fall back to defaults
func (c *Config) applyDefaults() {
	d := Default()
	if c.ToolPath == "" {
		c.ToolPath = d.ToolPath
	}
	if c.InputDir == "" {
		c.InputDir = d.InputDir
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.InputFormat == "" {
		c.InputFormat = d.InputFormat
	}
	if c.OutputFormat == "" {
		c.OutputFormat = d.OutputFormat
	}
}

// Since every validation operation leverages the same schema, only calculate it once to save some compute cycles
//
// This also prevents any schema changes from occuring at runtime
var schemaOnce = sync.OnceValues(func() (string, error) {
	s := Schema()
	b, err := json.Marshal(s)
	return string(b), err
})

// Validate checks if a config adheres to the JSON schema
func Validate(cfg *Config) error {
	schema, err := schemaOnce()
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(cfg))
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	var resErr error
	for _, err := range result.Errors() {
		resErr = errors.Join(resErr, errors.New(err.String()))
	}

	return resErr
}

// Schema returns the JSON schema for the Config type
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&Config{})
	schema.ID = "https://raw.githubusercontent.com/defenseunicorns/schemaconv/main/schemaconv.schema.json"
	return schema
}
