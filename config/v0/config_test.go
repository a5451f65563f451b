// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package v0

import (
	"strings"
	"testing"
	"testing/iotest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defenseunicorns/schemaconv"
	"github.com/defenseunicorns/schemaconv/config"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		expectErr string
		expected  *Config
	}{
		{
			name: "full config",
			content: `schema-version: v0
tool-path: /opt/avrotize/bin/avrotize
min-tool-version: 2.0.0
input-dir: schemas
output-dir: gen/java
input-format: JSON
output-format: java
package-name: com.example.events
direct: true
filter: 'ext == ".json"'
concurrency: 4
temp-dir: .tmp`,
			expected: &Config{
				SchemaVersion:  SchemaVersion,
				ToolPath:       "/opt/avrotize/bin/avrotize",
				MinToolVersion: "2.0.0",
				InputDir:       "schemas",
				OutputDir:      "gen/java",
				InputFormat:    schemaconv.FormatJSONSchema,
				OutputFormat:   schemaconv.FormatJava,
				PackageName:    "com.example.events",
				Direct:         true,
				Filter:         `ext == ".json"`,
				Concurrency:    4,
				TempDir:        ".tmp",
			},
		},
		{
			name:     "empty config uses defaults",
			content:  `schema-version: v0`,
			expected: Default(),
		},
		{
			name: "explicitly empty values use defaults",
			content: `schema-version: v0
tool-path: ""
output-format: ""`,
			expected: Default(),
		},
		{
			name: "format synonyms",
			content: `schema-version: v0
output-format: Protobuf`,
			expected: func() *Config {
				cfg := Default()
				cfg.OutputFormat = schemaconv.FormatProto
				return cfg
			}(),
		},
		{
			name:      "invalid yaml",
			content:   `invalid: yaml: content`,
			expectErr: "mapping value is not allowed in this context",
		},
		{
			name: "unsupported schema version",
			content: `schema-version: v999
output-format: java`,
			expectErr: `unsupported config schema version: expected "v0", got "v999"`,
		},
		{
			name:      "missing schema version",
			content:   `output-format: java`,
			expectErr: `unsupported config schema version: expected "v0", got ""`,
		},
		{
			name: "unknown format",
			content: `schema-version: v0
output-format: xml`,
			expectErr: `unknown format "xml"`,
		},
		{
			name: "unknown field",
			content: `schema-version: v0
fetch-policy: always`,
			expectErr: "failed to parse config file",
		},
		{
			name: "invalid structure",
			content: `schema-version: v0
concurrency: [1, 2]`,
			expectErr: "failed to parse config file",
		},
		{
			name: "validation error",
			content: `schema-version: v0
package-name: com..example`,
			expectErr: "package-name",
		},
		{
			name: "negative concurrency",
			content: `schema-version: v0
concurrency: -1`,
			expectErr: "concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.content))

			if tt.expectErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.expectErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}

	t.Run("reader edge cases", func(t *testing.T) {
		content := `schema-version: v0
output-format: avro`

		cfg, err := LoadConfig(iotest.OneByteReader(strings.NewReader(content)))
		require.NoError(t, err)
		assert.Equal(t, schemaconv.FormatAvro, cfg.OutputFormat)

		cfg, err = LoadConfig(iotest.HalfReader(strings.NewReader(content)))
		require.NoError(t, err)
		assert.Equal(t, schemaconv.FormatAvro, cfg.OutputFormat)

		_, err = LoadConfig(iotest.ErrReader(assert.AnError))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestLoadDefaultConfig(t *testing.T) {
	t.Run("no config file returns defaults", func(t *testing.T) {
		cfg, err := LoadDefaultConfig(afero.NewMemMapFs())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, schemaconv.DefaultInputDir, cfg.InputDir)
		assert.Equal(t, schemaconv.DefaultOutputDir, cfg.OutputDir)
		assert.Equal(t, schemaconv.DefaultToolPath, cfg.ToolPath)
	})

	t.Run("valid config file loads correctly", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "project/"+config.DefaultFileName, []byte(`schema-version: v0
output-format: proto`), 0o644))

		cfg, err := LoadDefaultConfig(afero.NewBasePathFs(fsys, "project"))
		require.NoError(t, err)
		assert.Equal(t, schemaconv.FormatProto, cfg.OutputFormat)
		assert.Equal(t, schemaconv.FormatJSONSchema, cfg.InputFormat)
	})

	t.Run("invalid config file returns error", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, config.DefaultFileName, []byte(`schema-version: v999`), 0o644))

		_, err := LoadDefaultConfig(fsys)
		require.EqualError(t, err, `unsupported config schema version: expected "v0", got "v999"`)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		config      *Config
		expectedErr string
	}{
		{
			name:   "defaults",
			config: Default(),
		},
		{
			name: "package name",
			config: &Config{
				SchemaVersion: SchemaVersion,
				InputFormat:   schemaconv.FormatAvro,
				OutputFormat:  schemaconv.FormatJava,
				PackageName:   "com.example_1.v2",
			},
		},
		{
			name: "invalid package name",
			config: &Config{
				SchemaVersion: SchemaVersion,
				PackageName:   "com.example-events",
			},
			expectedErr: "Does not match pattern",
		},
		{
			name: "invalid format",
			config: &Config{
				SchemaVersion: SchemaVersion,
				OutputFormat:  "xml",
			},
			expectedErr: "output-format",
		},
		{
			name: "invalid schema version",
			config: &Config{
				SchemaVersion: "v1",
			},
			expectedErr: "schema-version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.config)
			if tt.expectedErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	s := Schema()

	for _, name := range []string{"schema-version", "tool-path", "input-dir", "output-dir", "input-format", "output-format", "package-name", "direct", "filter", "concurrency", "temp-dir", "min-tool-version"} {
		_, ok := s.Properties.Get(name)
		assert.True(t, ok, name)
	}

	outputFormat, ok := s.Properties.Get("output-format")
	require.True(t, ok)
	assert.Contains(t, outputFormat.Enum, "protobuf")
	assert.Equal(t, "java", outputFormat.Default)
	assert.Equal(t, []string{"schema-version"}, s.Required)
}
