// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/pflag"
)

// Format identifies a schema representation or generated artifact kind
type Format string

var _ pflag.Value = (*Format)(nil)

const (
	// FormatJSONSchema is a JSON Schema document
	FormatJSONSchema Format = "jsonschema"
	// FormatAvro is an Avro schema (.avsc)
	FormatAvro Format = "avro"
	// FormatJava is generated Java source code
	FormatJava Format = "java"
	// FormatProto is a Protocol Buffers definition
	FormatProto Format = "proto"
)

// DefaultInputFormat is the format of input schemas when none is specified
const DefaultInputFormat = FormatJSONSchema

// DefaultOutputFormat is the format to generate when none is specified
const DefaultOutputFormat = FormatJava

var synonyms = map[string]Format{
	"jsonschema": FormatJSONSchema,
	"json":       FormatJSONSchema,
	"avro":       FormatAvro,
	"java":       FormatJava,
	"proto":      FormatProto,
	"protobuf":   FormatProto,
}

// AvailableFormats returns the canonical format names
func AvailableFormats() []string {
	return []string{
		string(FormatJSONSchema),
		string(FormatAvro),
		string(FormatJava),
		string(FormatProto),
	}
}

// ParseFormat normalizes a user supplied format token
//
// Matching is case-insensitive, "json" is accepted for "jsonschema" and "protobuf" for "proto".
func ParseFormat(s string) (Format, error) {
	f, ok := synonyms[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown format %q, expected one of: %s", s, strings.Join(AvailableFormats(), ", "))
	}
	return f, nil
}

// Extension returns the canonical file extension for the format
func (f Format) Extension() string {
	switch f {
	case FormatJSONSchema:
		return ".json"
	case FormatAvro:
		return ".avsc"
	case FormatJava:
		return ".java"
	case FormatProto:
		return ".proto"
	default:
		return ""
	}
}

// Description is a human readable name, used in lifecycle messages
func (f Format) Description() string {
	switch f {
	case FormatJSONSchema:
		return "JSON Schema"
	case FormatAvro:
		return "Avro"
	case FormatJava:
		return "Java code"
	case FormatProto:
		return "Proto definitions"
	default:
		return string(f)
	}
}

// IsCodeGen reports whether the format is generated source code
func (f Format) IsCodeGen() bool {
	return f == FormatJava
}

// String implements the pflag.Value and fmt.Stringer interfaces
func (f *Format) String() string {
	return string(*f)
}

// Set implements the pflag.Value interface
func (f *Format) Set(value string) error {
	parsed, err := ParseFormat(value)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements the pflag.Value interface
func (f *Format) Type() string {
	return "format"
}

// UnmarshalText allows formats in config files to use synonyms and any casing
//
// An empty value unsets the format so the caller's default applies
func (f *Format) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*f = ""
		return nil
	}
	return f.Set(string(text))
}

// JSONSchema describes the accepted tokens for a format
func (Format) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Schema format, \"json\" and \"protobuf\" are accepted as synonyms",
		Enum:        []any{"jsonschema", "json", "avro", "java", "proto", "protobuf"},
	}
}
