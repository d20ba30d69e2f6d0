// Package schemas embeds the JSON Schema documents that validate
// skillcheck's YAML input files.
package schemas

import _ "embed"

// ScenariosSchemaJSON is the JSON Schema for scenarios.yaml files.
//
//go:embed scenarios.schema.json
var ScenariosSchemaJSON string
