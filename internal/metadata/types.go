// Package metadata serializes the skillcheck command tree into azd extension
// metadata. The types mirror the azure-dev/cli/azd/pkg/extensions schema
// field for field so the JSON output is wire-compatible; they are defined
// locally so the binary does not link the azure-dev module, and compatibility
// is asserted in tests instead.
package metadata

// ExtensionCommandMetadata is the document azd reads to learn an extension's
// command surface.
type ExtensionCommandMetadata struct {
	SchemaVersion string    `json:"schemaVersion"`
	ID            string    `json:"id"`
	Commands      []Command `json:"commands"`
}

// Command describes one command in the tree. Name is the full path relative
// to the extension root, e.g. ["cache", "clear"].
type Command struct {
	Name        []string         `json:"name"`
	Short       string           `json:"short"`
	Long        string           `json:"long,omitempty"`
	Usage       string           `json:"usage,omitempty"`
	Examples    []CommandExample `json:"examples,omitempty"`
	Args        []Argument       `json:"args,omitempty"`
	Flags       []Flag           `json:"flags,omitempty"`
	Subcommands []Command        `json:"subcommands,omitempty"`
	Hidden      bool             `json:"hidden,omitempty"`
	Aliases     []string         `json:"aliases,omitempty"`
	Deprecated  string           `json:"deprecated,omitempty"`
}

// CommandExample pairs a description with an invocation line.
type CommandExample struct {
	Description string `json:"description"`
	Command     string `json:"command"`
}

// Argument is a positional argument derived from the command's use line.
type Argument struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Variadic    bool     `json:"variadic,omitempty"`
	ValidValues []string `json:"validValues,omitempty"`
}

// Flag describes a command-line flag.
type Flag struct {
	Name        string   `json:"name"`
	Shorthand   string   `json:"shorthand,omitempty"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Default     any      `json:"default,omitempty"`
	Required    bool     `json:"required,omitempty"`
	ValidValues []string `json:"validValues,omitempty"`
	Hidden      bool     `json:"hidden,omitempty"`
	Deprecated  string   `json:"deprecated,omitempty"`
}
