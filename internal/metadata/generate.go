package metadata

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GenerateExtensionMetadata builds the metadata document for a command tree.
// The root command itself is not listed; its subcommands are.
func GenerateExtensionMetadata(schemaVersion, id string, root *cobra.Command) *ExtensionCommandMetadata {
	return &ExtensionCommandMetadata{
		SchemaVersion: schemaVersion,
		ID:            id,
		Commands:      commandList(root),
	}
}

func commandList(cmd *cobra.Command) []Command {
	var commands []Command
	for _, sub := range cmd.Commands() {
		if sub.Use == "" {
			continue
		}
		c := commandMeta(sub)
		if len(c.Name) == 0 {
			continue
		}
		commands = append(commands, c)
	}
	return commands
}

func commandMeta(cmd *cobra.Command) Command {
	c := Command{
		Name:       commandPath(cmd),
		Short:      cmd.Short,
		Long:       cmd.Long,
		Usage:      cmd.UseLine(),
		Examples:   exampleList(cmd),
		Args:       argList(cmd),
		Flags:      flagList(cmd),
		Hidden:     cmd.Hidden,
		Aliases:    cmd.Aliases,
		Deprecated: cmd.Deprecated,
	}
	if cmd.HasSubCommands() {
		c.Subcommands = commandList(cmd)
	}
	return c
}

// commandPath walks up to the root and returns the name path below it. The
// root's own name is excluded: azd prefixes commands with the extension
// namespace itself.
func commandPath(cmd *cobra.Command) []string {
	var path []string
	for c := cmd; c != nil && c.Use != ""; c = c.Parent() {
		path = append([]string{c.Name()}, path...)
	}
	if len(path) > 0 {
		path = path[1:]
	}
	return path
}

func exampleList(cmd *cobra.Command) []CommandExample {
	if cmd.Example == "" {
		return nil
	}
	return []CommandExample{{
		Description: "Usage example",
		Command:     cmd.Example,
	}}
}

// argList derives positional arguments from the use line: "<name>" is
// required, "[name]" optional, and a trailing "..." marks it variadic.
func argList(cmd *cobra.Command) []Argument {
	fields := strings.Fields(cmd.Use)
	if len(fields) < 2 {
		return nil
	}

	var args []Argument
	for _, f := range fields[1:] {
		required := strings.HasPrefix(f, "<")
		optional := strings.HasPrefix(f, "[")
		if !required && !optional {
			continue
		}
		name := strings.Trim(f, "<>[].")
		variadic := strings.Contains(f, "...")
		if name == "" {
			continue
		}
		args = append(args, Argument{
			Name:     name,
			Required: required,
			Variadic: variadic,
		})
	}
	return args
}

func flagList(cmd *cobra.Command) []Flag {
	cmd.InitDefaultHelpFlag()
	var flags []Flag
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		meta := Flag{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        flagType(f),
			Hidden:      f.Hidden,
			Deprecated:  f.Deprecated,
		}
		if f.DefValue != "" {
			meta.Default = f.DefValue
		}
		flags = append(flags, meta)
	})
	return flags
}

func flagType(f *pflag.Flag) string {
	switch f.Value.Type() {
	case "bool":
		return "bool"
	case "int", "int32", "int64":
		return "int"
	case "stringSlice", "stringArray":
		return "stringArray"
	case "intSlice":
		return "intArray"
	default:
		return "string"
	}
}
