package display

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Info is everything the help screen shows about a command.
type Info struct {
	Name        string
	Description string
	Flags       []Flag

	// HelpShort and VersionShort are the shorthands of the built-in flags,
	// empty when a user flag already claims them.
	HelpShort    string
	Version      bool
	VersionShort string
}

// Flag is the help view of one generated flag.
type Flag struct {
	Long     string
	Short    string
	Aliases  []string
	Usage    string
	Default  string
	Required bool
	Toggle   bool
}

var (
	heading = color.New(color.Bold, color.Underline).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// BuildHelp renders the full help screen:
//   - the usage line, listing required flags
//   - the description, if any
//   - an Options section with every flag, aligned on the descriptions
func BuildHelp(info Info) string {
	var builder strings.Builder
	builder.WriteString(BuildUsage(info))

	if info.Description != "" {
		builder.WriteString("\n" + info.Description + "\n")
	}

	builder.WriteString("\n" + heading("Options:") + "\n")
	builder.WriteString(optionsHelp(info))

	return builder.String()
}

// BuildUsage renders the one-line usage summary.
func BuildUsage(info Info) string {
	var builder strings.Builder
	builder.WriteString(heading("Usage:") + " ")
	builder.WriteString(bold(info.Name))

	for _, f := range info.Flags {
		if f.Required {
			builder.WriteString(fmt.Sprintf(" --%s <%s>", f.Long, placeholder(f)))
		}
	}
	builder.WriteString(" [OPTIONS]\n")
	return builder.String()
}

// === HELPERS ===

// optionsHelp generates one aligned line per flag, followed by the built-in
// help and version flags.
func optionsHelp(info Info) string {
	var lines []string
	maxLen := 0

	add := func(flag, desc string) {
		if len(flag) > maxLen {
			maxLen = len(flag)
		}
		lines = append(lines, flag+"||"+desc)
	}

	for _, f := range info.Flags {
		names := "--" + f.Long
		for _, a := range f.Aliases {
			names += ", " + a
		}
		if f.Short != "" {
			names = fmt.Sprintf("  -%s, %s", f.Short, names)
		} else {
			names = "      " + names
		}
		if !f.Toggle {
			names += fmt.Sprintf(" [%s]", placeholder(f))
		}
		add(names, describe(f))
	}

	add(shortPrefix(info.HelpShort)+"--help", "Show this help message")
	if info.Version {
		add(shortPrefix(info.VersionShort)+"--version", "Show version information")
	}

	// Format with aligned descriptions
	var builder strings.Builder
	for _, line := range lines {
		parts := strings.SplitN(line, "||", 2)
		padding := strings.Repeat(" ", maxLen-len(parts[0]))
		builder.WriteString(strings.TrimRight(fmt.Sprintf("%s%s  %s", parts[0], padding, parts[1]), " ") + "\n")
	}
	return builder.String()
}

func shortPrefix(short string) string {
	if short == "" {
		return "      "
	}
	return "  -" + short + ", "
}

func placeholder(f Flag) string {
	return strings.ToUpper(strings.ReplaceAll(f.Long, "-", "_"))
}

func describe(f Flag) string {
	desc := f.Usage
	switch {
	case f.Required:
		desc = strings.TrimSpace(desc + " (required)")
	case f.Default != "" && !f.Toggle:
		desc = strings.TrimSpace(fmt.Sprintf("%s (default: %s)", desc, f.Default))
	}
	return desc
}
