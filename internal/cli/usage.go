package cli

import (
	"fmt"
	"io"
)

// CommandInfo describes a tool for its usage message
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	Examples    []string
	Flags       []FlagInfo
}

// FlagInfo represents information about a command flag
type FlagInfo struct {
	Short   rune
	Arg     string
	Usage   string
	Default string
}

// PrintUsage writes a standardized usage message
func PrintUsage(w io.Writer, cmd CommandInfo) {
	fmt.Fprintf(w, "%s - %s\n\n", cmd.Name, cmd.Description)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s\n\n", cmd.Usage)

	if len(cmd.Flags) > 0 {
		fmt.Fprintf(w, "OPTIONS:\n")
		for _, flag := range cmd.Flags {
			flagStr := fmt.Sprintf("    -%c", flag.Short)
			if flag.Arg != "" {
				flagStr += " " + flag.Arg
			}
			fmt.Fprintf(w, "%-16s %s\n", flagStr, flag.Usage)
			if flag.Default != "" {
				fmt.Fprintf(w, "%-16s Default: %s\n", "", flag.Default)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	if len(cmd.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range cmd.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
		fmt.Fprintf(w, "\n")
	}
}
