// Package cmd contains all CLI commands for pxdgen.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is the current version of pxdgen
	Version = "0.1.0"

	// Global flags
	verbose    bool
	configPath string
	logLevel   string
	forAgents  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pxdgen",
	Short: "Generate Cython declarations from a preprocessed C header",
	Long: `pxdgen reads a preprocessed C header (the output of cc -E) and writes
a Cython .pxd listing of its declarations.

Only declarations that belong to the wrapped library are kept. Nested
anonymous structs and unions are hoisted into named top-level declarations,
qualifiers and storage classes are dropped, and everything else is printed
as a single line of C.

The name tables and the preamble come from .pxdgen/config.yaml, found by
walking up from the working directory. Without a config file the built-in
SDL2 tables are used.

Examples:
  pxdgen generate sdl2.i -o sdl2.pxd   # Write the listing
  pxdgen ast sdl2.i                    # Dump the parsed declarations
  pxdgen check SDL_Init SDL_dummy_x    # Explain filter decisions
  pxdgen init                          # Write the default config

See 'pxdgen <command> --help' for command-specific options.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .pxdgen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Accept --log_level as well as --log-level
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd, cmd.OutOrStdout())
			return
		}
		originalHelp(cmd, args)
	})
}

func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// newLogger returns a text logger on stderr. The level comes from
// --log-level, then -v, then the configured level.
func newLogger(w io.Writer, configured string) *slog.Logger {
	level := configured
	if verbose {
		level = "debug"
	}
	if logLevel != "" {
		level = logLevel
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command, w io.Writer) {
	root := buildCommandInfo(cmd.Root())

	output := map[string]interface{}{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
