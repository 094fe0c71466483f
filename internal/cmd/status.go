package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/renpy/pxdgen/internal/cache"
	"github.com/renpy/pxdgen/internal/config"
	"github.com/renpy/pxdgen/internal/output"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show generated outputs and whether they are stale",
	Long: `List every output recorded in the manifest and report whether it would
be regenerated: an output is stale when its header contents or the
configuration changed since it was written, or when it no longer exists.

Output is YAML by default; use --format json for scripts.

Examples:
  pxdgen status                 # Show all outputs
  pxdgen status --format json   # JSON output for scripts
  pxdgen status --prune         # Forget outputs that were deleted`,
	RunE: runStatus,
}

var (
	statusFormat string
	statusPrune  bool
)

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusFormat, "format", "yaml", "Output format (yaml|json)")
	statusCmd.Flags().BoolVar(&statusPrune, "prune", false, "Remove entries whose output file is gone")
}

// StatusOutput represents the status output structure
type StatusOutput struct {
	Manifest ManifestStatus `json:"manifest" yaml:"manifest"`
	Outputs  []OutputStatus `json:"outputs" yaml:"outputs"`
}

// ManifestStatus represents manifest-level information
type ManifestStatus struct {
	Path         string `json:"path" yaml:"path"`
	Initialized  bool   `json:"initialized" yaml:"initialized"`
	Outputs      int64  `json:"outputs" yaml:"outputs"`
	Headers      int64  `json:"headers" yaml:"headers"`
	Declarations int64  `json:"declarations" yaml:"declarations"`
	Pruned       int    `json:"pruned,omitempty" yaml:"pruned,omitempty"`
}

// OutputStatus represents one generated file
type OutputStatus struct {
	Output       string `json:"output" yaml:"output"`
	Header       string `json:"header" yaml:"header"`
	Declarations int    `json:"declarations" yaml:"declarations"`
	Generated    string `json:"generated" yaml:"generated"`
	Stale        bool   `json:"stale" yaml:"stale"`
	Reason       string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	var status StatusOutput

	dir, err := manifestDir(false)
	if errors.Is(err, config.ErrConfigNotFound) {
		return writeStatus(cmd, status)
	}
	if err != nil {
		return err
	}

	manifest, err := cache.Open(dir)
	if err != nil {
		return err
	}
	defer manifest.Close()

	status.Manifest.Path = manifest.Path()
	status.Manifest.Initialized = true

	if statusPrune {
		pruned, err := manifest.Prune()
		if err != nil {
			return err
		}
		status.Manifest.Pruned = pruned
	}

	stats, err := manifest.GetStats()
	if err != nil {
		return err
	}
	status.Manifest.Outputs = stats.Outputs
	status.Manifest.Headers = stats.Headers
	status.Manifest.Declarations = stats.Declarations

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configHash, err := cfg.Fingerprint()
	if err != nil {
		return err
	}

	entries, err := manifest.All()
	if err != nil {
		return err
	}
	for _, e := range entries {
		st := OutputStatus{
			Output:       e.OutputPath,
			Header:       e.HeaderPath,
			Declarations: e.Declarations,
			Generated:    e.GeneratedAt.Local().Format(time.DateTime),
		}
		st.Reason = staleReason(e, configHash)
		st.Stale = st.Reason != ""
		status.Outputs = append(status.Outputs, st)
	}

	return writeStatus(cmd, status)
}

// staleReason explains why e needs regenerating, or returns "".
func staleReason(e cache.Entry, configHash string) string {
	if _, err := os.Stat(e.OutputPath); err != nil {
		return "output missing"
	}
	headerHash, err := cache.HashFile(e.HeaderPath)
	if err != nil {
		return "header unreadable"
	}
	if headerHash != e.HeaderHash {
		return "header changed"
	}
	if configHash != e.ConfigHash {
		return "config changed"
	}
	return ""
}

func writeStatus(cmd *cobra.Command, status StatusOutput) error {
	out := cmd.OutOrStdout()
	if !status.Manifest.Initialized && statusFormat == "yaml" {
		fmt.Fprintln(out, "No outputs recorded.")
		fmt.Fprintln(out, "Run 'pxdgen generate <header> -o <file>' to create one.")
		return nil
	}
	return output.Write(out, statusFormat, status)
}
