package cmd

import (
	"fmt"

	"github.com/renpy/pxdgen/internal/filter"
	"github.com/renpy/pxdgen/internal/output"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <name>...",
	Short: "Explain whether names pass the declaration filter",
	Long: `Report, for each name, whether a top-level declaration with that name
would be emitted and which rule decided it.

Rules are tried in order: exclude, include, debug prefix, library prefix,
and finally the default, which drops the name.`,
	Example: `  pxdgen check SDL_Init Uint32 SDL_dummy_uint8 FILE
  pxdgen check SDL_vsnprintf --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

var checkFormat string

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "Output format (text|yaml|json)")
}

// checkResult is the structured form of a filter.Verdict.
type checkResult struct {
	Name    string `json:"name" yaml:"name"`
	Allowed bool   `json:"allowed" yaml:"allowed"`
	Rule    string `json:"rule" yaml:"rule"`
	Match   string `json:"match,omitempty" yaml:"match,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := filter.New(cfg.Filter)

	out := cmd.OutOrStdout()
	if checkFormat != "text" {
		results := make([]checkResult, 0, len(args))
		for _, name := range args {
			v := f.Explain(name)
			results = append(results, checkResult{
				Name:    v.Name,
				Allowed: v.Allowed,
				Rule:    string(v.Rule),
				Match:   v.Match,
			})
		}
		return output.Write(out, checkFormat, results)
	}

	width := 0
	for _, name := range args {
		width = max(width, len(name))
	}
	for _, name := range args {
		v := f.Explain(name)
		verdict := "drop"
		if v.Allowed {
			verdict = "keep"
		}
		if v.Match != "" && v.Match != v.Name {
			fmt.Fprintf(out, "%-*s  %s  %s %q\n", width, v.Name, verdict, v.Rule, v.Match)
		} else {
			fmt.Fprintf(out, "%-*s  %s  %s\n", width, v.Name, verdict, v.Rule)
		}
	}
	return nil
}
