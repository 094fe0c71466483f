package cmd

import (
	"context"

	"github.com/renpy/pxdgen/internal/ast"
	"github.com/renpy/pxdgen/internal/filter"
	"github.com/renpy/pxdgen/internal/pxd"
	"github.com/spf13/cobra"
)

// astCmd represents the ast command
var astCmd = &cobra.Command{
	Use:   "ast <header>",
	Short: "Dump the parsed top-level declarations as YAML",
	Long: `Parse a preprocessed C header and print its top-level declarations as
a YAML sequence, one mapping per node.

By default only the declarations that pass the name filter are shown, which
is exactly what generate would emit. Use --all to see everything and
--strip to see the nodes after qualifiers and storage classes are removed.`,
	Example: `  pxdgen ast sdl2.i
  pxdgen ast sdl2.i --all
  pxdgen ast sdl2.i --strip`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

var (
	astAll   bool
	astStrip bool
)

func init() {
	rootCmd.AddCommand(astCmd)
	astCmd.Flags().BoolVarP(&astAll, "all", "a", false, "Include declarations rejected by the filter")
	astCmd.Flags().BoolVar(&astStrip, "strip", false, "Show nodes with qualifiers and storage removed")
}

func runAST(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tu, err := parseHeader(ctx, args[0], true, logger)
	if err != nil {
		return err
	}

	f := filter.New(cfg.Filter)
	var nodes []ast.Node
	for _, n := range tu.Ext {
		if !astAll && !f.Check(n) {
			continue
		}
		if astStrip {
			n = pxd.Strip(n)
		}
		nodes = append(nodes, n)
	}

	return ast.WriteYAML(cmd.OutOrStdout(), nodes)
}
