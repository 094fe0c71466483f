package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/renpy/pxdgen/internal/cache"
	"github.com/renpy/pxdgen/internal/config"
	"github.com/renpy/pxdgen/internal/pxd"
	"github.com/renpy/pxdgen/internal/watch"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <header>",
	Short: "Write the .pxd listing for a preprocessed header",
	Long: `Parse a preprocessed C header and write its Cython declarations.

Without --output the listing goes to stdout. With --output the file is
written atomically and recorded in the manifest (.pxdgen/manifest.db); a
later run with the same header contents and configuration is skipped.

Syntax errors in the header fail the run unless --allow-errors is given,
in which case they are logged and the parseable declarations are emitted.`,
	Example: `  pxdgen generate sdl2.i                 # Listing to stdout
  pxdgen generate sdl2.i -o sdl2.pxd     # Write if out of date
  pxdgen generate sdl2.i -o sdl2.pxd -f  # Always rewrite
  pxdgen generate sdl2.i -o sdl2.pxd --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	generateOutput      string
	generateForce       bool
	generateWatch       bool
	generateAllowErrors bool
	generateNoPreamble  bool
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default: stdout)")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Regenerate even if the output is up to date")
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate whenever the header changes")
	generateCmd.Flags().BoolVar(&generateAllowErrors, "allow-errors", false, "Emit what parses even if the header has syntax errors")
	generateCmd.Flags().BoolVar(&generateNoPreamble, "no-preamble", false, "Write the declarations only")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	header := args[0]

	if generateWatch && generateOutput == "" {
		return fmt.Errorf("--watch requires --output")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := generateOnce(ctx, cmd, cfg, logger, header); err != nil {
		return err
	}
	if !generateWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(watch.Config{Paths: []string{header}}, logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", header)
	return w.Watch(ctx, func(path string) error {
		return generateOnce(ctx, cmd, cfg, logger, path)
	})
}

// generateOnce runs the pipeline for one header.
func generateOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, header string) error {
	if generateOutput == "" {
		var buf bytes.Buffer
		if _, err := render(ctx, cfg, logger, header, &buf); err != nil {
			return err
		}
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}

	outPath, err := filepath.Abs(generateOutput)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}
	headerPath, err := filepath.Abs(header)
	if err != nil {
		return fmt.Errorf("resolving header path: %w", err)
	}

	headerHash, err := cache.HashFile(headerPath)
	if err != nil {
		return err
	}
	configHash, err := cfg.Fingerprint()
	if err != nil {
		return err
	}

	manifest, err := openManifest(true)
	if err != nil {
		logger.Warn("manifest unavailable, output will not be recorded", "error", err)
	} else {
		defer manifest.Close()
	}

	if manifest != nil && !generateForce {
		stale, err := manifest.IsStale(outPath, headerHash, configHash)
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(outPath); !stale && statErr == nil {
			logger.Info("output up to date", "output", outPath)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s is up to date\n", generateOutput)
			return nil
		}
	}

	var buf bytes.Buffer
	stats, err := render(ctx, cfg, logger, header, &buf)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(outPath, buf.Bytes()); err != nil {
		return err
	}

	if manifest != nil {
		err := manifest.Record(cache.Entry{
			OutputPath:   outPath,
			HeaderPath:   headerPath,
			HeaderHash:   headerHash,
			ConfigHash:   configHash,
			Declarations: stats.Declarations,
			GeneratedAt:  time.Now(),
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d declarations to %s\n", stats.Declarations, generateOutput)
	return nil
}

// render parses header and writes the listing to buf.
func render(ctx context.Context, cfg *config.Config, logger *slog.Logger, header string, buf *bytes.Buffer) (pxd.Stats, error) {
	tu, err := parseHeader(ctx, header, generateAllowErrors, logger)
	if err != nil {
		return pxd.Stats{}, err
	}

	drv := pxd.NewDriver(cfg, logger)
	run := drv.Generate
	if generateNoPreamble {
		run = drv.Run
	}

	stats, err := run(tu, buf)
	if err != nil {
		return stats, err
	}

	logger.Info("generated declarations",
		"header", header,
		"seen", stats.Seen,
		"filtered", stats.Filtered,
		"unhandled", stats.Unhandled,
		"declarations", stats.Declarations,
		"fallbacks", stats.Fallbacks,
		"synthetic", stats.Synthetic,
	)
	return stats, nil
}
