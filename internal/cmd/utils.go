package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/renpy/pxdgen/internal/ast"
	"github.com/renpy/pxdgen/internal/cache"
	"github.com/renpy/pxdgen/internal/config"
	"github.com/renpy/pxdgen/internal/parser"
)

// loadConfig returns the --config file if given, else the nearest
// .pxdgen/config.yaml, else the built-in defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}

// manifestDir returns the directory that holds the manifest database:
// the directory of --config, else the nearest .pxdgen directory. create
// makes .pxdgen in the working directory when neither exists.
func manifestDir(create bool) (string, error) {
	if configPath != "" {
		return filepath.Abs(filepath.Dir(configPath))
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	dir, err := config.FindConfigDir(cwd)
	if err == nil {
		return dir, nil
	}
	if !errors.Is(err, config.ErrConfigNotFound) || !create {
		return "", err
	}
	return config.EnsureConfigDir(cwd)
}

// openManifest opens the manifest database.
func openManifest(create bool) (*cache.Cache, error) {
	dir, err := manifestDir(create)
	if err != nil {
		return nil, err
	}
	return cache.Open(dir)
}

// parseHeader parses a header file and builds its AST. Syntax errors fail
// the parse unless allowErrors is set, in which case they are logged.
func parseHeader(ctx context.Context, path string, allowErrors bool, logger *slog.Logger) (*ast.TranslationUnit, error) {
	p, err := parser.NewParser()
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	defer p.Close()

	result, err := p.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	if errs := result.Errors(); len(errs) > 0 {
		if !allowErrors {
			return nil, &parser.SyntaxErrors{Errs: errs}
		}
		for _, e := range errs {
			logger.Warn("syntax error", "error", e)
		}
	}

	tu, err := ast.Build(result)
	if err != nil {
		return nil, fmt.Errorf("building ast for %s: %w", path, err)
	}
	logger.Debug("parsed header", "path", path, "declarations", len(tu.Ext))
	return tu, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial listing.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
