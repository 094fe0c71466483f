package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Entry records how one output file was generated.
type Entry struct {
	OutputPath   string
	HeaderPath   string
	HeaderHash   string
	ConfigHash   string
	Declarations int
	GeneratedAt  time.Time
}

// Record stores e, replacing any previous entry for the same output.
func (c *Cache) Record(e Entry) error {
	generatedAt := e.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO outputs
			(output_path, header_path, header_hash, config_hash, declarations, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.OutputPath, e.HeaderPath, e.HeaderHash, e.ConfigHash, e.Declarations,
		generatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record output %s: %w", e.OutputPath, err)
	}
	return nil
}

// Get retrieves the entry for an output file.
// Returns sql.ErrNoRows if the output has never been recorded.
func (c *Cache) Get(outputPath string) (*Entry, error) {
	var (
		e           Entry
		generatedAt string
	)
	err := c.db.QueryRow(`
		SELECT output_path, header_path, header_hash, config_hash, declarations, generated_at
		FROM outputs WHERE output_path = ?`, outputPath).
		Scan(&e.OutputPath, &e.HeaderPath, &e.HeaderHash, &e.ConfigHash, &e.Declarations, &generatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get output %s: %w", outputPath, err)
	}
	e.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
	return &e, nil
}

// IsStale reports whether outputPath must be regenerated: it was never
// recorded, or it was produced from a different header or configuration.
func (c *Cache) IsStale(outputPath, headerHash, configHash string) (bool, error) {
	e, err := c.Get(outputPath)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return e.HeaderHash != headerHash || e.ConfigHash != configHash, nil
}

// All retrieves every entry ordered by output path.
func (c *Cache) All() ([]Entry, error) {
	rows, err := c.db.Query(`
		SELECT output_path, header_path, header_hash, config_hash, declarations, generated_at
		FROM outputs ORDER BY output_path`)
	if err != nil {
		return nil, fmt.Errorf("query outputs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			generatedAt string
		)
		if err := rows.Scan(&e.OutputPath, &e.HeaderPath, &e.HeaderHash, &e.ConfigHash, &e.Declarations, &generatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Delete removes the entry for an output file.
func (c *Cache) Delete(outputPath string) error {
	if _, err := c.db.Exec("DELETE FROM outputs WHERE output_path = ?", outputPath); err != nil {
		return fmt.Errorf("delete output %s: %w", outputPath, err)
	}
	return nil
}

// Prune removes entries whose output file no longer exists on disk and
// returns how many were removed.
func (c *Cache) Prune() (int, error) {
	entries, err := c.All()
	if err != nil {
		return 0, err
	}

	var pruned int
	for _, e := range entries {
		if _, err := os.Stat(e.OutputPath); !os.IsNotExist(err) {
			continue
		}
		if err := c.Delete(e.OutputPath); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

// HashFile returns the hex SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
