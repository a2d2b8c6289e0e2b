// Package config resolves the pipeline's file layout from configuration.
//
// Paths is the only way locations flow into the pipeline: every stage
// receives explicit paths, nothing below cmd/ consults the working
// directory or the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Paths is the explicit file layout for one pipeline run.
type Paths struct {
	// Input is the raw sales log.
	Input string
	// OutputDir receives the cleaned table, items list and matrix artifact.
	OutputDir string
	// BatchDir receives the per-month batch files.
	BatchDir string
	// ReducedDir receives the projected batch files.
	ReducedDir string
	// Compress writes the matrix and batch files gzip-compressed.
	Compress bool
}

// Load resolves Paths from viper configuration, applying defaults for
// everything but the input path.
func Load() (Paths, error) {
	p := Paths{
		Input:      ExpandPath(viper.GetString("paths.input")),
		OutputDir:  ExpandPath(viper.GetString("paths.output_dir")),
		BatchDir:   ExpandPath(viper.GetString("paths.batch_dir")),
		ReducedDir: ExpandPath(viper.GetString("paths.reduced_dir")),
		Compress:   viper.GetBool("paths.compress"),
	}

	if p.Input == "" {
		return Paths{}, fmt.Errorf("no input file configured (set paths.input or pass --input)")
	}
	if p.OutputDir == "" {
		p.OutputDir = filepath.Dir(p.Input)
	}
	if p.BatchDir == "" {
		p.BatchDir = filepath.Join(p.OutputDir, "batches")
	}
	if p.ReducedDir == "" {
		p.ReducedDir = filepath.Join(p.OutputDir, "batches_reduced")
	}

	return p, nil
}

func (p Paths) ext() string {
	if p.Compress {
		return ".csv.gz"
	}
	return ".csv"
}

// Cleaned is the cleaned record table path.
func (p Paths) Cleaned() string {
	return filepath.Join(p.OutputDir, "cleaned"+p.ext())
}

// Items is the persisted catalog item list path.
func (p Paths) Items() string {
	return filepath.Join(p.OutputDir, "items.txt")
}

// Matrix is the matrix artifact path.
func (p Paths) Matrix() string {
	return filepath.Join(p.OutputDir, "matrix"+p.ext())
}

// ExpandPath expands a leading ~ and environment variables in a path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}
