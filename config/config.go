// Package config resolves the run configuration for the polyglot
// commands: dataset paths, output location, platform selection and
// per-platform options.
//
// Settings are layered lowest to highest: built-in defaults, the
// .polyglot.yaml project file next to the dataset, POLYGLOT_* environment
// variables, command-line flags. The resolved Config is immutable and
// passed into the generate/analyze/simplify constructors.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pgltd/polyglot/builder"
	"github.com/pgltd/polyglot/csvfile"
)

// ErrMasterMissing is returned when the dataset directory lacks the
// master en.csv file.
var ErrMasterMissing = errors.New("master file not found")

// Settings are the tunable knobs before path resolution. Zero values mean
// "use the default".
type Settings struct {
	// OutputDir is where generated artifacts are placed.
	OutputDir string
	// Platforms is the requested platform tag list ("any" = all supported).
	Platforms []string
	// MasterDir enables master-override mode when non-empty.
	MasterDir string
	// EnableComments forwards 5th-column comments into the artifacts.
	EnableComments bool
	// BlackberryPackage is the Java package for .rrh headers.
	BlackberryPackage string
	// MaxConcurrent bounds the per-locale worker pool (<2 = sequential).
	MaxConcurrent int
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		OutputDir:         "output",
		Platforms:         []string{builder.PlatformAny},
		BlackberryPackage: builder.DefaultBlackberryPackage,
		MaxConcurrent:     1,
	}
}

// ApplyEnv overlays POLYGLOT_* environment variables. Unset variables
// leave the current value alone.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("POLYGLOT_OUTPUT_DIR"); v != "" {
		s.OutputDir = v
	}
	if v := os.Getenv("POLYGLOT_PLATFORMS"); v != "" {
		s.Platforms = strings.Fields(v)
	}
	if v := os.Getenv("POLYGLOT_MASTER_DIR"); v != "" {
		s.MasterDir = v
	}
	if v := os.Getenv("POLYGLOT_BB_PACKAGE"); v != "" {
		s.BlackberryPackage = v
	}
	if v := os.Getenv("POLYGLOT_ENABLE_COMMENTS"); v != "" {
		s.EnableComments = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("POLYGLOT_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxConcurrent = n
		}
	}
}

// Config is the fully resolved, immutable run configuration.
type Config struct {
	// CSVRoot is the dataset directory.
	CSVRoot string
	// MasterPath is the master en.csv inside CSVRoot.
	MasterPath string
	// LocaleFiles are the dataset files to process, sorted by name.
	LocaleFiles []string
	// BatchMode is true when a whole directory was given.
	BatchMode bool

	Settings
}

// Resolve validates the dataset path (a single CSV file or a directory of
// them) and locates the master file. A missing path or missing master is
// a usage error that aborts the run.
func Resolve(path string, s Settings) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist, please specify a CSV file or dataset directory", path)
	}

	cfg := &Config{Settings: s}

	if info.IsDir() {
		cfg.BatchMode = true
		cfg.CSVRoot = filepath.Clean(path)

		cfg.MasterPath = filepath.Join(cfg.CSVRoot, csvfile.MasterFileName)
		if _, err := os.Stat(cfg.MasterPath); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMasterMissing, cfg.MasterPath)
		}

		files, err := filepath.Glob(filepath.Join(cfg.CSVRoot, "*"+csvfile.Ext))
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", cfg.CSVRoot, err)
		}
		sort.Strings(files)
		for _, f := range files {
			abs, err := filepath.Abs(f)
			if err != nil {
				return nil, err
			}
			cfg.LocaleFiles = append(cfg.LocaleFiles, abs)
		}
	} else {
		cfg.CSVRoot = filepath.Dir(path)

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		cfg.LocaleFiles = []string{abs}

		cfg.MasterPath = filepath.Join(cfg.CSVRoot, csvfile.MasterFileName)
		if _, err := os.Stat(cfg.MasterPath); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMasterMissing, cfg.MasterPath)
		}
	}

	return cfg, nil
}
