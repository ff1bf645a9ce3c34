package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/text/language"

	"github.com/pgltd/polyglot/builder"
	"github.com/pgltd/polyglot/csvfile"
	"github.com/pgltd/polyglot/langmeta"
)

// Options configures a generation run. The struct is treated as immutable
// once handed to NewDirector.
type Options struct {
	// LocaleFiles are the dataset files to process, one worker each.
	LocaleFiles []string
	// MasterPath is the master (en.csv) file defining platform eligibility.
	MasterPath string
	// MasterDir is the optional master-override directory; strings from
	// here fill keys the locale files miss.
	MasterDir string
	// OutputRoot is the directory artifacts are written under.
	OutputRoot string
	// Platforms are the requested platform tags ("any" expands to all
	// supported ones).
	Platforms []string
	// EnableComments forwards 5th-column comments to the builders.
	EnableComments bool
	// BlackberryPackage overrides the .rrh Java package.
	BlackberryPackage string
	// MaxConcurrent bounds the worker pool; values below 2 run
	// sequentially in file order.
	MaxConcurrent int

	// Writer persists artifacts. Defaults to OSWriter.
	Writer ArtifactWriter
	// OnLog and OnWarn receive progress and row-level problems.
	OnLog  func(format string, args ...any)
	OnWarn func(format string, args ...any)
}

// Director manages one worker per locale file.
type Director struct {
	opts      Options
	platforms []string
	names     *nameReserver
}

// NewDirector validates the platform selection and prepares a run.
// Unknown platform tags abort the whole run up front.
func NewDirector(opts Options) (*Director, error) {
	platforms := expandPlatforms(opts.Platforms)
	for _, p := range platforms {
		if _, err := builder.New(p, builder.Options{}); err != nil {
			return nil, err
		}
	}
	if opts.Writer == nil {
		opts.Writer = OSWriter{}
	}
	return &Director{
		opts:      opts,
		platforms: platforms,
		names:     newNameReserver(),
	}, nil
}

// expandPlatforms resolves "any" and removes duplicates, preserving order.
func expandPlatforms(requested []string) []string {
	for _, p := range requested {
		if p == builder.PlatformAny {
			return append([]string(nil), builder.SupportedPlatforms...)
		}
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range requested {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

type localeTask struct {
	path   string
	lc, cc string
}

// Run generates artifacts for every locale file. Locale-code derivation
// failures are usage errors and abort before any output is written.
func (d *Director) Run(ctx context.Context) error {
	pk, err := BuildPlatformKeyMap(d.opts.MasterPath, d.opts.MasterDir, d.rowError)
	if err != nil {
		return err
	}

	var tasks []localeTask
	for _, path := range d.opts.LocaleFiles {
		lc, cc, err := SplitLocale(path)
		if err != nil {
			return err
		}
		if _, perr := language.Parse(lc); perr != nil {
			d.warn("%q does not look like a language code (from %s)", lc, filepath.Base(path))
		}
		tasks = append(tasks, localeTask{path: path, lc: lc, cc: cc})
	}

	if err := runParallel(ctx, tasks, d.opts.MaxConcurrent, func(ctx context.Context, t localeTask) error {
		return d.processLocale(t, pk)
	}); err != nil {
		return err
	}

	if d.selected(builder.PlatformBlackberry) {
		d.log("NOTE: if your Blackberry target OS is 5.0 or lower, copy each %[1]s_xx_YY.rrc/.rrh to a region-less %[1]s_xx name by hand", "LocalizedStrings")
	}
	return nil
}

func (d *Director) processLocale(t localeTask, pk PlatformKeyMap) error {
	meta := langmeta.Resolve(t.lc)
	d.log("Processing '%s' (%s)...", t.path, meta.Name)

	locale, err := csvfile.ReadFile(t.path, d.rowError)
	if err != nil {
		return err
	}

	var override *csvfile.File
	if d.opts.MasterDir != "" {
		overridePath := filepath.Join(d.opts.MasterDir, filepath.Base(t.path))
		if _, serr := os.Stat(overridePath); serr == nil {
			override, err = csvfile.ReadFile(overridePath, d.rowError)
			if err != nil {
				return err
			}
		} else {
			d.warn("no master copy for %s in %s, fallback skipped", filepath.Base(t.path), d.opts.MasterDir)
		}
	}

	w, err := NewWorker(d.platforms, t.lc, t.cc, builder.Options{BlackberryPackage: d.opts.BlackberryPackage})
	if err != nil {
		return err
	}
	w.Process(locale, override, pk, d.opts.EnableComments)

	written, err := w.Emit(d.opts.OutputRoot, d.opts.Writer, d.names)
	for _, path := range written {
		d.log("Generated '%s'", path)
	}
	return err
}

func (d *Director) selected(platform string) bool {
	for _, p := range d.platforms {
		if p == platform {
			return true
		}
	}
	return false
}

func (d *Director) rowError(path string, line int, fields []string) {
	d.warn("%s:%d: row has too few fields, skipped: %v", path, line, fields)
}

func (d *Director) log(format string, args ...any) {
	if d.opts.OnLog != nil {
		d.opts.OnLog(format, args...)
	}
}

func (d *Director) warn(format string, args ...any) {
	if d.opts.OnWarn != nil {
		d.opts.OnWarn(format, args...)
	}
}

// runParallel executes tasks with a bounded worker pool. maxConcurrent
// below 2 degrades to a plain sequential loop; the first failure is
// reported after all launched workers finish.
func runParallel[T any](ctx context.Context, tasks []T, maxConcurrent int, fn func(context.Context, T) error) error {
	if maxConcurrent < 2 {
		for _, t := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}

	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(t T) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(ctx, t); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}(t)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// DiscoverLocaleFiles lists the dataset files in a directory, sorted by
// name. The master file is included — it is itself a locale (English).
func DiscoverLocaleFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+csvfile.Ext))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	return paths, nil
}
