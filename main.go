// polyglot — converts CSV localization datasets into platform-native resource files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pgltd/polyglot/analyze"
	"github.com/pgltd/polyglot/config"
	"github.com/pgltd/polyglot/generate"
	"github.com/pgltd/polyglot/i18n"
	"github.com/pgltd/polyglot/simplify"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "polyglot",
		Short: "Convert CSV localization datasets into native resource files",
		Long: `polyglot — converts CSV localization datasets into platform-native resource files.

A dataset is a directory of per-locale CSV files (en.csv is the master)
with rows of: key, source text, translated text, platform tags, comment.
polyglot turns them into the resource formats each platform expects, and
can audit the dataset for duplicate and inconsistent entries.

Commands:
  generate    Generate resource files for the selected platforms
  analyze     Report duplicate strings and cross-file integrity gaps
  simplify    Merge duplicate source-text rows of a dataset file
  version     Show version information

Platforms:
  android     res/values-xx/strings.xml
  ios         xx.lproj/Localizable.strings
  wp          LocalizedStrings.xx.resx (Windows Phone / .NET ResX)
  bb          LocalizedStrings_xx.rrc/.rrh (BlackBerry)
  qt          strings_xx.tc (Qt Linguist TS)
  any         all supported platforms (android, ios, wp, bb)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(),
		newAnalyzeCmd(),
		newSimplifyCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	// A .env next to the invocation can pin POLYGLOT_* variables.
	_ = godotenv.Load()
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("Interrupted, finishing started files...")
		cancel()
	}()

	return ctx, cancel
}

// resolveSettings layers defaults, the .polyglot.yaml next to the dataset,
// and POLYGLOT_* environment variables. Flag overrides are applied by the
// caller on top.
func resolveSettings(datasetPath string) (config.Settings, error) {
	s := config.Defaults()

	dir := datasetPath
	if info, err := os.Stat(datasetPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(datasetPath)
	}
	pf, err := config.LoadProjectFile(dir)
	if err != nil {
		return s, err
	}
	s.Apply(pf)
	s.ApplyEnv()

	return s, nil
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("polyglot version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// generate (CSV dataset -> platform resource files)
// ---------------------------------------------------------------------------

type generateFlags struct {
	path           string
	output         string
	platforms      []string
	masterDir      string
	enableComments bool
	bbPackage      string
	parallel       bool
	maxConcurrent  int
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate -p <dataset>",
		Short: "Generate resource files for the selected platforms",
		Long: `Generate platform resource files from a CSV dataset.

The dataset is either a single locale CSV file or a directory of them.
Either way an en.csv master file must sit in the same directory; it
defines which keys each platform receives. Artifacts are written under
the output directory in per-platform trees.

With --master-dir, strings missing from a locale file are filled from
the same-named file in that directory (useful for partially translated
datasets).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.path, "path", "p", "", "Dataset CSV file or directory (required)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory (default \"output\")")
	cmd.Flags().StringSliceVar(&f.platforms, "platform", nil, "Platforms to generate for (android, ios, wp, bb, qt, any)")
	cmd.Flags().StringVarP(&f.masterDir, "master-dir", "m", "", "Directory with master copies for fallback strings")
	cmd.Flags().BoolVar(&f.enableComments, "enable-comments", false, "Forward CSV comments into the generated files")
	cmd.Flags().StringVar(&f.bbPackage, "bb-package", "", "Java package for the BlackBerry resource header")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "Process locale files in parallel")
	cmd.Flags().IntVar(&f.maxConcurrent, "max-concurrent", 0, "Parallel worker limit (implies --parallel)")
	cobra.CheckErr(cmd.MarkFlagRequired("path"))

	return cmd
}

// defaultParallelWorkers is used when --parallel is given without an
// explicit --max-concurrent.
const defaultParallelWorkers = 4

func runGenerate(cmd *cobra.Command, f generateFlags) error {
	s, err := resolveSettings(f.path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		s.OutputDir = f.output
	}
	if cmd.Flags().Changed("platform") {
		s.Platforms = f.platforms
	}
	if cmd.Flags().Changed("master-dir") {
		s.MasterDir = f.masterDir
	}
	if cmd.Flags().Changed("enable-comments") {
		s.EnableComments = f.enableComments
	}
	if cmd.Flags().Changed("bb-package") {
		s.BlackberryPackage = f.bbPackage
	}
	if cmd.Flags().Changed("max-concurrent") {
		s.MaxConcurrent = f.maxConcurrent
	} else if f.parallel && s.MaxConcurrent < 2 {
		s.MaxConcurrent = defaultParallelWorkers
	}
	cfg, err := config.Resolve(f.path, s)
	if err != nil {
		return err
	}

	d, err := generate.NewDirector(generate.Options{
		LocaleFiles:       cfg.LocaleFiles,
		MasterPath:        cfg.MasterPath,
		MasterDir:         cfg.MasterDir,
		OutputRoot:        cfg.OutputDir,
		Platforms:         cfg.Platforms,
		EnableComments:    cfg.EnableComments,
		BlackberryPackage: cfg.BlackberryPackage,
		MaxConcurrent:     cfg.MaxConcurrent,
		OnLog:             logInfo,
		OnWarn:            logWarning,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := d.Run(ctx); err != nil {
		return err
	}
	logSuccess(i18n.T("Done."))
	return nil
}

// ---------------------------------------------------------------------------
// analyze (duplicate and integrity report)
// ---------------------------------------------------------------------------

func newAnalyzeCmd() *cobra.Command {
	var path string
	var cutoff float64
	var maxCandidates int

	cmd := &cobra.Command{
		Use:   "analyze -p <dataset>",
		Short: "Report duplicate strings and cross-file integrity gaps",
		Long: `Analyze a CSV dataset for maintenance problems.

Reports keys defined more than once in the master, source texts shared
by several keys (exact duplicates), near-identical source texts (fuzzy
duplicates above the similarity cutoff), and, when a whole directory is
given, which keys each locale file is missing or carrying beyond the
master.

Findings are printed as a report; they never fail the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(path, cutoff, maxCandidates)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Dataset CSV file or directory (required)")
	cmd.Flags().Float64Var(&cutoff, "cutoff", analyze.DefaultCutoff, "Similarity ratio for fuzzy duplicates (0..1)")
	cmd.Flags().IntVar(&maxCandidates, "max-candidates", analyze.DefaultMaxCandidates, "Similar strings reported per text")
	cobra.CheckErr(cmd.MarkFlagRequired("path"))

	return cmd
}

func runAnalyze(dataset string, cutoff float64, maxCandidates int) error {
	cfg, err := config.Resolve(dataset, config.Defaults())
	if err != nil {
		return err
	}

	logInfo(i18n.T("Analyzing '%s'..."), cfg.MasterPath)

	report, err := analyze.Run(analyze.Options{
		MasterPath:    cfg.MasterPath,
		LocaleFiles:   cfg.LocaleFiles,
		Cutoff:        cutoff,
		MaxCandidates: maxCandidates,
		OnRowError: func(path string, line int, fields []string) {
			logWarning("%s:%d: row has too few fields, skipped: %v", path, line, fields)
		},
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(r *analyze.Report) {
	out := os.Stderr
	clean := true

	if len(r.AliasDuplicates) > 0 {
		clean = false
		fmt.Fprintln(out, "Keys defined more than once:")
		for _, key := range r.AliasDuplicates {
			fmt.Fprintf(out, "  %s\n", key)
		}
		fmt.Fprintln(out)
	}

	if len(r.ExactDuplicates) > 0 {
		clean = false
		fmt.Fprintln(out, "Identical source texts under different keys:")
		for _, text := range r.SortedExactTexts() {
			fmt.Fprintf(out, "  %q\n", text)
			for _, key := range r.ExactDuplicates[text] {
				fmt.Fprintf(out, "    %s\n", key)
			}
		}
		fmt.Fprintln(out)
	}

	if len(r.FuzzyDuplicates) > 0 {
		clean = false
		fmt.Fprintln(out, "Near-identical source texts:")
		for _, text := range r.SortedFuzzyTexts() {
			fmt.Fprintf(out, "  %q ~\n", text)
			for _, similar := range r.FuzzyDuplicates[text] {
				fmt.Fprintf(out, "    %q\n", similar)
			}
		}
		fmt.Fprintln(out)
	}

	for _, path := range r.SortedIntegrityFiles() {
		entry := r.Integrity[path]
		if entry.Clean() {
			continue
		}
		clean = false
		fmt.Fprintf(out, "%s:\n", filepath.Base(path))
		if len(entry.Missing) > 0 {
			fmt.Fprintf(out, "  missing:   %s\n", strings.Join(entry.Missing, ", "))
		}
		if len(entry.Redundant) > 0 {
			fmt.Fprintf(out, "  redundant: %s\n", strings.Join(entry.Redundant, ", "))
		}
	}

	if clean {
		logSuccess(i18n.T("No duplicates found."))
	}
}

// ---------------------------------------------------------------------------
// simplify (merge duplicate rows of one dataset file)
// ---------------------------------------------------------------------------

func newSimplifyCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "simplify -p <file.csv>",
		Short: "Merge duplicate source-text rows of a dataset file",
		Long: `Merge rows of a dataset file that share the same source text.

Expects rows of: key, source text, platform tags, merged-from. Duplicate
rows are collapsed into the first occurrence: platform tag sets are
united, the better-named key survives, and the losing keys are recorded
in the merged-from column. The result is written to <file.csv>.temp; an
existing output file aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(path)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Dataset CSV file (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("path"))

	return cmd
}

func runSimplify(path string) error {
	res, err := simplify.Run(simplify.Options{
		Path: path,
		OnRowError: func(path string, line int, fields []string) {
			logWarning("%s:%d: row has too few fields, skipped: %v", path, line, fields)
		},
	})
	if err != nil {
		return err
	}

	logInfo(i18n.N("Merged %d duplicate row", "Merged %d duplicate rows", res.Merged), res.Merged)
	logSuccess(i18n.T("Generated '%s'"), res.OutputPath)
	return nil
}
