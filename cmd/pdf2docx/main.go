// pdf2docx converts PDF files to DOCX documents that keep the layout of the
// original pages.
//
// Text is taken from the PDF's text layer; images are embedded and, unless
// disabled, run through Tesseract OCR so that scanned text becomes editable.
// OCR needs a build with the "ocr" tag; other builds convert without it.
//
// Usage:
//
//	pdf2docx [options] FILE...
//
// Output options:
//
//	-o string             Output directory (default "output")
//	-suffix string        Suffix added to output file names
//	-html                 Also write an HTML layout preview
//
// OCR options:
//
//	-no-ocr               Disable OCR of images
//	-lang string          Tesseract language (default "eng")
//	-ocr-confidence float Minimum word confidence, 0-100 (default 30)
//	-ocr-note float       Confidence below which OCR text is annotated (default 70)
//
// Layout options:
//
//	-merge-overlaps       Remove elements that overlap an earlier one
//	-multi-column         Detect several text columns per page
//	-align                Center or right-align paragraphs by position
//
// Other options:
//
//	-config string        YAML configuration file; flags override it
//	-threads int          Files converted in parallel, 1-16 (default 1)
//	-v                    Log progress
//	-debug                Log details
//	-log-file string      Also write logs to this file
//	-version              Print the version and exit
//
// Examples:
//
//	pdf2docx report.pdf
//	pdf2docx -o converted -threads 4 scans/*.pdf
//	pdf2docx -lang fra -ocr-confidence 50 lettre.pdf
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tsawler/relayout"
	"github.com/tsawler/relayout/format"
	"github.com/tsawler/relayout/internal/config"
)

const maxThreads = 16

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cliFlags holds the parsed command line
type cliFlags struct {
	output          string
	suffix          string
	html            bool
	noOCR           bool
	language        string
	ocrConfidence   float64
	ocrNote         float64
	mergeOverlaps   bool
	multiColumn     bool
	detectAlignment bool
	configPath      string
	threads         int
	verbose         bool
	debug           bool
	logFile         string
	version         bool
}

func newFlagSet(f *cliFlags, stderr io.Writer) *flag.FlagSet {
	defaults := config.Default()

	fs := flag.NewFlagSet("pdf2docx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pdf2docx [options] FILE...\n\nOptions:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.output, "o", defaults.Output.Dir, "Output directory")
	fs.StringVar(&f.suffix, "suffix", "", "Suffix added to output file names")
	fs.BoolVar(&f.html, "html", false, "Also write an HTML layout preview")
	fs.BoolVar(&f.noOCR, "no-ocr", false, "Disable OCR of images")
	fs.StringVar(&f.language, "lang", defaults.OCR.Language, "Tesseract language, e.g. eng, deu or fra+eng")
	fs.Float64Var(&f.ocrConfidence, "ocr-confidence", defaults.OCR.Confidence, "Minimum OCR word confidence (0-100)")
	fs.Float64Var(&f.ocrNote, "ocr-note", defaults.OCR.NoteThreshold, "Confidence below which OCR text is annotated (0-100)")
	fs.BoolVar(&f.mergeOverlaps, "merge-overlaps", false, "Remove elements that overlap an earlier one")
	fs.BoolVar(&f.multiColumn, "multi-column", false, "Detect several text columns per page")
	fs.BoolVar(&f.detectAlignment, "align", false, "Center or right-align paragraphs by position")
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&f.threads, "threads", 1, "Files converted in parallel (1-16)")
	fs.BoolVar(&f.verbose, "v", false, "Log progress")
	fs.BoolVar(&f.debug, "debug", false, "Log details")
	fs.StringVar(&f.logFile, "log-file", "", "Also write logs to this file")
	fs.BoolVar(&f.version, "version", false, "Print the version and exit")
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f cliFlags
	fs := newFlagSet(&f, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "pdf2docx %s\n", relayout.Version)
		return 0
	}

	cfg, err := buildConfig(fs, &f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	files, problems := validateArgs(fs.Args(), cfg)
	if len(problems) > 0 {
		fmt.Fprintln(stderr, "Error: invalid arguments:")
		for _, p := range problems {
			fmt.Fprintf(stderr, "  - %s\n", p)
		}
		return 1
	}

	logger, closeLog, err := newLogger(stderr, f.verbose, f.debug, f.logFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	results, err := relayout.ConvertFiles(ctx, files, relayout.BatchOptions{
		OutputDir: cfg.Output.Dir,
		Suffix:    cfg.Output.Suffix,
		HTML:      cfg.Output.HTML,
		Workers:   cfg.Workers,
		Logger:    logger,
		Configure: func(c *relayout.Converter) *relayout.Converter {
			return c.WithConfig(cfg)
		},
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	succeeded := printSummary(stdout, results, cfg.Output.Dir)
	if succeeded == 0 {
		return 1
	}
	return 0
}

// buildConfig loads the configuration file, if any, and applies the flags
// given explicitly on the command line over it
func buildConfig(fs *flag.FlagSet, f *cliFlags) (*config.Config, error) {
	cfg := config.Default()
	cfg.Workers = 1
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if cfg.Workers == 0 {
			cfg.Workers = 1
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.Output.Dir = f.output
		case "suffix":
			cfg.Output.Suffix = f.suffix
		case "html":
			cfg.Output.HTML = f.html
		case "no-ocr":
			cfg.OCR.Enabled = !f.noOCR
		case "lang":
			cfg.OCR.Language = f.language
		case "ocr-confidence":
			cfg.OCR.Confidence = f.ocrConfidence
		case "ocr-note":
			cfg.OCR.NoteThreshold = f.ocrNote
		case "merge-overlaps":
			cfg.Layout.MergeOverlaps = f.mergeOverlaps
		case "multi-column":
			cfg.Layout.MultiColumn = f.multiColumn
		case "align":
			cfg.Layout.DetectAlignment = f.detectAlignment
		case "threads":
			cfg.Workers = f.threads
		}
	})
	return cfg, nil
}

// validateArgs returns the input files that are readable PDFs and a
// description of every problem found
func validateArgs(args []string, cfg *config.Config) ([]string, []string) {
	var problems []string

	if len(args) == 0 {
		problems = append(problems, "no input files given")
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("file not found: %s", arg))
		case !info.Mode().IsRegular():
			problems = append(problems, fmt.Sprintf("not a file: %s", arg))
		case format.Detect(arg) != format.PDF:
			problems = append(problems, fmt.Sprintf("not a PDF file: %s", arg))
		default:
			files = append(files, arg)
		}
	}
	if len(args) > 0 && len(files) == 0 {
		problems = append(problems, "no valid PDF files provided")
	}

	if info, err := os.Stat(cfg.Output.Dir); err == nil && !info.IsDir() {
		problems = append(problems, fmt.Sprintf("output path exists but is not a directory: %s", cfg.Output.Dir))
	}
	if cfg.Workers < 1 || cfg.Workers > maxThreads {
		problems = append(problems, fmt.Sprintf("number of threads must be between 1 and %d", maxThreads))
	}
	if err := cfg.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	return files, problems
}

// newLogger builds a text logger on stderr and, optionally, a log file.
// The level is warn by default, info with -v and debug with -debug.
func newLogger(stderr io.Writer, verbose, debug bool, logFile string) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}

	out := stderr
	closeLog := func() {}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = io.MultiWriter(stderr, file)
		closeLog = func() { file.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closeLog, nil
}

// printSummary writes the outcome of every file and returns the number of
// successful conversions
func printSummary(w io.Writer, results []relayout.FileResult, outputDir string) int {
	succeeded := 0
	var failed []relayout.FileResult
	for _, r := range results {
		if r.OK() {
			succeeded++
		} else {
			failed = append(failed, r)
		}
	}

	fmt.Fprintf(w, "\nConversion Summary:\n")
	fmt.Fprintf(w, "  Total files: %d\n", len(results))
	fmt.Fprintf(w, "  Successful: %d\n", succeeded)
	fmt.Fprintf(w, "  Failed: %d\n", len(failed))

	if len(failed) > 0 {
		fmt.Fprintf(w, "\nFailed files:\n")
		for _, r := range failed {
			fmt.Fprintf(w, "  - %s: %v\n", r.Input, r.Err)
		}
	}

	if succeeded > 0 {
		fmt.Fprintf(w, "\nOutput directory: %s\n", outputDir)
	}
	return succeeded
}
