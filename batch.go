package relayout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchOptions controls ConvertFiles
type BatchOptions struct {
	// OutputDir receives the converted files. It is created if missing.
	OutputDir string

	// Suffix is appended to each output file name before the extension
	Suffix string

	// HTML also writes an HTML layout preview next to each DOCX file
	HTML bool

	// Workers bounds the number of files converted at once.
	// Zero or less uses the number of CPUs.
	Workers int

	// Configure returns the Converter used for each input file. Nil uses
	// the defaults.
	Configure func(*Converter) *Converter

	// Logger receives per-file progress. Nil uses slog.Default().
	Logger *slog.Logger
}

// FileResult reports the conversion of one input file
type FileResult struct {
	Input      string
	Output     string
	HTMLOutput string
	Pages      int
	OCRResults int
	Warnings   int
	Duration   time.Duration
	Err        error
}

// OK reports whether the file was converted
func (r FileResult) OK() bool {
	return r.Err == nil
}

// ErrDuplicateOutput is reported for a file whose output path collides with
// an earlier file in the same batch, such as a/report.pdf and b/report.pdf
var ErrDuplicateOutput = errors.New("output path already used in this batch")

// OutputPath returns the DOCX path for input inside dir, named after the
// input with suffix appended
func OutputPath(input, dir, suffix string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+suffix+".docx")
}

// ConvertFiles converts every file concurrently. A failing file does not
// stop the others; its error is reported in its FileResult. A file whose
// output path was already claimed by an earlier file in the list is not
// converted and fails with ErrDuplicateOutput. Results are in input order.
// The returned error is non-nil only when the output directory cannot be
// created or ctx is cancelled.
//
// Example:
//
//	results, err := relayout.ConvertFiles(ctx, files, relayout.BatchOptions{
//	    OutputDir: "out",
//	    Workers:   4,
//	    Configure: func(c *relayout.Converter) *relayout.Converter {
//	        return c.Language("fra")
//	    },
//	})
func ConvertFiles(ctx context.Context, files []string, opts BatchOptions) ([]FileResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]FileResult, len(files))
	claimed := make(map[string]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		output := OutputPath(file, opts.OutputDir, opts.Suffix)
		if first, ok := claimed[output]; ok {
			results[i] = FileResult{
				Input:  file,
				Output: output,
				Err:    fmt.Errorf("%w: %s is also written for %s", ErrDuplicateOutput, output, first),
			}
			logger.Error("conversion skipped", "file", file, "error", results[i].Err)
			continue
		}
		claimed[output] = file

		g.Go(func() error {
			results[i] = convertFile(gctx, file, output, opts, logger)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.OK() {
			succeeded++
		}
	}
	logger.Info("batch finished", "files", len(files), "succeeded", succeeded, "failed", len(files)-succeeded)

	return results, ctx.Err()
}

func convertFile(ctx context.Context, file, output string, opts BatchOptions, logger *slog.Logger) FileResult {
	logCtx := logger.With("file", file)
	result := FileResult{
		Input:  file,
		Output: output,
	}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	conv := Open(file)
	if opts.Configure != nil {
		conv = opts.Configure(conv)
	}
	conv = conv.Logger(logger)

	c, err := conv.Convert(ctx)
	if err != nil {
		logCtx.Error("conversion failed", "error", err)
		result.Err = err
		return result
	}

	result.Pages = c.Layout.PageCount()
	result.OCRResults = len(c.OCRResults)
	result.Warnings = len(c.Document.Warnings)
	result.Duration = c.Duration

	if err := c.SaveDOCX(result.Output); err != nil {
		logCtx.Error("writing DOCX failed", "error", err)
		result.Err = err
		return result
	}

	if opts.HTML {
		result.HTMLOutput = strings.TrimSuffix(result.Output, ".docx") + ".html"
		if err := c.SaveHTML(result.HTMLOutput); err != nil {
			logCtx.Error("writing HTML preview failed", "error", err)
			result.Err = err
			return result
		}
	}

	logCtx.Info("file converted", "output", result.Output, "pages", result.Pages)
	return result
}
