package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/relayout"
	"github.com/tsawler/relayout/internal/config"
)

func parse(t *testing.T, args ...string) (*config.Config, *cliFlags) {
	t.Helper()
	var f cliFlags
	fs := newFlagSet(&f, io.Discard)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	cfg, err := buildConfig(fs, &f)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	return cfg, &f
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, _ := parse(t)

	if cfg.Output.Dir != "output" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if !cfg.OCR.Enabled || cfg.OCR.Language != "eng" || cfg.OCR.Confidence != 30 {
		t.Errorf("unexpected OCR defaults: %+v", cfg.OCR)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
}

func TestBuildConfigFlags(t *testing.T) {
	cfg, _ := parse(t,
		"-o", "converted", "-suffix", "_new", "-no-ocr", "-lang", "fra",
		"-ocr-confidence", "55", "-ocr-note", "80", "-merge-overlaps",
		"-multi-column", "-align", "-threads", "4", "-html",
	)

	if cfg.Output.Dir != "converted" || cfg.Output.Suffix != "_new" || !cfg.Output.HTML {
		t.Errorf("unexpected output settings: %+v", cfg.Output)
	}
	if cfg.OCR.Enabled {
		t.Error("-no-ocr not applied")
	}
	if cfg.OCR.Language != "fra" || cfg.OCR.Confidence != 55 || cfg.OCR.NoteThreshold != 80 {
		t.Errorf("unexpected OCR settings: %+v", cfg.OCR)
	}
	if !cfg.Layout.MergeOverlaps || !cfg.Layout.MultiColumn || !cfg.Layout.DetectAlignment {
		t.Errorf("unexpected layout settings: %+v", cfg.Layout)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestBuildConfigFileWithOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "relayout.yaml", `
output:
  dir: from-file
ocr:
  language: deu
  confidence: 40
workers: 3
`)

	cfg, _ := parse(t, "-config", path, "-lang", "ita")

	if cfg.Output.Dir != "from-file" {
		t.Errorf("Output.Dir = %q, want from-file", cfg.Output.Dir)
	}
	if cfg.OCR.Language != "ita" {
		t.Errorf("flag should override file: Language = %q", cfg.OCR.Language)
	}
	if cfg.OCR.Confidence != 40 {
		t.Errorf("Confidence = %v, want 40", cfg.OCR.Confidence)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
}

func TestValidateArgs(t *testing.T) {
	dir := t.TempDir()
	pdf := writeFile(t, dir, "doc.pdf", "%PDF-1.4")
	upper := writeFile(t, dir, "SCAN.PDF", "%PDF-1.4")
	txt := writeFile(t, dir, "notes.txt", "hello")

	tests := []struct {
		name      string
		args      []string
		modify    func(*config.Config)
		wantFiles int
		wantErr   string
	}{
		{"valid", []string{pdf, upper}, nil, 2, ""},
		{"no files", nil, nil, 0, "no input files"},
		{"missing", []string{filepath.Join(dir, "nope.pdf")}, nil, 0, "file not found"},
		{"wrong extension", []string{txt}, nil, 0, "not a PDF file"},
		{"directory", []string{dir}, nil, 0, "not a file"},
		{"mixed", []string{pdf, txt}, nil, 1, "not a PDF file"},
		{"confidence out of range", []string{pdf}, func(c *config.Config) { c.OCR.Confidence = 101 }, 1, "confidence"},
		{"too many threads", []string{pdf}, func(c *config.Config) { c.Workers = 17 }, 1, "threads"},
		{"output is a file", []string{pdf}, func(c *config.Config) { c.Output.Dir = pdf }, 1, "not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Workers = 1
			cfg.Output.Dir = filepath.Join(dir, "out")
			if tt.modify != nil {
				tt.modify(cfg)
			}

			files, problems := validateArgs(tt.args, cfg)
			if len(files) != tt.wantFiles {
				t.Errorf("got %d files, want %d", len(files), tt.wantFiles)
			}

			joined := strings.Join(problems, "\n")
			if tt.wantErr == "" && len(problems) > 0 {
				t.Errorf("unexpected problems: %s", joined)
			}
			if tt.wantErr != "" && !strings.Contains(joined, tt.wantErr) {
				t.Errorf("problems %q do not mention %q", joined, tt.wantErr)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, io.Discard)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), relayout.Version) {
		t.Errorf("version output %q lacks %s", stdout.String(), relayout.Version)
	}
}

func TestRunInvalidArguments(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-ocr-confidence", "150", "missing.pdf"}, io.Discard, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "invalid arguments") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunNothingConverted(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.pdf", "not really a pdf")

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"-no-ocr", "-o", filepath.Join(dir, "out"), broken}, &stdout, io.Discard)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout.String(), "Failed: 1") {
		t.Errorf("summary missing failure count: %q", stdout.String())
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name          string
		verbose       bool
		debug         bool
		wantInfo      bool
		wantDebugLine bool
	}{
		{"default", false, false, false, false},
		{"verbose", true, false, true, false},
		{"debug", false, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closeLog, err := newLogger(&buf, tt.verbose, tt.debug, "")
			if err != nil {
				t.Fatal(err)
			}
			defer closeLog()

			logger.Info("info-line")
			logger.Debug("debug-line")

			if got := strings.Contains(buf.String(), "info-line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(buf.String(), "debug-line"); got != tt.wantDebugLine {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebugLine)
			}
		})
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, closeLog, err := newLogger(io.Discard, false, false, path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("written to file")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file content = %q", data)
	}
}

func TestPrintSummary(t *testing.T) {
	results := []relayout.FileResult{
		{Input: "a.pdf", Output: "out/a.docx"},
		{Input: "b.pdf", Err: os.ErrNotExist},
	}

	var buf bytes.Buffer
	if got := printSummary(&buf, results, "out"); got != 1 {
		t.Errorf("succeeded = %d, want 1", got)
	}

	out := buf.String()
	for _, want := range []string{"Total files: 2", "Successful: 1", "Failed: 1", "b.pdf", "Output directory: out"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
