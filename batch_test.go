package relayout

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/tsawler/relayout/format"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		dir    string
		suffix string
		want   string
	}{
		{"plain", "report.pdf", "out", "", filepath.Join("out", "report.docx")},
		{"suffix", "report.pdf", "out", "_converted", filepath.Join("out", "report_converted.docx")},
		{"nested input", filepath.Join("scans", "2024", "a.PDF"), "out", "", filepath.Join("out", "a.docx")},
		{"dots in name", "v1.2.notes.pdf", "o", "", filepath.Join("o", "v1.2.notes.docx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.input, tt.dir, tt.suffix); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertFilesReportsFailures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	files := []string{"missing-a.pdf", "missing-b.pdf", "missing-c.pdf"}

	var configured atomic.Int32
	results, err := ConvertFiles(context.Background(), files, BatchOptions{
		OutputDir: dir,
		Workers:   2,
		Logger:    quietLogger(),
		Configure: func(c *Converter) *Converter {
			configured.Add(1)
			return c.WithoutOCR()
		},
	})
	if err != nil {
		t.Fatalf("unexpected batch error: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Input != files[i] {
			t.Errorf("result %d is for %q, want %q", i, r.Input, files[i])
		}
		if r.OK() {
			t.Errorf("%s: expected failure", r.Input)
		}
		if _, err := os.Stat(r.Output); !os.IsNotExist(err) {
			t.Errorf("%s: no output should be written", r.Input)
		}
	}
	if got := int(configured.Load()); got != len(files) {
		t.Errorf("Configure called %d times, want %d", got, len(files))
	}
}

func TestConvertFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ConvertFiles(ctx, []string{"a.pdf", "b.pdf"}, BatchOptions{
		OutputDir: t.TempDir(),
		Logger:    quietLogger(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", r.Input, r.Err)
		}
	}
}

func TestConvertFilesBadOutputDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "taken")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ConvertFiles(context.Background(), nil, BatchOptions{
		OutputDir: filepath.Join(file, "sub"),
		Logger:    quietLogger(),
	})
	if err == nil {
		t.Error("expected error when the output directory cannot be created")
	}
}

func TestConvertFilesDuplicateOutputs(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("extract", "testdata", "layout.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	var files []string
	for _, name := range []string{filepath.Join("a", "report.pdf"), filepath.Join("b", "report.pdf"), filepath.Join("a", "summary.pdf")} {
		path := filepath.Join(src, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, fixture, 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}

	out := filepath.Join(t.TempDir(), "out")
	results, err := ConvertFiles(context.Background(), files, BatchOptions{
		OutputDir: out,
		Workers:   3,
		Logger:    quietLogger(),
		Configure: func(c *Converter) *Converter {
			return c.WithoutOCR()
		},
	})
	if err != nil {
		t.Fatalf("unexpected batch error: %v", err)
	}

	if !results[0].OK() || !results[2].OK() {
		t.Fatalf("distinct outputs should convert: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, ErrDuplicateOutput) {
		t.Errorf("second report.pdf: expected ErrDuplicateOutput, got %v", results[1].Err)
	}
	if results[1].Output != results[0].Output {
		t.Errorf("colliding outputs %q and %q should be equal", results[0].Output, results[1].Output)
	}

	for _, r := range []FileResult{results[0], results[2]} {
		if got, err := format.DetectFile(r.Output); err != nil || got != format.DOCX {
			t.Errorf("%s: output detected as %v (%v), want DOCX", r.Output, got, err)
		}
	}
}
