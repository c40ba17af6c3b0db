// Package config loads conversion settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting of a conversion run
type Config struct {
	Output  OutputConfig      `yaml:"output"`
	OCR     OCRConfig         `yaml:"ocr"`
	Layout  LayoutConfig      `yaml:"layout"`
	Workers int               `yaml:"workers"`
	Fonts   map[string]string `yaml:"fonts"`
	Author  string            `yaml:"author"`
}

// OutputConfig controls where and how results are written
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Suffix string `yaml:"suffix"`
	HTML   bool   `yaml:"html"`
}

// OCRConfig controls text recognition in images
type OCRConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Language      string  `yaml:"language"`
	Confidence    float64 `yaml:"confidence"`
	NoteThreshold float64 `yaml:"note_threshold"`
	Preprocess    bool    `yaml:"preprocess"`
}

// LayoutConfig controls layout reconstruction
type LayoutConfig struct {
	MergeOverlaps   bool    `yaml:"merge_overlaps"`
	MergeThreshold  float64 `yaml:"merge_threshold"`
	MultiColumn     bool    `yaml:"multi_column"`
	HeaderZone      float64 `yaml:"header_zone"`
	FooterZone      float64 `yaml:"footer_zone"`
	DetectAlignment bool    `yaml:"detect_alignment"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir: "output",
		},
		OCR: OCRConfig{
			Enabled:       true,
			Language:      "eng",
			Confidence:    30,
			NoteThreshold: 70,
			Preprocess:    true,
		},
		Layout: LayoutConfig{
			MergeThreshold: 0.7,
			HeaderZone:     0.15,
			FooterZone:     0.85,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that is out of range
func (c *Config) Validate() error {
	switch {
	case c.OCR.Confidence < 0 || c.OCR.Confidence > 100:
		return fmt.Errorf("%w: ocr confidence %v must be between 0 and 100", ErrInvalid, c.OCR.Confidence)
	case c.OCR.NoteThreshold < 0 || c.OCR.NoteThreshold > 100:
		return fmt.Errorf("%w: ocr note threshold %v must be between 0 and 100", ErrInvalid, c.OCR.NoteThreshold)
	case c.OCR.Enabled && c.OCR.Language == "":
		return fmt.Errorf("%w: ocr language is empty", ErrInvalid)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalid, c.Workers)
	case c.Layout.MergeThreshold <= 0 || c.Layout.MergeThreshold > 1:
		return fmt.Errorf("%w: merge threshold %v must be in (0, 1]", ErrInvalid, c.Layout.MergeThreshold)
	case c.Layout.HeaderZone < 0 || c.Layout.FooterZone > 1 || c.Layout.HeaderZone >= c.Layout.FooterZone:
		return fmt.Errorf("%w: header zone %v and footer zone %v must satisfy 0 <= header < footer <= 1",
			ErrInvalid, c.Layout.HeaderZone, c.Layout.FooterZone)
	case c.Output.Dir == "":
		return fmt.Errorf("%w: output directory is empty", ErrInvalid)
	}
	for _, name := range slices.Sorted(maps.Keys(c.Fonts)) {
		if strings.TrimSpace(c.Fonts[name]) == "" {
			return fmt.Errorf("%w: font %q maps to an empty family", ErrInvalid, name)
		}
	}
	return nil
}
