package layout

import (
	"math"
	"sort"

	"github.com/tsawler/relayout/model"
)

// ColumnConfig holds configuration for column detection
type ColumnConfig struct {
	// ClusterTolerance groups left and right text edges into boundaries
	// Default: 10 points
	ClusterTolerance float64

	// MultiColumn enables gap-based splitting into several columns.
	// When false every page yields exactly one column spanning all text.
	// Default: false
	MultiColumn bool

	// MinGapWidth is the minimum whitespace between a right edge cluster and
	// the next left edge cluster to be considered a column break
	// Default: 20 points
	MinGapWidth float64

	// MaxColumns is the maximum number of columns to detect
	// Default: 6
	MaxColumns int
}

// DefaultColumnConfig returns the shipped single-column policy
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		ClusterTolerance: 10.0,
		MultiColumn:      false,
		MinGapWidth:      20.0,
		MaxColumns:       6,
	}
}

// ColumnDetector derives column intervals from text block edges
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a new column detector with default configuration
func NewColumnDetector() *ColumnDetector {
	return &ColumnDetector{
		config: DefaultColumnConfig(),
	}
}

// NewColumnDetectorWithConfig creates a column detector with custom configuration
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{
		config: config,
	}
}

// Config returns the detector configuration
func (d *ColumnDetector) Config() ColumnConfig {
	return d.config
}

// Detect returns the column intervals for a page's text blocks.
//
// With the default configuration the result is always a single column
// covering [min x0, max x1] of the text, or [0, pageWidth] without text.
func (d *ColumnDetector) Detect(blocks []*model.TextBlock, pageWidth float64) []model.Column {
	if len(blocks) == 0 {
		return []model.Column{model.NewColumn(0, pageWidth)}
	}

	if d.config.MultiColumn {
		if cols := d.splitColumns(blocks); len(cols) > 1 {
			return cols
		}
	}

	minX, maxX := horizontalExtent(blocks)
	return []model.Column{model.NewColumn(minX, maxX)}
}

// EdgeClusters returns the clustered left and right text edges
func (d *ColumnDetector) EdgeClusters(blocks []*model.TextBlock) (lefts, rights []float64) {
	leftCoords := make([]float64, len(blocks))
	rightCoords := make([]float64, len(blocks))
	for i, b := range blocks {
		leftCoords[i] = b.BBox.X0
		rightCoords[i] = b.BBox.X1
	}
	return ClusterCoordinates(leftCoords, d.config.ClusterTolerance),
		ClusterCoordinates(rightCoords, d.config.ClusterTolerance)
}

// splitColumns places a break in every sufficiently wide gap between a right
// edge cluster and the next left edge cluster that no block crosses.
func (d *ColumnDetector) splitColumns(blocks []*model.TextBlock) []model.Column {
	lefts, rights := d.EdgeClusters(blocks)

	seen := make(map[float64]bool)
	var breaks []float64
	for _, r := range rights {
		i := sort.SearchFloat64s(lefts, r)
		for i < len(lefts) && lefts[i] <= r {
			i++
		}
		if i == len(lefts) {
			continue
		}

		l := lefts[i]
		if l-r < d.config.MinGapWidth {
			continue
		}

		center := (l + r) / 2
		if seen[center] || straddles(blocks, center) {
			continue
		}
		seen[center] = true
		breaks = append(breaks, center)
	}

	if len(breaks) == 0 {
		return nil
	}

	sort.Float64s(breaks)
	if d.config.MaxColumns > 0 && len(breaks) > d.config.MaxColumns-1 {
		breaks = breaks[:d.config.MaxColumns-1]
	}

	groups := make([][]*model.TextBlock, len(breaks)+1)
	for _, b := range blocks {
		idx := sort.SearchFloat64s(breaks, b.BBox.CenterX())
		groups[idx] = append(groups[idx], b)
	}

	var columns []model.Column
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		minX, maxX := horizontalExtent(g)
		columns = append(columns, model.NewColumn(minX, maxX))
	}

	return columns
}

// straddles reports whether any block spans across x
func straddles(blocks []*model.TextBlock, x float64) bool {
	for _, b := range blocks {
		if b.BBox.X0 < x && b.BBox.X1 > x {
			return true
		}
	}
	return false
}

func horizontalExtent(blocks []*model.TextBlock) (float64, float64) {
	minX := blocks[0].BBox.X0
	maxX := blocks[0].BBox.X1
	for _, b := range blocks[1:] {
		minX = math.Min(minX, b.BBox.X0)
		maxX = math.Max(maxX, b.BBox.X1)
	}
	return minX, maxX
}
