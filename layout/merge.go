package layout

import "github.com/tsawler/relayout/model"

// DefaultMergeThreshold is the overlap ratio above which two elements are
// considered duplicates
const DefaultMergeThreshold = 0.7

// MergeConfig holds configuration for overlap deduplication
type MergeConfig struct {
	// Threshold is the overlap ratio that must be exceeded to merge.
	// Default: 0.7
	Threshold float64
}

// DefaultMergeConfig returns sensible default configuration
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		Threshold: DefaultMergeThreshold,
	}
}

// OverlapRatio returns the intersection area of two boxes divided by the
// smaller box area. It is 0 when the boxes do not overlap on both axes.
func OverlapRatio(a, b model.BBox) float64 {
	return a.OverlapRatio(b)
}

// ElementMerger removes elements that substantially overlap another element
type ElementMerger struct {
	config MergeConfig
}

// NewElementMerger creates a merger with default configuration
func NewElementMerger() *ElementMerger {
	return &ElementMerger{
		config: DefaultMergeConfig(),
	}
}

// NewElementMergerWithConfig creates a merger with custom configuration
func NewElementMergerWithConfig(config MergeConfig) *ElementMerger {
	return &ElementMerger{
		config: config,
	}
}

// Overlaps reports whether two elements overlap by more than the threshold
func (m *ElementMerger) Overlaps(a, b model.Element) bool {
	return OverlapRatio(a.BoundingBox(), b.BoundingBox()) > m.config.Threshold
}

// Merge returns the elements with overlapping duplicates removed.
//
// Each surviving element a is compared with every later element b that has
// not been discarded yet. On overlap b is discarded and the survivor for a's
// slot becomes a when a is text or b is an image, and b otherwise. Later
// comparisons still use a, so the last matching pair decides the survivor.
// The input slice is not modified.
func (m *ElementMerger) Merge(elements []model.Element) []model.Element {
	if len(elements) <= 1 {
		return elements
	}

	merged := make([]model.Element, 0, len(elements))
	skip := make([]bool, len(elements))

	for i, a := range elements {
		if skip[i] {
			continue
		}

		kept := a
		for j := i + 1; j < len(elements); j++ {
			if skip[j] {
				continue
			}
			b := elements[j]
			if !m.Overlaps(a, b) {
				continue
			}

			// TODO: a later image b resets the survivor to a even after a text b
			// was chosen; a strict text-first rule needs a product decision.
			if a.Type() == model.ElementTypeText || b.Type() == model.ElementTypeImage {
				kept = a
			} else {
				kept = b
			}
			skip[j] = true
		}

		merged = append(merged, kept)
	}

	return merged
}
