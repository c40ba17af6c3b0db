package layout

import "sort"

// DefaultClusterTolerance is the default maximum distance between
// neighbouring coordinates of the same cluster, in points.
const DefaultClusterTolerance = 5.0

// ClusterCoordinates groups near-equal coordinates into clusters and returns
// the mean of each cluster in ascending order.
//
// Values are deduplicated and sorted first. A new cluster starts whenever the
// next value lies more than tolerance beyond the last value accepted into the
// current cluster, so a chain of close values may span more than tolerance.
func ClusterCoordinates(coords []float64, tolerance float64) []float64 {
	if len(coords) == 0 {
		return nil
	}

	sorted := dedupeSorted(coords)

	var centers []float64
	current := []float64{sorted[0]}

	for _, c := range sorted[1:] {
		if c-current[len(current)-1] <= tolerance {
			current = append(current, c)
			continue
		}
		centers = append(centers, mean(current))
		current = []float64{c}
	}

	return append(centers, mean(current))
}

func dedupeSorted(values []float64) []float64 {
	seen := make(map[float64]bool, len(values))
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
