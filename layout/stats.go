package layout

import "sort"

const (
	// TopSizeCount is the number of frequent large sizes kept as level anchors
	TopSizeCount = 3
	// TopSizeFloor is the fraction of the average size a top size must reach
	TopSizeFloor = 0.9
)

// DocumentStats holds document-wide baselines computed once all lines are
// collected
type DocumentStats struct {
	// LineCount is the number of cleaned lines
	LineCount int

	// AverageSize is the unweighted mean font size over lines
	AverageSize float64

	// AverageLineHeight is the mean line height
	AverageLineHeight float64

	// TopSizes are up to three frequent sizes at or above 90% of the average,
	// largest first
	TopSizes []float64
}

// ComputeStats aggregates font size and line height baselines
func ComputeStats(lines []CleanedLine) DocumentStats {
	stats := DocumentStats{LineCount: len(lines)}
	if len(lines) == 0 {
		return stats
	}

	var sizeSum, heightSum float64
	for _, l := range lines {
		sizeSum += l.Raw.FontSize
		heightSum += l.Height
	}
	stats.AverageSize = sizeSum / float64(len(lines))
	stats.AverageLineHeight = heightSum / float64(len(lines))
	stats.TopSizes = topSizes(lines, stats.AverageSize)

	return stats
}

// topSizes returns the most frequent sizes at or above TopSizeFloor * avg.
// Equal counts keep the size seen first.
func topSizes(lines []CleanedLine, avg float64) []float64 {
	type sizeCount struct {
		size  float64
		count int
	}

	index := make(map[float64]int)
	var counts []sizeCount
	for _, l := range lines {
		size := l.Raw.FontSize
		if size < avg*TopSizeFloor {
			continue
		}
		if i, ok := index[size]; ok {
			counts[i].count++
			continue
		}
		index[size] = len(counts)
		counts = append(counts, sizeCount{size: size, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > TopSizeCount {
		counts = counts[:TopSizeCount]
	}

	sizes := make([]float64, len(counts))
	for i, c := range counts {
		sizes[i] = c.size
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	return sizes
}
