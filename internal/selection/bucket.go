package selection

import (
	"meshforge/internal/handler"
	"meshforge/internal/servicetype"
)

const bucketCount = 3

// bucketBoundary is a half-open [start, stop) slice range into a
// resource-sorted definition list.
type bucketBoundary struct {
	start, stop int
}

// Bucket returns the slice of definitions (pre-sorted ascending by the
// resource's utilization measurement) whose resource intensity matches
// resource.Intensity: the low third for Low, the middle third for Mid,
// the high third for High.
func Bucket(definitions []handler.Definition, resource servicetype.Resource) []handler.Definition {
	boundaries := determineBucketBoundaries(len(definitions))
	b := boundaries[bucketIndex(resource.Intensity)]
	return definitions[b.start:b.stop]
}

// determineBucketBoundaries splits length items into three contiguous
// buckets as evenly as possible: a remainder of 1 grows the mid bucket by
// one, a remainder of 2 grows both the low and mid buckets by one.
func determineBucketBoundaries(length int) [bucketCount]bucketBoundary {
	var remainderLow, remainderMid int
	switch length % bucketCount {
	case 0:
		remainderLow, remainderMid = 0, 0
	case 1:
		remainderLow, remainderMid = 0, 1
	case 2:
		remainderLow, remainderMid = 1, 1
	}

	third := length / bucketCount
	low := third + remainderLow
	mid := low + third + remainderMid
	high := length

	return [bucketCount]bucketBoundary{
		{0, low},
		{low, mid},
		{mid, high},
	}
}

func bucketIndex(intensity servicetype.ResourceIntensity) int {
	switch intensity {
	case servicetype.IntensityLow:
		return 0
	case servicetype.IntensityMid:
		return 1
	default:
		return 2
	}
}
