package coverage

import (
	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// depthBin accumulates the total length of all intervals with a given depth.
type depthBin struct {
	depth  int64
	weight int64
}

// Compare orders bins by depth, for use in llrb.
func (b *depthBin) Compare(c llrb.Comparable) int {
	other := c.(*depthBin)
	switch {
	case b.depth < other.depth:
		return -1
	case b.depth > other.depth:
		return 1
	}
	return 0
}

// binDepths groups records by depth.  The returned tree iterates bins in
// increasing depth order.
func binDepths(records []Record) (bins *llrb.Tree, totalWeight int64) {
	bins = &llrb.Tree{}
	for _, r := range records {
		w := r.Weight()
		totalWeight += w
		if c := bins.Get(&depthBin{depth: r.Depth}); c != nil {
			c.(*depthBin).weight += w
			continue
		}
		bins.Insert(&depthBin{depth: r.Depth, weight: w})
	}
	return bins, totalWeight
}

// WeightedMedian returns the smallest depth whose cumulative weight, summed
// over bins in increasing depth order, reaches half of the total weight.
func WeightedMedian(records []Record) (int64, error) {
	if len(records) == 0 {
		return 0, errors.E(errors.Invalid, "coverage.WeightedMedian: no intervals")
	}
	bins, totalWeight := binDepths(records)
	log.Debug.Printf("coverage.WeightedMedian: %d distinct depth(s), total weight %d", bins.Len(), totalWeight)

	var (
		cumWeight int64
		median    int64
	)
	bins.Do(func(c llrb.Comparable) bool {
		b := c.(*depthBin)
		cumWeight += b.weight
		log.Debug.Printf("depth %d\tweight %d\tcumsum %d", b.depth, b.weight, cumWeight)
		// cumWeight >= totalWeight/2, without the float division.
		if 2*cumWeight >= totalWeight {
			median = b.depth
			return true
		}
		return false
	})
	return median, nil
}

// WeightedMean returns sum(depth*weight)/sum(weight), or 0 for an empty or
// zero-length input.
func WeightedMean(records []Record) float64 {
	var sum, totalWeight float64
	for _, r := range records {
		w := float64(r.Weight())
		sum += float64(r.Depth) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}
