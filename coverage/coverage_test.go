package coverage

import (
	"math"
	"testing"

	"github.com/fiberseq/firetools/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chr1Opts(floor, nsd float64) Opts {
	return Opts{Chroms: []string{"chr1"}, MinCoverage: floor, WithinNSD: nsd}
}

func TestEstimateTwoIntervals(t *testing.T) {
	records := []Record{
		{"chr1", 0, 10, 8},
		{"chr1", 10, 20, 12},
	}
	s, err := Estimate(records, chr1Opts(4, 1.5))
	require.NoError(t, err)
	// Both weights are 10, the cutoff is 10, and depth 8 reaches it first.
	assert.Equal(t, int64(8), s.Median)
	assert.Equal(t, 4.0, s.Min)
	assert.InDelta(t, 8+1.5*math.Sqrt(8), s.Max, 1e-9)
	assert.Equal(t, 10.0, s.Mean)

	median, min, max := s.Rounded()
	expect.EQ(t, median, int64(8))
	expect.EQ(t, min, int64(4))
	expect.EQ(t, max, int64(12))
}

func TestWeightedMedianEqualLengths(t *testing.T) {
	depths := []int64{30, 7, 12, 9, 5, 21, 12}
	var records []Record
	for i, d := range depths {
		records = append(records, Record{"chr1", int64(i) * 100, int64(i+1) * 100, d})
	}
	median, err := WeightedMedian(records)
	require.NoError(t, err)
	// Sorted: 5 7 9 12 12 21 30.
	assert.Equal(t, int64(12), median)
}

func TestWeightedMedianUsesLength(t *testing.T) {
	records := []Record{
		{"chr1", 0, 10, 50},
		{"chr1", 10, 20, 60},
		{"chr1", 20, 1000, 20},
	}
	median, err := WeightedMedian(records)
	require.NoError(t, err)
	assert.Equal(t, int64(20), median)
	assert.InDelta(t, (50*10+60*10+20*980)/1000.0, WeightedMean(records), 1e-9)
}

func TestWeightedMedianDuplicationInvariant(t *testing.T) {
	records := []Record{
		{"chr1", 0, 17, 8},
		{"chr1", 17, 40, 15},
		{"chr2", 0, 5, 11},
		{"chr2", 5, 90, 30},
		{"chr3", 3, 9, 2},
	}
	want, err := WeightedMedian(records)
	require.NoError(t, err)
	for _, n := range []int{2, 3, 7} {
		var dup []Record
		for i := 0; i < n; i++ {
			dup = append(dup, records...)
		}
		got, err := WeightedMedian(dup)
		require.NoError(t, err)
		assert.Equal(t, want, got, "duplicated %d times", n)
	}
}

func TestWeightedMedianEmpty(t *testing.T) {
	_, err := WeightedMedian(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestBand(t *testing.T) {
	opts := Opts{MinCoverage: 4, WithinNSD: 5}
	for _, median := range []int64{5, 9, 16, 30, 64, 100, 1000} {
		min, max := MinCoverage(median, opts), MaxCoverage(median, opts)
		assert.True(t, min <= float64(median), "median %d", median)
		assert.True(t, float64(median) <= max, "median %d", median)
		if float64(median)-5*math.Sqrt(float64(median)) < 4 {
			assert.Equal(t, 4.0, min, "median %d", median)
		} else {
			assert.InDelta(t, float64(median)-5*math.Sqrt(float64(median)), min, 1e-9)
		}
	}
	assert.Equal(t, 50.0, MinCoverage(100, opts))
	assert.Equal(t, 150.0, MaxCoverage(100, opts))
}

func TestLowCoverage(t *testing.T) {
	records := []Record{
		{"chr1", 0, 100, 3},
		{"chr1", 100, 200, 3},
	}
	s, err := Estimate(records, chr1Opts(5, 5))
	require.Error(t, err)
	assert.True(t, IsLowCoverage(err))
	assert.True(t, errors.Is(errors.Precondition, err))
	assert.Contains(t, err.Error(), "Median coverage is 3")
	assert.Equal(t, int64(3), s.Median)
	assert.Equal(t, 0.0, s.Max)
}

func TestNothingLeftAfterFiltering(t *testing.T) {
	records := []Record{
		{"chr1", 0, 100, 0},
		{"chrM", 0, 100, 40},
	}
	_, err := Estimate(records, chr1Opts(4, 5))
	require.Error(t, err)
	assert.False(t, IsLowCoverage(err))
	assert.True(t, errors.Is(errors.Invalid, err))
	assert.Contains(t, err.Error(), "chr1")

	_, err = Estimate(records, Opts{})
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestFilterIgnoresOtherChromosomes(t *testing.T) {
	base := []Record{
		{"chr1", 0, 100, 10},
		{"chr1", 100, 200, 14},
		{"chr1", 200, 300, 20},
	}
	want, err := Estimate(base, chr1Opts(4, 5))
	require.NoError(t, err)

	noisy := append([]Record{{"chrY", 0, 1000000, 900}}, base...)
	noisy = append(noisy, Record{"chrM", 0, 16569, 3000}, Record{"chr1", 300, 900, 0})
	got, err := Estimate(noisy, chr1Opts(4, 5))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFilterExclude(t *testing.T) {
	exclude, err := interval.NewBEDUnionFromEntries([]interval.Entry{
		{ChrName: "chr1", Start0: 150, End: 160},
	}, interval.NewBEDOpts{})
	require.NoError(t, err)
	records := []Record{
		{"chr1", 0, 100, 10},
		{"chr1", 100, 200, 100},
		{"chr1", 200, 300, 12},
	}
	opts := chr1Opts(4, 5)
	opts.Exclude = &exclude
	filtered := Filter(records, opts)
	assert.Equal(t, []Record{records[0], records[2]}, filtered)
}

func TestRounded(t *testing.T) {
	median, min, max := Summary{Median: 10, Min: 4.5, Max: 5.5}.Rounded()
	assert.Equal(t, int64(10), median)
	assert.Equal(t, int64(4), min)
	assert.Equal(t, int64(6), max)
}
