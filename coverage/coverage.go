// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package coverage

import (
	"fmt"
	"math"

	"github.com/fiberseq/firetools/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// MinViableMedian is the lowest weighted median depth accepted by Estimate.
const MinViableMedian = 5

// Record is a single interval of a coverage table, with 0-based [Start, End)
// coordinates.
type Record struct {
	Chrom string
	Start int64
	End   int64
	Depth int64
}

// Weight is the number of bases covered by r.
func (r Record) Weight() int64 {
	return r.End - r.Start
}

// Opts controls Filter and Estimate.
type Opts struct {
	// Chroms lists the chromosomes whose intervals are kept.  Intervals on
	// any other chromosome are dropped.  An empty list keeps nothing.
	Chroms []string
	// MinCoverage is the floor of the reported minimum coverage.
	MinCoverage float64
	// WithinNSD is the half-width of the accepted band, in standard
	// deviations.
	WithinNSD float64
	// Exclude, if set, drops every interval that overlaps one of its regions.
	Exclude *interval.BEDUnion
	// Outside, if set, is the complement of the accepted regions, as loaded by
	// ReadRegions.  Intervals overlapping it are dropped, as are intervals on
	// chromosomes it doesn't mention.
	Outside *interval.BEDUnion
}

// DefaultOpts are the workflow defaults.  Chroms must still be provided.
var DefaultOpts = Opts{
	MinCoverage: 4,
	WithinNSD:   5,
}

// Summary is the result of Estimate.
type Summary struct {
	// Median is the length-weighted median depth.
	Median int64
	// Min and Max bound the accepted depth band, before rounding.
	Min, Max float64
	// Mean is the length-weighted mean depth.  It is informational only.
	Mean float64
}

// Rounded returns the median and the band boundaries rounded to the nearest
// integer, with ties going to the even neighbor.
func (s Summary) Rounded() (median, min, max int64) {
	return s.Median, int64(math.RoundToEven(s.Min)), int64(math.RoundToEven(s.Max))
}

// Filter returns the records with positive depth on one of opts.Chroms that
// don't overlap opts.Exclude and lie within the regions of opts.Outside.  The
// order of records is preserved.
func Filter(records []Record, opts Opts) []Record {
	keep := make(map[string]struct{}, len(opts.Chroms))
	for _, c := range opts.Chroms {
		keep[c] = struct{}{}
	}
	var filtered []Record
	for _, r := range records {
		if r.Depth <= 0 {
			continue
		}
		if _, ok := keep[r.Chrom]; !ok {
			continue
		}
		start, end := interval.PosType(r.Start), interval.PosType(r.End)
		if opts.Exclude != nil && opts.Exclude.OverlapsByName(r.Chrom, start, end) {
			continue
		}
		if opts.Outside != nil && (!opts.Outside.HasChrom(r.Chrom) || opts.Outside.OverlapsByName(r.Chrom, start, end)) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// MinCoverage returns the lower boundary of the depth band around median,
// never below opts.MinCoverage.
func MinCoverage(median int64, opts Opts) float64 {
	sd := math.Sqrt(float64(median))
	return math.Max(float64(median)-opts.WithinNSD*sd, opts.MinCoverage)
}

// MaxCoverage returns the upper boundary of the depth band around median.
func MaxCoverage(median int64, opts Opts) float64 {
	sd := math.Sqrt(float64(median))
	return float64(median) + opts.WithinNSD*sd
}

// Estimate filters records and computes the coverage summary.
//
// It returns an errors.Invalid error if no record survives filtering, and an
// errors.Precondition error (see IsLowCoverage) if the median depth is below
// MinViableMedian.  In the latter case the returned Summary carries the
// median and mean, but must not be written out.
func Estimate(records []Record, opts Opts) (Summary, error) {
	kept := Filter(records, opts)
	if len(kept) == 0 {
		return Summary{}, errors.E(errors.Invalid,
			fmt.Sprintf("coverage.Estimate: none of %d interval(s) has positive depth on the selected chromosomes %v", len(records), opts.Chroms))
	}
	log.Debug.Printf("coverage.Estimate: %d of %d interval(s) kept", len(kept), len(records))

	median, err := WeightedMedian(kept)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Median: median,
		Min:    MinCoverage(median, opts),
		Max:    MaxCoverage(median, opts),
		Mean:   WeightedMean(kept),
	}
	log.Printf("mean coverage: %v", s.Mean)
	log.Printf("median coverage: %d", s.Median)

	if median < MinViableMedian {
		return Summary{Median: s.Median, Mean: s.Mean}, errors.E(errors.Precondition, fmt.Sprintf(
			"Median coverage is %d! Did you use the correct reference, or is data missing from most of your genome? "+
				"At least 10x coverage is recommended and at least %dx is required. "+
				"If you are only examining data from a subset of chromosomes, restrict the chromosome list accordingly.",
			median, MinViableMedian))
	}
	return s, nil
}

// IsLowCoverage reports whether err is the error Estimate returns when the
// median depth is below MinViableMedian.
func IsLowCoverage(err error) bool {
	return err != nil && errors.Is(errors.Precondition, err)
}
