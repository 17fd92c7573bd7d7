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

/*
Package coverage estimates the sequencing depth band used to decide whether a
per-base call is adequately supported.

The input is a headerless 4-column bedGraph-like table (chromosome, 0-based
start, exclusive end, depth).  Intervals with zero depth, or on chromosomes not
in the allow-list, are discarded.  The median depth is then computed with each
interval weighted by its length, and the acceptable band is

  [max(median - n*sqrt(median), floor), median + n*sqrt(median)]

i.e. depth is modeled as Poisson, so the standard deviation is sqrt(median).

The weighted median is discrete: depths are grouped, sorted ascending, and the
first depth whose cumulative weight reaches half of the total weight is
reported.  No interpolation happens at group boundaries.

A median below MinViableMedian is rejected with an errors.Precondition error;
see IsLowCoverage.
*/
package coverage
