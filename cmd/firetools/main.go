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
firetools post-processes the outputs of a FIRE (fiber-seq inferred regulatory
element) run.

Sample usage:
firetools coverage \
    -reference ref.fa.fai -keep-chromosomes '^chr[0-9XY]+$' \
    -median-out coverage.txt -min-out minimum.txt -max-out maximum.txt \
    sample.bedgraph.gz
firetools decorate -decorators fire-fiber-decorators.bed.gz -out fire-fibers.bed fire-elements.tsv.gz
firetools trackhub -dir trackHub -reference hg38 -sample GM12878 -coverage-file coverage.txt
*/
package main

import "github.com/fiberseq/firetools/cmd/firetools/cmd"

func main() {
	cmd.Run()
}
