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

// Package bed12 converts per-read feature calls into BED12 records decorated
// for genome browser display.
//
// Every read (fiber) becomes one BED12 line spanning the read, plus one
// decorator line per (score, strand, color) group of its linker and FIRE
// elements.  Nucleosome elements are not decorated.
package bed12

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Colors that identify element types.  Any other color is a FIRE element.
const (
	NucleosomeColor = "230,230,230"
	LinkerColor     = "147,112,219"
)

const (
	// DecoratorColumns is the number of columns of a decorator line: BED12,
	// the decorated item, and the decoration.
	DecoratorColumns = 17
	// ReadColumns is the number of columns of a read line: BED12 plus the
	// haplotype.
	ReadColumns = 13
)

// ElementType classifies a feature by its color.
type ElementType int

const (
	Nucleosome ElementType = iota
	Linker
	FIRE
)

func (e ElementType) String() string {
	switch e {
	case Nucleosome:
		return "Nucleosome"
	case Linker:
		return "Linker"
	case FIRE:
		return "FIRE"
	}
	return fmt.Sprintf("ElementType(%d)", int(e))
}

// Classify returns the type of an element by exact color match.
func Classify(color string) ElementType {
	switch color {
	case NucleosomeColor:
		return Nucleosome
	case LinkerColor:
		return Linker
	}
	return FIRE
}

// Feature is one row of a feature-call table.  Columns not listed here are
// ignored.
type Feature struct {
	Chrom  string `tsv:"#ct"`
	Start  int64  `tsv:"st"`
	End    int64  `tsv:"en"`
	Fiber  string `tsv:"fiber"`
	Score  int64  `tsv:"score"`
	Strand string `tsv:"strand"`
	Color  string `tsv:"color"`
	HP     string `tsv:"HP"`
}

type readKey struct {
	chrom, fiber, strand, hp string
}

func (k readKey) less(o readKey) bool {
	if k.chrom != o.chrom {
		return k.chrom < o.chrom
	}
	if k.fiber != o.fiber {
		return k.fiber < o.fiber
	}
	if k.strand != o.strand {
		return k.strand < o.strand
	}
	return k.hp < o.hp
}

type blockKey struct {
	score  int64
	strand string
	color  string
}

func (k blockKey) less(o blockKey) bool {
	if k.score != o.score {
		return k.score < o.score
	}
	if k.strand != o.strand {
		return k.strand < o.strand
	}
	return k.color < o.color
}

// Read is the set of features sharing chromosome, fiber, strand and
// haplotype.
type Read struct {
	Chrom, Fiber, Strand, HP string
	// Start and End span all of the read's features.
	Start, End int64
	Features   []Feature
}

// GroupReads groups features into reads, ordered by (chromosome, fiber,
// strand, haplotype).
func GroupReads(features []Feature) []*Read {
	byKey := map[readKey]*Read{}
	var keys []readKey
	for _, f := range features {
		k := readKey{f.Chrom, f.Fiber, f.Strand, f.HP}
		r, ok := byKey[k]
		if !ok {
			r = &Read{Chrom: f.Chrom, Fiber: f.Fiber, Strand: f.Strand, HP: f.HP, Start: f.Start, End: f.End}
			byKey[k] = r
			keys = append(keys, k)
		}
		if f.Start < r.Start {
			r.Start = f.Start
		}
		if f.End > r.End {
			r.End = f.End
		}
		r.Features = append(r.Features, f)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	reads := make([]*Read, len(keys))
	for i, k := range keys {
		reads[i] = byKey[k]
	}
	return reads
}

// Decorators returns one decorator line per (score, strand, color) group of
// r's features, in group order.  Nucleosome groups are skipped.
func (r *Read) Decorators() [][]string {
	groups := map[blockKey][]Feature{}
	var keys []blockKey
	for _, f := range r.Features {
		k := blockKey{f.Score, f.Strand, f.Color}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], f)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	var lines [][]string
	for _, k := range keys {
		elType := Classify(k.color)
		if elType == Nucleosome {
			continue
		}
		lines = append(lines, r.decorator(k, elType, groups[k]))
	}
	return lines
}

func (r *Read) decorator(k blockKey, elType ElementType, blocks []Feature) []string {
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
	start := blocks[0].Start
	end := blocks[len(blocks)-1].End
	sizes := make([]string, len(blocks))
	offsets := make([]string, len(blocks))
	for i, b := range blocks {
		sizes[i] = strconv.FormatInt(b.End-b.Start, 10)
		offsets[i] = strconv.FormatInt(b.Start-start, 10)
	}
	startStr := strconv.FormatInt(start, 10)
	endStr := strconv.FormatInt(end, 10)
	color := k.color + ",0"
	return []string{
		// BED9
		r.Chrom, startStr, endStr, elType.String(), strconv.FormatInt(k.score, 10), k.strand, startStr, endStr, color,
		// BED12
		strconv.Itoa(len(blocks)), strings.Join(sizes, ","), strings.Join(offsets, ","),
		// The decorated read, then the decoration.
		fmt.Sprintf("%s:%d-%d:%s", r.Chrom, r.Start, r.End, r.Fiber),
		"block", color, "Ignored", elType.String(),
	}
}

// Line returns the BED12 line spanning r: a one-base block at each end,
// followed by the haplotype.
func (r *Read) Line() []string {
	return []string{
		r.Chrom,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		r.Fiber,
		"1",
		r.Strand,
		"0",
		"0",
		"0,0,0,200",
		"2",
		"1,1",
		fmt.Sprintf("0,%d", r.End-r.Start-1),
		r.HP,
	}
}

// SortReads orders reads by (chromosome, start, end).  Ties keep their
// relative order.
func SortReads(reads []*Read) {
	sort.SliceStable(reads, func(i, j int) bool {
		a, b := reads[i], reads[j]
		if a.Chrom != b.Chrom {
			return a.Chrom < b.Chrom
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
}
