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

// Package trackhub writes the text files of a UCSC genome browser track hub
// describing the outputs of a FIRE run: hub.txt, genomes.txt and trackDb.txt.
// Track data files are referenced by relative bb/ and bw/ paths.
package trackhub

import (
	"bytes"
	"context"
	"math"
	"os"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// ReferenceAliases maps workflow reference names to browser assembly names.
var ReferenceAliases = map[string]string{
	"T2Tv2.0": "GCA_009914755.4",
}

// Haplotypes lists the haplotype labels of the trackDb, in output order.
var Haplotypes = []string{"all", "hap1", "hap2", "unk"}

var hapColors = map[string]string{
	"all":  "0,0,0",
	"hap1": "0,0,255",
	"hap2": "255,0,0",
}

// decoratedHaplotypes are the haplotype keywords of the decorated fiber
// tracks.
var decoratedHaplotypes = []string{"H1", "H2", "UNK"}

// fdrLineMark is -10*log10(0.05), the 5% FDR line of the FDR track, written
// with the digits the rest of the pipeline prints for it.  math.Log10 is one
// ulp off and would print 13.01029995663981.
const fdrLineMark = "13.010299956639813"

// Opts configures Generate.
type Opts struct {
	// Dir is the hub directory.  It is created if needed.
	Dir string
	// Reference is the reference genome name; see ReferenceAliases.
	Reference string
	// Sample names the tracks.
	Sample string
	// Email is the hub contact.  It is omitted if empty.
	Email string
	// AverageCoverage is the typical depth of the sample.  It sets the view
	// limit of the coverage tracks.
	AverageCoverage int64
}

// DefaultOpts are the workflow defaults.
var DefaultOpts = Opts{
	AverageCoverage: 60,
}

// stanza holds the values substituted into a template.
type stanza struct {
	Sample        string
	Email         string
	Reference     string
	Name          string
	File          string
	Hap           string
	Visibility    string
	Color         string
	UpperCoverage int64
	YLine         string
}

// GenomeName returns the browser assembly name of ref.
func GenomeName(ref string) string {
	if alias, ok := ReferenceAliases[ref]; ok {
		return alias
	}
	return ref
}

// UpperCoverage returns the coverage view limit, five standard deviations
// above the average, truncated.
func UpperCoverage(avg int64) int64 {
	return int64(float64(avg) + 5*math.Sqrt(float64(avg)))
}

// scoreFileSuffix maps a haplotype to the suffix of its FIRE score file:
// "" for all, "_H1" for hap1, etc.
func scoreFileSuffix(hap string) string {
	if hap == "all" {
		return ""
	}
	return "_H" + hap[len("hap"):]
}

type stanzaWriter struct {
	buf bytes.Buffer
	err error
}

func (w *stanzaWriter) write(name string, s stanza) {
	if w.err != nil {
		return
	}
	w.err = templates.ExecuteTemplate(&w.buf, name, s)
}

// Hub returns the contents of hub.txt.
func Hub(opts Opts) ([]byte, error) {
	var w stanzaWriter
	w.write("hub", stanza{Sample: opts.Sample, Email: opts.Email})
	return w.buf.Bytes(), w.err
}

// Genomes returns the contents of genomes.txt.
func Genomes(opts Opts) ([]byte, error) {
	var w stanzaWriter
	w.write("genomes", stanza{Reference: GenomeName(opts.Reference)})
	return w.buf.Bytes(), w.err
}

// TrackDb returns the contents of trackDb.txt.
func TrackDb(opts Opts) ([]byte, error) {
	var w stanzaWriter
	upper := UpperCoverage(opts.AverageCoverage)
	for _, hap := range Haplotypes {
		s := stanza{Sample: opts.Sample, Hap: hap}
		if hap != "unk" {
			cov := s
			cov.UpperCoverage = upper
			w.write("coverage", cov)
		}
		if hap == "all" {
			w.write("firePeaks", stanza{Sample: opts.Sample, File: "bb/FDR-FIRE-peaks.bb"})
			w.write("hapDifferences", stanza{Sample: opts.Sample, File: "bb/hap_differences.bb"})
			w.write("bigBed", stanza{Sample: opts.Sample, Name: "FDR-wide-peaks", File: "bb/FDR-wide-peaks.bb"})
			w.write("percentAccessibleComposite", s)
			w.write("fireScoreComposite", s)
		}
		if hap != "unk" {
			s.Color = hapColors[hap]
			s.Visibility = "full"
			if hap == "all" {
				s.Visibility = "hide"
			}
			acc := s
			acc.File = "bw/" + hap + ".percent.accessible.bw"
			w.write("percentAccessible", acc)
			score := s
			score.File = "bw/score" + scoreFileSuffix(hap) + ".bw"
			w.write("fireScore", score)
		}
		if hap == "all" {
			for _, z := range decoratedHaplotypes {
				w.write("decoratedFibers", stanza{Sample: opts.Sample, Hap: z})
			}
		}
	}
	w.write("fdr", stanza{
		Sample: opts.Sample,
		File:   "bw/log_FDR.bw",
		YLine:  fdrLineMark,
	})
	return w.buf.Bytes(), w.err
}

// Generate writes hub.txt, genomes.txt and trackDb.txt to opts.Dir.
func Generate(ctx context.Context, opts Opts) error {
	if opts.Dir == "" || opts.Sample == "" || opts.Reference == "" {
		return errors.E(errors.Invalid, "trackhub.Generate: directory, sample and reference are required")
	}
	if opts.AverageCoverage <= 0 {
		return errors.E(errors.Invalid, "trackhub.Generate: average coverage must be positive, got", strconv.FormatInt(opts.AverageCoverage, 10))
	}
	if scheme, _, err := file.ParsePath(opts.Dir); err == nil && scheme == "" {
		if err := os.MkdirAll(opts.Dir, 0777); err != nil {
			return errors.E(err, "trackhub.Generate:", opts.Dir)
		}
	}
	for _, f := range []struct {
		name   string
		render func(Opts) ([]byte, error)
	}{
		{"hub.txt", Hub},
		{"genomes.txt", Genomes},
		{"trackDb.txt", TrackDb},
	} {
		data, err := f.render(opts)
		if err != nil {
			return errors.E(err, "trackhub.Generate: render", f.name)
		}
		if err := writeFile(ctx, file.Join(opts.Dir, f.name), data); err != nil {
			return err
		}
	}
	log.Printf("trackhub.Generate: wrote hub for %s (%s) to %s", opts.Sample, GenomeName(opts.Reference), opts.Dir)
	return nil
}

func writeFile(ctx context.Context, path string, data []byte) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create track hub file:", path)
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err = out.Writer(ctx).Write(data); err != nil {
		return errors.E(err, "error writing to track hub file:", path)
	}
	return nil
}
