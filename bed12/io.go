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
package bed12

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
	"v.io/x/lib/vlog"
)

// Stdio is the path that stands for stdin or stdout.
const Stdio = "-"

// ReadFeatures parses a feature-call table.  The first line must be a header
// naming at least the columns of Feature.
func ReadFeatures(in io.Reader) ([]Feature, error) {
	r := tsv.NewReader(in)
	r.HasHeaderRow = true
	r.UseHeaderNames = true
	r.LazyQuotes = true

	var (
		features []Feature
		f        Feature
	)
	// Line 1 is the header.
	for lineIdx := 2; ; lineIdx++ {
		if err := r.Read(&f); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("bed12.ReadFeatures: line %d", lineIdx))
		}
		if f.Start < 0 || f.End <= f.Start {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("bed12.ReadFeatures: invalid interval [%d, %d) on line %d", f.Start, f.End, lineIdx))
		}
		features = append(features, f)
	}
	return features, nil
}

// ReadFeaturesFromPath reads a feature-call table from path, or from stdin if
// path is Stdio.  Gzip input is detected from the path extension.
func ReadFeaturesFromPath(ctx context.Context, path string) (features []Feature, err error) {
	if path == Stdio {
		return ReadFeatures(os.Stdin)
	}
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "bed12.ReadFeaturesFromPath:", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, "bed12.ReadFeaturesFromPath:", path)
		}
		defer gz.Close() // nolint: errcheck
		reader = gz
	}
	if features, err = ReadFeatures(reader); err != nil {
		return nil, errors.E(err, path)
	}
	return features, nil
}

func writeLine(w *tsv.Writer, fields []string, wantColumns int) error {
	if len(fields) != wantColumns {
		return errors.E(errors.Invalid, fmt.Sprintf("bed12: expected %d columns, got %d: %s",
			wantColumns, len(fields), strings.Join(fields, "\t")))
	}
	for _, field := range fields {
		w.WriteString(field)
	}
	return w.EndLine()
}

// Format groups features into reads, writes the decorator lines of every read
// to decorators in read-key order, and the read lines, sorted by position, to
// reads.
func Format(features []Feature, decorators, reads io.Writer) error {
	grouped := GroupReads(features)

	decW := tsv.NewWriter(decorators)
	nDecorators := 0
	for _, r := range grouped {
		vlog.VI(2).Infof("%s:%d-%d %s: %d feature(s)", r.Chrom, r.Start, r.End, r.Fiber, len(r.Features))
		for _, line := range r.Decorators() {
			if err := writeLine(decW, line, DecoratorColumns); err != nil {
				return err
			}
			nDecorators++
		}
	}
	if err := decW.Flush(); err != nil {
		return err
	}

	SortReads(grouped)
	readW := tsv.NewWriter(reads)
	for _, r := range grouped {
		if err := writeLine(readW, r.Line(), ReadColumns); err != nil {
			return err
		}
	}
	if err := readW.Flush(); err != nil {
		return err
	}
	log.Printf("bed12.Format: %d feature(s), %d read(s), %d decorator(s)", len(features), len(grouped), nDecorators)
	return nil
}

// output is a destination created by createOutput.
type output struct {
	w     io.Writer
	close func() error
}

// createOutput opens path for writing, or stdout if path is Stdio.  Paths
// ending in ".gz" are BGZF-compressed, so they can be indexed by tabix.
func createOutput(ctx context.Context, path string) (output, error) {
	if path == Stdio {
		return output{w: os.Stdout, close: func() error { return nil }}, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return output{}, errors.E(err, "couldn't create output file:", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return output{w: out.Writer(ctx), close: func() error { return out.Close(ctx) }}, nil
	}
	bgzfW := bgzf.NewWriter(out.Writer(ctx), 1)
	return output{w: bgzfW, close: func() error {
		err := bgzfW.Close()
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
		return err
	}}, nil
}

// FormatPaths runs Format from inPath to the decorator and read outputs.  Any
// of the paths may be Stdio.
func FormatPaths(ctx context.Context, inPath, decoratorPath, readPath string) (err error) {
	features, err := ReadFeaturesFromPath(ctx, inPath)
	if err != nil {
		return err
	}
	dec, err := createOutput(ctx, decoratorPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dec.close(); cerr != nil && err == nil {
			err = errors.E(cerr, decoratorPath)
		}
	}()
	reads, err := createOutput(ctx, readPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reads.close(); cerr != nil && err == nil {
			err = errors.E(cerr, readPath)
		}
	}()
	return Format(features, dec.w, reads.w)
}
