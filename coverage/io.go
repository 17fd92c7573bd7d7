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
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/fiberseq/firetools/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// tsvRecord is one line of a coverage table.  Columns are read in field
// order; the table has no header.
type tsvRecord struct {
	Chrom string
	Start int64
	End   int64
	Depth int64
}

// Read parses a headerless chrom/start/end/depth table.  Lines starting with
// '#' are skipped.
func Read(r io.Reader) ([]Record, error) {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	tr.LazyQuotes = true

	var (
		records []Record
		row     tsvRecord
	)
	for lineIdx := 1; ; lineIdx++ {
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("coverage.Read: line %d", lineIdx))
		}
		if row.Start < 0 || row.End <= row.Start {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("coverage.Read: invalid interval [%d, %d) on line %d", row.Start, row.End, lineIdx))
		}
		if row.Depth < 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("coverage.Read: negative depth %d on line %d", row.Depth, lineIdx))
		}
		records = append(records, Record{Chrom: row.Chrom, Start: row.Start, End: row.End, Depth: row.Depth})
	}
	return records, nil
}

// ReadRecords reads a coverage table from path.  Gzip-compressed input is
// detected from the path extension.
func ReadRecords(ctx context.Context, path string) (records []Record, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "coverage.ReadRecords:", path)
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
			return nil, errors.E(err, "coverage.ReadRecords:", path)
		}
		defer gz.Close() // nolint: errcheck
		reader = gz
	}
	if records, err = Read(reader); err != nil {
		return nil, errors.E(err, path)
	}
	log.Printf("coverage.ReadRecords: %d interval(s) loaded from %s", len(records), path)
	return records, nil
}

// ReadRegions loads the BED at path as the Outside option of Estimate: only
// intervals lying entirely within its regions are kept.  If oneBased is set,
// the BED coordinates are read as one-based, closed intervals.
func ReadRegions(path string, oneBased bool) (*interval.BEDUnion, error) {
	outside, err := interval.NewBEDUnionFromPath(path, interval.NewBEDOpts{Invert: true, OneBasedInput: oneBased})
	if err != nil {
		return nil, errors.E(err, "coverage.ReadRegions:", path)
	}
	return &outside, nil
}

// OutputPaths names the three files written by Summary.Write.
type OutputPaths struct {
	Median string
	Min    string
	Max    string
}

// Write stores the rounded median, minimum and maximum coverage, each as a
// single newline-terminated integer.
func (s Summary) Write(ctx context.Context, out OutputPaths) error {
	median, min, max := s.Rounded()
	for _, v := range []struct {
		path  string
		value int64
	}{
		{out.Median, median},
		{out.Min, min},
		{out.Max, max},
	} {
		if err := writeScalar(ctx, v.path, v.value); err != nil {
			return err
		}
	}
	return nil
}

func writeScalar(ctx context.Context, path string, value int64) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create coverage file:", path)
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err = fmt.Fprintf(out.Writer(ctx), "%d\n", value); err != nil {
		return errors.E(err, "error writing to coverage file:", path)
	}
	return nil
}

// ReadScalar reads back a file written by Summary.Write.
func ReadScalar(ctx context.Context, path string) (value int64, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return 0, errors.E(err, "coverage.ReadScalar:", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return 0, errors.E(err, "coverage.ReadScalar:", path)
	}
	if value, err = strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); err != nil {
		return 0, errors.E(errors.Invalid, err, "coverage.ReadScalar:", path)
	}
	return value, nil
}
