package fasta

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	pkgerrors "github.com/pkg/errors"
)

// IndexEntry is one line of a FASTA index.  The format is: "<sequence
// name>\t<length>\t<byte offset>\t<bases per line>\t<bytes per line>".
// For example: "chr3\t12345\t9000\t80\t81".
type IndexEntry struct {
	Name      string
	Length    int64
	Offset    int64
	LineBases int64
	LineWidth int64
}

// GenerateIndex generates an index (*.fai) from FASTA.
//
// The index format is defined by "samtool faidx"
// (http://www.htslib.org/doc/faidx.html).
func GenerateIndex(out io.Writer, in io.Reader) (err error) {
	var (
		tsvOut      = tsv.NewWriter(out)
		r           = bufio.NewReader(in)
		seqName     string
		seqStartOff int64
		totalBases  int
		lineBases   int
		lineWidth   int
		cumByte     int64
		eof         bool
	)

	setErr := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	flush := func() {
		tsvOut.WriteString(seqName)
		tsvOut.WriteInt64(int64(totalBases))
		tsvOut.WriteInt64(seqStartOff)
		tsvOut.WriteInt64(int64(lineBases))
		tsvOut.WriteInt64(int64(lineWidth))
		setErr(tsvOut.EndLine())
	}
	for !eof && err == nil {
		fullLine, e := r.ReadBytes('\n')
		if e == io.EOF { // Process fullLine, then exit the loop
			eof = true
		} else if e != nil {
			setErr(e)
		}
		cumByte += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if lineWidth != 0 {
				if seqName == "" {
					setErr(errors.E(errors.Invalid, "malformed FASTA file"))
				}
				flush()
			}
			seqName = strings.Split(string(line[1:]), " ")[0]
			seqStartOff = cumByte
			lineWidth = 0
			lineBases = 0
			totalBases = 0
			continue
		}
		if lineWidth == 0 {
			lineWidth = len(fullLine)
			lineBases = len(line)
		}
		totalBases += len(line)
	}
	if cumByte == 0 {
		setErr(errors.E(errors.Invalid, "empty FASTA file"))
		return
	}
	flush()
	setErr(tsvOut.Flush())
	return
}

// ReadIndex parses a FASTA index.
func ReadIndex(in io.Reader) ([]IndexEntry, error) {
	r := tsv.NewReader(in)
	var (
		entries []IndexEntry
		entry   IndexEntry
	)
	for {
		if err := r.Read(&entry); err != nil {
			if err == io.EOF {
				break
			}
			return nil, pkgerrors.Wrapf(err, "malformed FASTA index line %d", len(entries)+1)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReadIndexFromPath loads the index of a reference.  A path ending in ".fai"
// is read as an index; anything else is read as an uncompressed FASTA and
// indexed on the fly.
func ReadIndexFromPath(ctx context.Context, path string) (entries []IndexEntry, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, pkgerrors.Wrapf(err, "open reference %s", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if strings.HasSuffix(path, ".fai") {
		entries, err = ReadIndex(in.Reader(ctx))
		return entries, pkgerrors.Wrap(err, path)
	}
	log.Printf("fasta.ReadIndexFromPath: %s is not a .fai, indexing it", path)
	var idx bytes.Buffer
	if err = GenerateIndex(&idx, in.Reader(ctx)); err != nil {
		return nil, pkgerrors.Wrapf(err, "index %s", path)
	}
	entries, err = ReadIndex(&idx)
	return entries, pkgerrors.Wrap(err, path)
}

// SeqNames returns, in index order, the names of the sequences matching keep.
// A nil keep matches every sequence.
func SeqNames(entries []IndexEntry, keep *regexp.Regexp) []string {
	var names []string
	for _, e := range entries {
		if keep == nil || keep.MatchString(e.Name) {
			names = append(names, e.Name)
		}
	}
	return names
}
