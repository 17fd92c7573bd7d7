// Package fasta reads and writes FASTA index (.fai) files, which describe the
// sequences of a reference genome.  See http://www.htslib.org/doc/faidx.html.
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
package fasta
