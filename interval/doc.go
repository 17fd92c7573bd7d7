/*Package interval implements interval-union operations in a manner optimized
  for sets of genomic coordinates represented by BED files.
  (Note the 'union'.  Overlapping intervals are merged, not tracked
  separately.)
  Chromosomes are looked up by name.  It assumes every position fits in a
  PosType.
*/
package interval
