package cmd

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fiberseq/firetools/coverage"
	"github.com/fiberseq/firetools/trackhub"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const sampleBedgraph = "../../../coverage/testdata/sample.bedgraph.gz"

func outputPaths(dir string) coverage.OutputPaths {
	return coverage.OutputPaths{
		Median: filepath.Join(dir, "coverage.txt"),
		Min:    filepath.Join(dir, "minimum-coverage.txt"),
		Max:    filepath.Join(dir, "maximum-coverage.txt"),
	}
}

func readScalar(t *testing.T, path string) int64 {
	v, err := coverage.ReadScalar(vcontext.Background(), path)
	assert.NoError(t, err)
	return v
}

func TestCoverageFromReference(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	f := coverageFlags{
		reference:   "testdata/ref.fa.fai",
		keepChroms:  "^chr[0-9]+$",
		minCoverage: coverage.DefaultOpts.MinCoverage,
		withinNSD:   coverage.DefaultOpts.WithinNSD,
		out:         outputPaths(tmpdir),
	}
	assert.NoError(t, runCoverage(ctx, f, sampleBedgraph))
	expect.EQ(t, readScalar(t, f.out.Median), int64(9))
	expect.EQ(t, readScalar(t, f.out.Min), int64(4))
	expect.EQ(t, readScalar(t, f.out.Max), int64(24))
}

func TestCoverageChromsTakePrecedence(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	// Only chrM is kept, and the reference is never read.
	f := coverageFlags{
		chroms:      "chrM",
		reference:   "testdata/missing.fa.fai",
		minCoverage: coverage.DefaultOpts.MinCoverage,
		withinNSD:   coverage.DefaultOpts.WithinNSD,
		out:         outputPaths(tmpdir),
	}
	assert.NoError(t, runCoverage(ctx, f, sampleBedgraph))
	expect.EQ(t, readScalar(t, f.out.Median), int64(500))
}

func TestCoverageRegions(t *testing.T) {
	ctx := vcontext.Background()
	for _, tt := range []struct {
		regions  string
		oneBased bool
	}{
		{"testdata/regions.bed", false},
		{"testdata/regions.onebased.bed", true},
	} {
		tmpdir, cleanup := testutil.TempDir(t, "", "")
		// Only chr1 [150, 260) is used: depth 12 over 100 bases, 30 over 10.
		f := coverageFlags{
			reference:   "testdata/ref.fa.fai",
			keepChroms:  "^chr[0-9]+$",
			regions:     tt.regions,
			oneBasedBED: tt.oneBased,
			minCoverage: coverage.DefaultOpts.MinCoverage,
			withinNSD:   coverage.DefaultOpts.WithinNSD,
			out:         outputPaths(tmpdir),
		}
		assert.NoError(t, runCoverage(ctx, f, sampleBedgraph))
		expect.EQ(t, readScalar(t, f.out.Median), int64(12), tt.regions)
		expect.EQ(t, readScalar(t, f.out.Min), int64(4), tt.regions)
		expect.EQ(t, readScalar(t, f.out.Max), int64(29), tt.regions)
		cleanup()
	}
}

func TestCoverageLowMedianWritesNothing(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	bedgraph := filepath.Join(tmpdir, "low.bedgraph")
	assert.NoError(t, ioutil.WriteFile(bedgraph, []byte("chr1\t0\t100\t2\nchr1\t100\t120\t7\n"), 0644))
	f := coverageFlags{
		chroms:      "chr1",
		minCoverage: coverage.DefaultOpts.MinCoverage,
		withinNSD:   coverage.DefaultOpts.WithinNSD,
		out:         outputPaths(tmpdir),
	}
	err := runCoverage(ctx, f, bedgraph)
	expect.True(t, coverage.IsLowCoverage(err))
	for _, path := range []string{f.out.Median, f.out.Min, f.out.Max} {
		_, err := ioutil.ReadFile(path)
		expect.True(t, err != nil, path)
	}
}

func TestCoverageMissingFlags(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	err := runCoverage(ctx, coverageFlags{out: outputPaths(tmpdir)}, sampleBedgraph)
	expect.True(t, errors.Is(errors.Invalid, err))
	err = runCoverage(ctx, coverageFlags{chroms: "chr1"}, sampleBedgraph)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestTrackhubWithCoverageFile(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	covPath := filepath.Join(tmpdir, "coverage.txt")
	assert.NoError(t, ioutil.WriteFile(covPath, []byte("100\n"), 0644))
	f := trackhubFlags{opts: trackhub.DefaultOpts, coverageFile: covPath}
	f.opts.Dir = filepath.Join(tmpdir, "trackHub")
	f.opts.Reference = "hg38"
	f.opts.Sample = "GM12878"
	assert.NoError(t, runTrackhub(ctx, f))

	db, err := ioutil.ReadFile(filepath.Join(f.opts.Dir, "trackDb.txt"))
	assert.NoError(t, err)
	expect.True(t, strings.Contains(string(db), "viewLimits 0:150\n"))
	expect.False(t, strings.Contains(string(db), "viewLimits 0:98\n"))
}

func TestFaidx(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	fa := filepath.Join(tmpdir, "tiny.fa")
	assert.NoError(t, ioutil.WriteFile(fa, []byte(">chr1\nACGT\nAC\n>chr2\nGG\n"), 0644))
	assert.NoError(t, runFaidx(ctx, fa, fa+".fai"))
	got, err := ioutil.ReadFile(fa + ".fai")
	assert.NoError(t, err)
	expect.EQ(t, string(got), "chr1\t6\t6\t4\t5\nchr2\t2\t20\t2\t3\n")
}
