package interval

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestLoadSortedBEDIntervals(t *testing.T) {
	tests := []struct {
		pathname              string
		invert, oneBasedInput bool
		want                  map[string][]PosType
	}{
		{"testdata/exclude.bed",
			false,
			false,
			map[string][]PosType{
				"chr1": []PosType{100, 250, 400, 500},
				"chr2": []PosType{},
				"chr3": []PosType{10, 20},
			},
		},
		{"testdata/onebased.bed",
			true,
			true,
			map[string][]PosType{
				"chr1": []PosType{-1, 100, 200, 300, 400, math.MaxInt32},
			},
		},
	}

	for _, tt := range tests {
		result, err := NewBEDUnionFromPath(
			tt.pathname,
			NewBEDOpts{
				Invert:        tt.invert,
				OneBasedInput: tt.oneBasedInput,
			},
		)
		expect.NoError(t, err)
		if !reflect.DeepEqual(result.nameMap, tt.want) {
			t.Errorf("%s: wanted: %v  got: %v", tt.pathname, tt.want, result.nameMap)
		}
	}
}

func TestUnsortedBED(t *testing.T) {
	_, err := NewBEDUnion(strings.NewReader("chr1\t50\t60\nchr2\t0\t10\nchr1\t70\t80\n"), NewBEDOpts{})
	expect.True(t, err != nil)
	_, err = NewBEDUnion(strings.NewReader("chr1\t50\t60\nchr1\t10\t20\n"), NewBEDOpts{})
	expect.True(t, err != nil)
}

func TestOverlapsByName(t *testing.T) {
	u, err := NewBEDUnionFromEntries([]Entry{
		{"chr1", 10, 20},
		{"chr1", 30, 40},
	}, NewBEDOpts{})
	expect.NoError(t, err)
	tests := []struct {
		start, end PosType
		want       bool
	}{
		{0, 10, false},
		{0, 11, true},
		{19, 30, true},
		{20, 30, false},
		{25, 100, true},
		{40, 50, false},
		{12, 15, true},
	}
	for _, tt := range tests {
		expect.EQ(t, u.OverlapsByName("chr1", tt.start, tt.end), tt.want, "[%d, %d)", tt.start, tt.end)
	}
	expect.False(t, u.OverlapsByName("chr2", 0, 100))
	expect.True(t, u.HasChrom("chr1"))
	expect.False(t, u.HasChrom("chr2"))
}

func TestOverlapsInverted(t *testing.T) {
	// The complement of [100, 200) on chr1 is [-1, 100) and [200, 2^31-1).
	u, err := NewBEDUnion(strings.NewReader("chr1\t100\t200\nchr2\t0\t0\n"), NewBEDOpts{Invert: true})
	expect.NoError(t, err)
	expect.False(t, u.OverlapsByName("chr1", 100, 200))
	expect.False(t, u.OverlapsByName("chr1", 150, 160))
	expect.True(t, u.OverlapsByName("chr1", 99, 150))
	expect.True(t, u.OverlapsByName("chr1", 150, 201))
	expect.True(t, u.OverlapsByName("chr1", 0, 10))
	// A mentioned chromosome without bases is entirely in the complement.
	expect.True(t, u.HasChrom("chr2"))
	expect.True(t, u.OverlapsByName("chr2", 0, 10))
	expect.False(t, u.HasChrom("chr3"))
}
