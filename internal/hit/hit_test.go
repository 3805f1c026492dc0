package hit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testHit(patternName, readName string, spanning bool, overlap int) *Hit {
	return &Hit{
		Pattern: Pattern{
			Name:          patternName,
			Display:       "AAAACCCC]GGGGTTTT[TTTTAAAA",
			LeftBases:     8,
			RightBases:    8,
			MatchingBases: 24,
			Possible:      24,
			SpanningCount: boolCount(spanning),
			InsertSize:    24,
			Annotations:   []string{"GENE1-GENE2"},
		},
		Read1: Read{
			Name:          readName + "/1",
			Sequence:      "AAAACCCCGGGG",
			MatchingBases: 12,
			Spanning:      spanning,
			LeftOverlap:   overlap,
		},
		Read2: Read{
			Name:          readName + "/2",
			LeadingBlanks: 13,
			Sequence:      "TTTTTTTTAAAA",
			MatchingBases: 12,
			RightOverlap:  overlap,
		},
	}
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

func Test_WriteReadRoundTrip(t *testing.T) {
	hits := []*Hit{
		testHit("PA", "read1", true, 8),
		testHit("PB", "read2", false, 15),
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteHeading(&buf, "v1.2.0", []string{"genes"}))
	for _, h := range hits {
		assert.NoError(t, h.Write(&buf))
	}
	assert.NoError(t, WriteReadPairs(&buf, 123456))

	first := buf.String()

	set, err := ReadAll(strings.NewReader(first))
	assert.NoError(t, err)

	assert.Equal(t, "v1.2.0", set.Version)
	assert.Equal(t, []string{"genes"}, set.AnnotationHeadings)
	assert.Equal(t, uint64(123456), set.ReadPairs)
	assert.Len(t, set.Hits, 2)

	got := set.Hits[0]
	assert.Equal(t, "PA", got.Pattern.Name)
	assert.Equal(t, 8, got.Pattern.LeftBases)
	assert.Equal(t, 8, got.Pattern.RightBases)
	assert.Equal(t, 1, got.Pattern.SpanningCount)
	assert.Equal(t, []string{"GENE1-GENE2"}, got.Pattern.Annotations)
	assert.Equal(t, "read1/1", got.Read1.Name)
	assert.True(t, got.Read1.Spanning)
	assert.Equal(t, 13, got.Read2.LeadingBlanks)
	assert.Equal(t, "TTTTTTTTAAAA", got.Read2.Sequence)

	// writing the parsed set back reproduces the input byte for byte
	var again bytes.Buffer
	assert.NoError(t, WriteHeading(&again, set.Version, set.AnnotationHeadings))
	for _, h := range set.Hits {
		assert.NoError(t, h.Write(&again))
	}
	assert.NoError(t, WriteReadPairs(&again, set.ReadPairs))

	assert.Equal(t, first, again.String())
}

func Test_ReadConcatenated(t *testing.T) {
	var buf bytes.Buffer
	WriteHeading(&buf, "v1.2.0", []string{"genes"})
	testHit("PA", "r1", false, 4).Write(&buf)
	WriteReadPairs(&buf, 100)

	// a second segment with an identical heading
	WriteHeading(&buf, "v1.2.0", []string{"genes"})
	testHit("PB", "r2", false, 4).Write(&buf)
	WriteReadPairs(&buf, 50)

	set, err := ReadAll(&buf)
	assert.NoError(t, err)
	assert.Len(t, set.Hits, 2)
	assert.Equal(t, uint64(150), set.ReadPairs)
}

func Test_ReadRejectsInconsistentHeadings(t *testing.T) {
	var buf bytes.Buffer
	WriteHeading(&buf, "v1.2.0", []string{"genes"})
	WriteHeading(&buf, "v1.1.0", []string{"genes"})

	_, err := ReadAll(&buf)
	assert.Error(t, err)
}

func Test_ReadRejectsMalformed(t *testing.T) {
	var hb bytes.Buffer
	WriteHeading(&hb, "v1.2.0", nil)
	heading := hb.String()

	tests := []struct {
		name  string
		input string
	}{
		{"no input", ""},
		{"bad heading", "fuzzion2 v1\tnope\n"},
		{"orphan pattern line", heading + "pattern PA\tAA]C[GG\t4\t8\t50.0\t0\t\t\t10\n"},
		{"pattern without delimiters", heading +
			"pattern PA\tAACGG\t4\t8\t50.0\t0\t\t\t10\n" +
			"read r/1\tAAC\t2\t3\t66.7\t0\t2\t0\n" +
			"read r/2\tCGG\t2\t3\t66.7\t0\t0\t2\n"},
		{"read length mismatch", heading +
			"pattern PA\tAA]C[GG\t4\t8\t50.0\t0\t\t\t10\n" +
			"read r/1\tAACG\t2\t3\t66.7\t0\t2\t0\n" +
			"read r/2\tCGG\t2\t3\t66.7\t0\t0\t2\n"},
		{"zero insert size", heading +
			"pattern PA\tAA]C[GG\t4\t8\t50.0\t0\t\t\t0\n" +
			"read r/1\tAAC\t2\t3\t66.7\t0\t2\t0\n" +
			"read r/2\tCGG\t2\t3\t66.7\t0\t0\t2\n"},
	}

	for _, tt := range tests {
		_, err := ReadAll(strings.NewReader(tt.input))
		assert.Error(t, err, tt.name)
	}
}

func Test_SortOrder(t *testing.T) {
	a := testHit("PA", "r1", false, 4)
	b := testHit("PA", "r2", true, 4) // same geometry, spanning
	c := testHit("PB", "r3", false, 4)

	d := testHit("PA", "r4", false, 4)
	d.Pattern.LeftBases = 4 // smaller left side sorts first

	hits := []*Hit{c, a, b, d}
	Sort(hits)

	want := []*Hit{d, b, a, c} // spanning count descends within a geometry
	for i := range want {
		if hits[i] != want[i] {
			t.Fatalf("position %d: got %s/%s", i, hits[i].Pattern.Name, hits[i].Read1.Name)
		}
	}
}

func Test_MarkDuplicates(t *testing.T) {
	a := testHit("PA", "r1", false, 4)
	b := testHit("PA", "r2", false, 4)
	c := testHit("PB", "r3", false, 4)

	hits := []*Hit{a, b, c}
	Sort(hits)
	MarkDuplicates(hits)

	if a.Dup || !b.Dup || c.Dup {
		t.Errorf("dup flags %v/%v/%v, want false/true/false", a.Dup, b.Dup, c.Dup)
	}
}

func Test_Strength(t *testing.T) {
	tests := []struct {
		name     string
		spanning bool
		overlap  int
		dup      bool
		want     string
	}{
		{"strong with spanning", true, 15, false, "strong+"},
		{"strong without spanning", false, 15, false, "strong-"},
		{"weak overlap", true, 14, false, "weak"},
		{"duplicate", true, 15, true, "dup"},
	}

	for _, tt := range tests {
		h := testHit("PA", "r", tt.spanning, tt.overlap)
		h.Read1.RightOverlap = tt.overlap // both sides covered
		h.Dup = tt.dup

		if got := h.Strength(DefaultMinStrong); got != tt.want {
			t.Errorf("%s: Strength = %s, want %s", tt.name, got, tt.want)
		}
	}
}
