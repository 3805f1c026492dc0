package kmer

import (
	"testing"
)

func Test_CharToBase(t *testing.T) {
	tests := []struct {
		ch   byte
		base byte
	}{
		{'A', BaseA},
		{'a', BaseA},
		{'C', BaseC},
		{'c', BaseC},
		{'G', BaseG},
		{'g', BaseG},
		{'T', BaseT},
		{'t', BaseT},
		{'N', BaseOther},
		{'X', BaseOther},
		{'-', BaseOther},
	}

	for _, tt := range tests {
		if got := CharToBase(tt.ch); got != tt.base {
			t.Errorf("CharToBase(%q) = %d, want %d", tt.ch, got, tt.base)
		}
	}
}

func Test_StringParseRoundTrip(t *testing.T) {
	tests := []string{"A", "ACGT", "TTTTT", "GATTACA", "ACGTACGTACGTACG"}

	for _, s := range tests {
		km, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", s, err)
		}
		if got := String(len(s), km); got != s {
			t.Errorf("String(Parse(%q)) = %q", s, got)
		}
	}

	if _, err := Parse("ACNGT"); err == nil {
		t.Error("Parse accepted an undefined base")
	}
	if _, err := Parse("ACGTACGTACGTACGT"); err == nil {
		t.Error("Parse accepted a 16-mer")
	}
}

func Test_KmerReverseComplementInvolution(t *testing.T) {
	for k := 1; k <= 7; k++ {
		for km := uint32(0); km < Num(k); km++ {
			if got := ReverseComplement(k, ReverseComplement(k, km)); got != km {
				t.Fatalf("k=%d: revcomp(revcomp(%d)) = %d", k, km, got)
			}
		}
	}
}

func Test_KmerReverseComplement(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"ACGT", "ACGT"},
		{"AAAA", "TTTT"},
		{"GGGC", "GCCC"},
		{"AACCGGTT", "AACCGGTT"},
	}

	for _, tt := range tests {
		km, _ := Parse(tt.in)
		if got := String(len(tt.in), ReverseComplement(len(tt.in), km)); got != tt.out {
			t.Errorf("revcomp(%s) = %s, want %s", tt.in, got, tt.out)
		}
	}
}

func Test_SequenceReverseComplement(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"", ""},
		{"ACGT", "ACGT"},
		{"AAAACCCC", "GGGGTTTT"},
		{"ACNGT", "ACNGT"}, // undefined bases carry through
		{"GATTACA", "TGTAATC"},
	}

	for _, tt := range tests {
		if got := SequenceReverseComplement(tt.in); got != tt.out {
			t.Errorf("SequenceReverseComplement(%s) = %s, want %s", tt.in, got, tt.out)
		}
		if got := SequenceReverseComplement(SequenceReverseComplement(tt.in)); got != tt.in {
			t.Errorf("involution failed for %s: %s", tt.in, got)
		}
	}
}

func Test_Each(t *testing.T) {
	type found struct {
		kmer  string
		index int
	}

	collect := func(seq string, k int) []found {
		var out []found
		Each(seq, k, func(km uint32, i int) bool {
			out = append(out, found{String(k, km), i})
			return true
		})
		return out
	}

	tests := []struct {
		seq  string
		k    int
		want []found
	}{
		{"ACGTA", 4, []found{{"ACGT", 0}, {"CGTA", 1}}},
		{"ACG", 4, nil},           // shorter than k
		{"NNNNNNNN", 4, nil},      // only undefined bases
		{"ACGTNACGT", 4, []found{{"ACGT", 0}, {"ACGT", 5}}}, // N resets the run
		{"AANCGT", 4, nil},
	}

	for _, tt := range tests {
		got := collect(tt.seq, tt.k)
		if len(got) != len(tt.want) {
			t.Errorf("Each(%q) found %d k-mers, want %d", tt.seq, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Each(%q)[%d] = %v, want %v", tt.seq, i, got[i], tt.want[i])
			}
		}
	}
}

func Test_EachStopsEarly(t *testing.T) {
	count := 0
	Each("ACGTACGTACGT", 4, func(uint32, int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("Each reported %d k-mers after stop, want 3", count)
	}
}
