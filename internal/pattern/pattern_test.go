package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stjude/fuzzion2/internal/kmer"
	"github.com/stjude/fuzzion2/internal/rank"
)

func Test_Parse(t *testing.T) {
	tests := []struct {
		name    string
		display string
		valid   bool
	}{
		{"fusion", "AAAACCCC]GGGGTTTT[TTTTAAAA", true},
		{"itd", "AAAAGGGG}CCCC{GGGGAAAA", true},
		{"adjacent delimiters", "AAAA][TTTT", true},
		{"minimal sides", "A]GGGGTTTTGGGG[A", true},
		{"first delimiter at start", "]GGGG[TTTT", false},
		{"second delimiter at end", "AAAA]GGGG[", false},
		{"reversed delimiters", "AAAA[GGGG]TTTT", false},
		{"no delimiters", "AAAAGGGGTTTT", false},
		{"only one delimiter", "AAAA]GGGGTTTT", false},
		{"mixed delimiters", "AAAA]GGGG{TTTT", false},
		{"extra delimiter", "AAAA]GG]GG[TTTT", false},
		{"braces and brackets", "AA]CC[GG}TT{AA", false},
	}

	for _, tt := range tests {
		_, err := Parse("P1", tt.display, nil)
		if tt.valid && err != nil {
			t.Errorf("%s: Parse rejected %q: %v", tt.name, tt.display, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("%s: Parse accepted %q", tt.name, tt.display)
		}
	}
}

func Test_ParseNames(t *testing.T) {
	for _, name := range []string{"", "two words", "tab\tname"} {
		if _, err := Parse(name, "AAAA]CCCC[GGGG", nil); err == nil {
			t.Errorf("Parse accepted name %q", name)
		}
	}
}

func Test_ParseReconstruction(t *testing.T) {
	tests := []struct {
		display   string
		left      int
		middle    int
		right     int
		hasBraces bool
	}{
		{"AAAACCCC]GGGGTTTT[TTTTAAAA", 8, 8, 8, false},
		{"AAAAGGGG}CCCC{GGGGAAAA", 8, 4, 8, true},
		{"AC]GT[CA", 2, 2, 2, false},
		{"AAAA][TTTT", 4, 0, 4, false},
	}

	for _, tt := range tests {
		p, err := Parse("P1", tt.display, nil)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.display, err)
		}

		if p.LeftBases != tt.left || p.MiddleBases != tt.middle || p.RightBases != tt.right {
			t.Errorf("%q: got sides %d/%d/%d, want %d/%d/%d", tt.display,
				p.LeftBases, p.MiddleBases, p.RightBases, tt.left, tt.middle, tt.right)
		}
		if p.HasBraces != tt.hasBraces {
			t.Errorf("%q: HasBraces = %v", tt.display, p.HasBraces)
		}
		if len(p.Sequence) != p.LeftBases+p.MiddleBases+p.RightBases {
			t.Errorf("%q: sequence length %d does not sum the sides", tt.display, len(p.Sequence))
		}

		// the display with delimiters removed equals the sequence
		stripped := make([]byte, 0, len(p.Sequence))
		for i := 0; i < len(p.Display); i++ {
			switch p.Display[i] {
			case ']', '[', '}', '{':
			default:
				stripped = append(stripped, p.Display[i])
			}
		}
		if string(stripped) != p.Sequence {
			t.Errorf("%q: stripped display %q != sequence %q", tt.display, stripped, p.Sequence)
		}
	}
}

func Test_DisplayOffset(t *testing.T) {
	p, err := Parse("P1", "AAAACCCC]GGGGTTTT[TTTTAAAA", nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{7, 7},
		{8, 9},  // first base past the first delimiter
		{15, 16},
		{16, 18}, // first base past the second delimiter
		{23, 25},
	}

	for _, tt := range tests {
		if got := p.DisplayOffset(tt.offset); got != tt.want {
			t.Errorf("DisplayOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
		if p.Display[tt.want] != p.Sequence[tt.offset] {
			t.Errorf("display base at %d disagrees with sequence base at %d", tt.want, tt.offset)
		}
	}
}

func Test_ReadCatalog(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "patterns.txt")

	content := "pattern\tsequence\tgenes\tsource\n" +
		"PA\tAAAACCCC]GGGGTTTT[TTTTAAAA\tGENE1-GENE2\tcosmic\n" +
		"PI\tAAAAGGGG}CCCC{GGGGAAAA\tGENE3\tcurated\n"
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	catalog, err := ReadCatalog(filename)
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}

	if len(catalog.Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(catalog.Patterns))
	}
	if len(catalog.AnnotationHeadings) != 2 || catalog.AnnotationHeadings[0] != "genes" {
		t.Errorf("annotation headings = %v", catalog.AnnotationHeadings)
	}
	if catalog.Patterns[0].Name != "PA" || catalog.Patterns[1].HasBraces != true {
		t.Errorf("patterns parsed incorrectly: %+v", catalog.Patterns)
	}
	if len(catalog.Patterns[1].Annotations) != 2 || catalog.Patterns[1].Annotations[1] != "curated" {
		t.Errorf("annotations = %v", catalog.Patterns[1].Annotations)
	}
}

func Test_ReadCatalogRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad header", "name\tseq\nPA\tAAAA]C[GGGG\n"},
		{"short row", "pattern\tsequence\tgenes\nPA\tAAAA]C[GGGG\n"},
		{"long row", "pattern\tsequence\nPA\tAAAA]C[GGGG\textra\n"},
		{"bad pattern", "pattern\tsequence\nPA\tAAAACGGGG\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		filename := filepath.Join(t.TempDir(), "bad.txt")
		if err := os.WriteFile(filename, []byte(tt.content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadCatalog(filename); err == nil {
			t.Errorf("ReadCatalog accepted %s", tt.name)
		}
	}
}

func Test_IndexConsistency(t *testing.T) {
	table := &rank.Table{K: 4, Rank: make([]uint32, kmer.Num(4))}
	for i := range table.Rank {
		table.Rank[i] = uint32(i)
	}

	patterns := []*Pattern{
		mustParse(t, "PA", "AAAACCCC]GGGGTTTT[TTTTAAAA"),
		mustParse(t, "PB", "ACGTACGT}ACGT{TACGTACG"),
	}

	cutoff := uint32(200)
	index := NewIndex(patterns, 5, table, cutoff)

	for minimizer, locations := range index {
		if minimizer >= cutoff {
			t.Errorf("common minimizer %d indexed", minimizer)
		}
		for _, loc := range locations {
			seq := patterns[loc.Index].Sequence
			km, err := kmer.Parse(seq[loc.Offset : loc.Offset+table.K])
			if err != nil {
				t.Fatalf("location %+v has no k-mer", loc)
			}
			if table.Rank[km] != minimizer {
				t.Errorf("location %+v indexed under %d but its k-mer ranks %d",
					loc, minimizer, table.Rank[km])
			}
		}
	}
}

func mustParse(t *testing.T, name, display string) *Pattern {
	t.Helper()
	p, err := Parse(name, display, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
