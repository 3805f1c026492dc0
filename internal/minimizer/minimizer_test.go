package minimizer

import (
	"testing"

	"github.com/stjude/fuzzion2/internal/kmer"
	"github.com/stjude/fuzzion2/internal/rank"
)

// identityTable ranks every k-mer by its own numeric value.
func identityTable(k int) *rank.Table {
	t := &rank.Table{K: k, Rank: make([]uint32, kmer.Num(k))}
	for i := range t.Rank {
		t.Rank[i] = uint32(i)
	}
	return t
}

func Test_WindowsPartition(t *testing.T) {
	table := identityTable(4)
	seq := "ACGTACGTAAAACCCCGGGGTTTTACGT"

	for _, w := range []int{1, 3, 5, 8, 100} {
		windows := Windows(seq, w, table)

		lastID := -1
		for _, win := range windows {
			id := WindowID(win.Offset, w)

			if win.Offset < w*id || win.Offset >= w*(id+1) {
				t.Errorf("w=%d: offset %d outside window %d", w, win.Offset, id)
			}
			if id <= lastID {
				t.Errorf("w=%d: window ids not strictly increasing", w)
			}
			lastID = id

			km, err := kmer.Parse(seq[win.Offset : win.Offset+table.K])
			if err != nil {
				t.Fatalf("w=%d: window offset %d has no valid k-mer", w, win.Offset)
			}
			if table.Rank[km] != win.Minimizer {
				t.Errorf("w=%d: minimizer %d disagrees with rank of k-mer at %d",
					w, win.Minimizer, win.Offset)
			}
		}
	}
}

func Test_WindowsPerKmer(t *testing.T) {
	table := identityTable(4)
	seq := "ACGTACG"

	// w=1 degenerates to one window per k-mer
	windows := Windows(seq, 1, table)

	if len(windows) != 4 {
		t.Fatalf("got %d windows, want 4", len(windows))
	}
	for i, win := range windows {
		if win.Offset != i {
			t.Errorf("window %d has offset %d", i, win.Offset)
		}
	}
}

func Test_WindowsMinimum(t *testing.T) {
	table := identityTable(4)

	// AAAA is the numeric minimum; in one w=8 window covering offsets 0..7
	// the minimizer must be AAAA at its first occurrence
	windows := Windows("GGGTAAAAACC", 8, table)

	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}

	km, _ := kmer.Parse("AAAA")
	if windows[0].Minimizer != table.Rank[km] || windows[0].Offset != 4 {
		t.Errorf("got minimizer %d at %d, want rank(AAAA) at 4",
			windows[0].Minimizer, windows[0].Offset)
	}
}

func Test_WindowsTieToEarliestOffset(t *testing.T) {
	table := identityTable(4)

	// two AAAA runs inside one window; the first offset wins
	windows := Windows("AAAACAAAA", 16, table)

	if len(windows) != 1 || windows[0].Offset != 0 {
		t.Fatalf("got %+v, want one window at offset 0", windows)
	}
}

func Test_WindowsEdgeCases(t *testing.T) {
	table := identityTable(4)

	tests := []struct {
		name string
		seq  string
		want int
	}{
		{"empty", "", 0},
		{"shorter than k", "ACG", 0},
		{"all undefined", "NNNNNNNNNN", 0},
		{"undefined gap spans a window", "ACGTANNNNNNNNNNNNACGTA", 2},
	}

	for _, tt := range tests {
		if got := Windows(tt.seq, 5, table); len(got) != tt.want {
			t.Errorf("%s: got %d windows, want %d", tt.name, len(got), tt.want)
		}
	}
}
