package pattern

import (
	"github.com/stjude/fuzzion2/internal/minimizer"
	"github.com/stjude/fuzzion2/internal/rank"
)

// Location indicates a position within a pattern sequence.
type Location struct {
	Index  int // index of the pattern in a catalog
	Offset int // offset within the pattern sequence
}

// Index maps an uncommon minimizer to the locations of that minimizer in
// the patterns. It is built once at startup and immutable thereafter.
type Index map[uint32][]Location

// NewIndex extracts the windows of every pattern sequence and records each
// uncommon minimizer's locations. Minimizers with rank at or above
// maxMinimizer are common and left out.
func NewIndex(patterns []*Pattern, w int, table *rank.Table, maxMinimizer uint32) Index {
	index := make(Index)

	for i, p := range patterns {
		for _, win := range minimizer.Windows(p.Sequence, w, table) {
			if win.Minimizer >= maxMinimizer {
				continue // don't put common minimizer in the index
			}
			index[win.Minimizer] = append(index[win.Minimizer],
				Location{Index: i, Offset: win.Offset})
		}
	}

	return index
}
