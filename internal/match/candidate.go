package match

import (
	"sort"

	"github.com/stjude/fuzzion2/internal/align"
	"github.com/stjude/fuzzion2/internal/minimizer"
	"github.com/stjude/fuzzion2/internal/pattern"
)

// Candidate is a placement of one read against one pattern that passed the
// minimizer-count and LCS gates. The overlap fields are filled in at
// validation time only.
type Candidate struct {
	pattern.Location
	Length        int // read length
	MatchingBases int // whole-read LCS; zero marks an unmatched mate

	LeftOverlap   int
	LeftMatching  int
	RightOverlap  int
	RightMatching int
	Spanning      bool
}

// CandidateMap collects the candidates of one read, keyed by pattern index.
type CandidateMap map[int][]Candidate

func (cm CandidateMap) sortedKeys() []int {
	keys := make([]int, 0, len(cm))
	for k := range cm {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// locations extracts the read's uncommon minimizers, looks them up in the
// pattern index and returns the implied (pattern, offset) placements sorted
// by pattern index, then offset. A nil eligible slice admits all patterns.
func (m *Matcher) locations(seq string, eligible []bool) []pattern.Location {
	var locations []pattern.Location

	for _, win := range minimizer.Windows(seq, m.cfg.Window, m.table) {
		if win.Minimizer >= m.cfg.MaxMinimizer {
			continue // ignore common minimizer
		}

		for _, loc := range m.index[win.Minimizer] {
			if eligible != nil && !eligible[loc.Index] {
				continue
			}

			// starting offset of the pattern's matching substring
			offset := loc.Offset - win.Offset
			if offset < 0 {
				offset = 0
			}

			locations = append(locations, pattern.Location{Index: loc.Index, Offset: offset})
		}
	}

	sort.Slice(locations, func(a, b int) bool {
		if locations[a].Index != locations[b].Index {
			return locations[a].Index < locations[b].Index
		}
		return locations[a].Offset < locations[b].Offset
	})

	return locations
}

// candidates walks runs of identical placements; a run long enough to pass
// the minimizer-count gate is scored with the LCS similarity gate and, if it
// passes that too, recorded as a Candidate.
func (m *Matcher) candidates(seq string, eligible []bool) CandidateMap {
	locations := m.locations(seq, eligible)

	seqlen := len(seq)
	minMatches := m.minMatches(seqlen)

	cmap := make(CandidateMap)

	for i := 0; i < len(locations); {
		loc := locations[i]

		count := 1
		for i++; i < len(locations) && locations[i] == loc; i++ {
			count++
		}

		if count < m.cfg.MinMins {
			continue // not enough matching minimizers
		}

		pseq := m.patterns[loc.Index].Sequence

		pcmplen := len(pseq) - loc.Offset
		if seqlen < pcmplen {
			pcmplen = seqlen
		}

		matchingBases := align.LCS(seq, 0, seqlen, pseq, loc.Offset, pcmplen)

		if matchingBases < minMatches {
			continue // not enough matching bases
		}

		cmap[loc.Index] = append(cmap[loc.Index], Candidate{
			Location:      loc,
			Length:        seqlen,
			MatchingBases: matchingBases,
		})
	}

	return cmap
}
