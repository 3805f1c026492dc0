// Package match implements the read-pair to pattern matching pipeline:
// minimizer-driven candidate discovery, best-pair selection under insert-size
// and alignment-order constraints, the optional single-read fallback, and
// junction overlap validation.
package match

import (
	"math"
	"sort"

	"github.com/stjude/fuzzion2/internal/kmer"
	"github.com/stjude/fuzzion2/internal/pattern"
	"github.com/stjude/fuzzion2/internal/rank"
)

// Config carries the matching tunables. It is immutable for the life of a
// run and shared by all workers.
type Config struct {
	Window       int     // minimizer window length in bases
	MaxMinimizer uint32  // rank cutoff; ranks at or above it are common
	MinBases     float64 // minimum percentile of matching bases
	MinMins      int     // minimum number of matching minimizers
	MaxInsert    int     // maximum insert size in bases
	MaxTrim      int     // how far the second read may sit ahead of the first
	MinOverlap   int     // minimum junction-side overlap in bases
	BestOverall  bool    // keep one best match overall instead of one per pattern
	FindSingle   bool    // fall back to single-read matches
}

// A Match pairs a candidate of the forward first read with a candidate of
// the reverse-complemented second read on the same pattern. In single-read
// mode one side is a synthetic unmatched mate with zero matching bases.
type Match struct {
	C1, C2 Candidate
}

// MatchingBases returns the combined matching bases of both mates.
func (m *Match) MatchingBases() int {
	return m.C1.MatchingBases + m.C2.MatchingBases
}

// Possible returns the maximum possible number of matching bases.
func (m *Match) Possible() int {
	switch {
	case m.C1.MatchingBases == 0: // c1 is an unmatched mate
		return m.C2.Length
	case m.C2.MatchingBases == 0: // c2 is an unmatched mate
		return m.C1.Length
	default:
		return m.C1.Length + m.C2.Length
	}
}

// InsertSize returns the insert size of this match.
func (m *Match) InsertSize() int {
	switch {
	case m.C1.MatchingBases == 0:
		return m.C2.Length
	case m.C2.MatchingBases == 0:
		return m.C1.Length
	case m.C1.Offset <= m.C2.Offset: // c1 is aligned ahead of c2
		return maxInt(m.C1.Length, m.C2.Offset-m.C1.Offset+m.C2.Length)
	default: // c2 is aligned ahead of c1
		return maxInt(m.C2.Length, m.C1.Offset-m.C2.Offset+m.C1.Length)
	}
}

// SpanningCount returns how many mates span the junction (0, 1 or 2).
func (m *Match) SpanningCount() int {
	n := 0
	if m.C1.Spanning {
		n++
	}
	if m.C2.Spanning {
		n++
	}
	return n
}

// Matcher finds pattern matches for read pairs. It holds only immutable
// state and is safe for concurrent use by multiple workers.
type Matcher struct {
	cfg      Config
	table    *rank.Table
	patterns []*pattern.Pattern
	index    pattern.Index
}

// New returns a matcher over the given pattern catalog and index.
func New(cfg Config, table *rank.Table, patterns []*pattern.Pattern, index pattern.Index) *Matcher {
	return &Matcher{cfg: cfg, table: table, patterns: patterns, index: index}
}

// Patterns returns the catalog the matcher was built over.
func (m *Matcher) Patterns() []*pattern.Pattern {
	return m.patterns
}

func (m *Matcher) minMatches(seqlen int) int {
	return int(math.Ceil((m.cfg.MinBases / 100.0) * float64(seqlen)))
}

// Find matches the given read pair against the patterns and returns the
// surviving validated matches, best first. The second read is matched as its
// reverse complement. When BestOverall is set at most one match is returned;
// otherwise at most one per pattern (plus one per side in single-read mode).
func (m *Matcher) Find(sequence1, sequence2 string) []Match {
	cmap1 := m.candidates(sequence1, nil)

	if len(cmap1) == 0 && !m.cfg.FindSingle {
		return nil
	}

	revcomp := kmer.SequenceReverseComplement(sequence2)

	var cmap2 CandidateMap

	if m.cfg.FindSingle {
		cmap2 = m.candidates(revcomp, nil)
	} else {
		// only patterns hit by the first read can pair
		eligible := make([]bool, len(m.patterns))
		for index := range cmap1 {
			eligible[index] = true
		}
		cmap2 = m.candidates(revcomp, eligible)
	}

	var matches []Match

	if len(cmap1) > 0 && len(cmap2) > 0 {
		matches = m.bestPairs(cmap1, cmap2)
	}

	if len(matches) == 0 && m.cfg.FindSingle {
		// no matching read-pair; look for single-read matches
		matches = m.bestSingles(matches, cmap1, true, len(sequence2))
		matches = m.bestSingles(matches, cmap2, false, len(sequence1))
	}

	sort.SliceStable(matches, func(a, b int) bool {
		// descending matching bases, then ascending insert size,
		// then ascending pattern index
		if mb := matches[a].MatchingBases() - matches[b].MatchingBases(); mb != 0 {
			return mb > 0
		}
		if is := matches[a].InsertSize() - matches[b].InsertSize(); is != 0 {
			return is < 0
		}
		return matches[a].C1.Index < matches[b].C1.Index
	})

	valid := matches[:0]
	for i := range matches {
		if m.validate(sequence1, revcomp, &matches[i]) {
			valid = append(valid, matches[i])
		}
	}

	return valid
}

// bestPairs finds the best read-pair match for each pattern present in both
// candidate maps, or the single best across all patterns when BestOverall is
// set. Patterns are visited in ascending index order so ties resolve to the
// smallest pattern index.
func (m *Matcher) bestPairs(cmap1, cmap2 CandidateMap) []Match {
	var matches []Match
	best := 0

	for _, index := range cmap1.sortedKeys() {
		cv2, ok := cmap2[index]
		if !ok {
			continue
		}
		cv1 := cmap1[index]

		for i := range cv1 {
			for j := range cv2 {
				match := Match{C1: cv1[i], C2: cv2[j]}

				if match.InsertSize() > m.cfg.MaxInsert ||
					match.C1.Offset-match.C2.Offset > m.cfg.MaxTrim {
					continue // insert size too large or second read aligned
					// too far ahead of the first read
				}

				if best == len(matches) {
					matches = append(matches, match)
					continue
				}

				mb, most := match.MatchingBases(), matches[best].MatchingBases()
				if mb > most ||
					mb == most && match.InsertSize() < matches[best].InsertSize() {
					matches[best] = match
				}
			}
		}

		if !m.cfg.BestOverall && best < len(matches) {
			best++ // advance for the next pattern
		}
	}

	return matches
}

// bestSingles appends the best single-read match per pattern (or overwrites
// the single best overall) for one side of the pair; the opposite side
// becomes an unmatched mate of the other read's length.
func (m *Matcher) bestSingles(matches []Match, cmap CandidateMap, firstRead bool, mateLength int) []Match {
	best := 0
	if !m.cfg.BestOverall {
		best = len(matches)
	}

	for _, index := range cmap.sortedKeys() {
		for _, c := range cmap[index] {
			if best < len(matches) && c.MatchingBases <= matches[best].MatchingBases() {
				continue
			}

			mate := Candidate{Location: c.Location, Length: mateLength}

			match := Match{C1: c, C2: mate}
			if !firstRead {
				match = Match{C1: mate, C2: c}
			}

			if best == len(matches) {
				matches = append(matches, match)
			} else {
				matches[best] = match
			}
		}

		if !m.cfg.BestOverall && best < len(matches) {
			best++
		}
	}

	return matches
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
