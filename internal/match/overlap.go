package match

import (
	"github.com/stjude/fuzzion2/internal/align"
	"github.com/stjude/fuzzion2/internal/pattern"
)

// measureOverlaps fills in the candidate's junction-side measurements: the
// overlap of the read's aligned footprint with the pattern's left and right
// sides, the LCS score of each overlapping portion, and the derived
// junction-spanning flag. A side on which the read is fully contained
// inherits the candidate's whole-read score. Unmatched mates measure zero
// everywhere.
func (m *Matcher) measureOverlaps(seq string, pat *pattern.Pattern, c *Candidate) {
	if c.MatchingBases == 0 {
		return // unmatched mate
	}

	plen := len(pat.Sequence)

	maxPatternLen := plen - c.Offset
	foot := c.Length
	if maxPatternLen < foot {
		foot = maxPatternLen
	}

	left := pat.LeftBases - c.Offset
	if left > foot {
		left = foot
	}
	if left < 0 {
		left = 0
	}
	c.LeftOverlap = left

	if left > 0 {
		if left == foot {
			// fully contained on the left; agreement was verified by the
			// whole-read score
			c.LeftMatching = c.MatchingBases
		} else {
			c.LeftMatching = align.LCS(seq, 0, left, pat.Sequence, c.Offset, left)
		}
	}

	right := foot
	if over := pat.RightBases - maxPatternLen; over < 0 {
		right += over
	}
	if right < 0 {
		right = 0
	}
	c.RightOverlap = right

	if right > 0 {
		if right == foot {
			c.RightMatching = c.MatchingBases
		} else {
			c.RightMatching = align.LCS(seq, len(seq)-right, right,
				pat.Sequence, c.Offset+foot-right, right)
		}
	}

	c.Spanning = left >= m.cfg.MinOverlap && right >= m.cfg.MinOverlap &&
		c.LeftMatching >= m.minMatches(left) &&
		c.RightMatching >= m.minMatches(right)
}

// validate measures both mates of the match against the pattern's junction
// sides and applies the overlap requirements: each side must be covered by
// at least one mate with sufficient combined base agreement, and an ITD
// pattern additionally requires a junction-spanning mate.
func (m *Matcher) validate(sequence1, revcomp2 string, mt *Match) bool {
	pat := m.patterns[mt.C1.Index]

	m.measureOverlaps(sequence1, pat, &mt.C1)
	m.measureOverlaps(revcomp2, pat, &mt.C2)

	if maxInt(mt.C1.LeftOverlap, mt.C2.LeftOverlap) < m.cfg.MinOverlap ||
		maxInt(mt.C1.RightOverlap, mt.C2.RightOverlap) < m.cfg.MinOverlap {
		return false // a junction side is not sufficiently overlapped
	}

	if mt.C1.LeftMatching+mt.C2.LeftMatching <
		m.minMatches(mt.C1.LeftOverlap+mt.C2.LeftOverlap) ||
		mt.C1.RightMatching+mt.C2.RightMatching <
			m.minMatches(mt.C1.RightOverlap+mt.C2.RightOverlap) {
		return false // not enough matching bases on a junction side
	}

	if pat.HasBraces && !mt.C1.Spanning && !mt.C2.Spanning {
		return false // a duplication match needs a spanning read
	}

	return true
}
