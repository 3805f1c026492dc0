package hit

import (
	"github.com/stjude/fuzzion2/internal/match"
	"github.com/stjude/fuzzion2/internal/pattern"
)

// FromMatch externalizes a validated match. sequence2 must already be the
// reverse complement of the second mate so both read displays line up with
// the pattern display. The display substring starts at the lower-offset
// mate and covers both aligned footprints plus the delimiter characters.
func FromMatch(pat *pattern.Pattern, mt *match.Match, name1, sequence1, name2, sequence2 string) *Hit {
	plen := len(pat.Sequence)

	minOffset := mt.C1.Offset
	if mt.C2.Offset < minOffset {
		minOffset = mt.C2.Offset
	}

	displayStart := pat.DisplayOffset(minOffset)
	blanks1 := pat.DisplayOffset(mt.C1.Offset) - displayStart
	blanks2 := pat.DisplayOffset(mt.C2.Offset) - displayStart

	foot := func(c *match.Candidate) int {
		f := c.Length
		if m := plen - c.Offset; m < f {
			f = m
		}
		return f
	}

	displayLen := maxInt(blanks1+foot(&mt.C1), blanks2+foot(&mt.C2)) + 2
	if tail := len(pat.Display) - displayStart; displayLen > tail {
		displayLen = tail
	}

	leftBases, rightBases, _ := parseDisplay(pat.Display[displayStart : displayStart+displayLen])

	return &Hit{
		Pattern: Pattern{
			Name:          pat.Name,
			Display:       pat.Display[displayStart : displayStart+displayLen],
			LeftBases:     leftBases,
			RightBases:    rightBases,
			MatchingBases: mt.MatchingBases(),
			Possible:      mt.Possible(),
			SpanningCount: mt.SpanningCount(),
			InsertSize:    mt.InsertSize(),
			Annotations:   pat.Annotations,
		},
		Read1: hitRead(&mt.C1, name1, sequence1, blanks1),
		Read2: hitRead(&mt.C2, name2, sequence2, blanks2),
	}
}

func hitRead(c *match.Candidate, name, sequence string, blanks int) Read {
	return Read{
		Name:          name,
		LeadingBlanks: blanks,
		Sequence:      sequence,
		MatchingBases: c.MatchingBases,
		Spanning:      c.Spanning,
		LeftOverlap:   c.LeftOverlap,
		RightOverlap:  c.RightOverlap,
	}
}
