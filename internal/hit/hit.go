// Package hit defines the externalized form of a validated match and the
// textual wire format shared by the matching engine and every downstream
// tool.
package hit

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Line prefixes of the hit file format.
const (
	Prefix          = "fuzzion2 " // heading line
	patternPrefix   = "pattern "
	readPrefix      = "read "
	readPairsPrefix = "read-pairs "
)

// DefaultMinStrong is the default minimum overlap for a strong match.
const DefaultMinStrong = 15

// Fixed heading columns following the version column.
var headingColumns = []string{
	"sequence", "matching bases", "possible", "% match",
	"junction spanning", "left overlap", "right overlap", "insert size",
}

const minHeadingCols = 9

// Pattern describes the pattern matched by a read pair, windowed to the
// match footprint.
type Pattern struct {
	Name          string
	Display       string // display substring, delimiters included
	LeftBases     int    // #bases before the first delimiter in Display
	RightBases    int    // #bases after the second delimiter in Display
	MatchingBases int
	Possible      int
	SpanningCount int
	InsertSize    int
	Annotations   []string
}

// PercentMatch returns the percentage of possible bases that matched.
func (p *Pattern) PercentMatch() float64 {
	return 100.0 * float64(p.MatchingBases) / float64(p.Possible)
}

// Read describes one read of a read pair that matched a pattern.
type Read struct {
	Name          string
	LeadingBlanks int // blanks preceding the sequence in the display
	Sequence      string
	MatchingBases int // zero for an unmatched mate
	Spanning      bool
	LeftOverlap   int
	RightOverlap  int
}

// Possible returns the maximum possible number of matching bases.
func (r *Read) Possible() int {
	return len(r.Sequence)
}

// PercentMatch returns the percentage of the read's bases that matched.
func (r *Read) PercentMatch() float64 {
	return 100.0 * float64(r.MatchingBases) / float64(r.Possible())
}

// Unmatched reports whether this read is an unmatched mate.
func (r *Read) Unmatched() bool {
	return r.MatchingBases == 0
}

// Hit is one pattern line plus its two read lines.
type Hit struct {
	Pattern Pattern
	Read1   Read
	Read2   Read
	Dup     bool // set by MarkDuplicates
}

// SameAs reports whether this hit and the other hit are duplicates.
func (h *Hit) SameAs(other *Hit) bool {
	return h.Pattern.Name == other.Pattern.Name &&
		h.Pattern.LeftBases == other.Pattern.LeftBases &&
		h.Pattern.RightBases == other.Pattern.RightBases
}

// Spanning reports whether either mate spans the junction.
func (h *Hit) Spanning() bool {
	return h.Read1.Spanning || h.Read2.Spanning
}

// Strength classifies the hit: "strong+" when both junction sides carry a
// strong overlap and a mate spans the junction, "strong-" when strong on
// both sides without a spanning mate, "weak" otherwise. A duplicate is
// always "dup".
func (h *Hit) Strength(minStrong int) string {
	if h.Dup {
		return "dup"
	}

	strong := maxInt(h.Read1.LeftOverlap, h.Read2.LeftOverlap) >= minStrong &&
		maxInt(h.Read1.RightOverlap, h.Read2.RightOverlap) >= minStrong

	switch {
	case strong && h.Spanning():
		return "strong+"
	case strong:
		return "strong-"
	default:
		return "weak"
	}
}

// Sort orders hits by ascending pattern name, then ascending left bases,
// then ascending right bases, then descending spanning count, then
// ascending first-read name. Duplicate hits end up adjacent.
func Sort(hits []*Hit) {
	sort.SliceStable(hits, func(a, b int) bool {
		pa, pb := &hits[a].Pattern, &hits[b].Pattern

		if pa.Name != pb.Name {
			return pa.Name < pb.Name
		}
		if pa.LeftBases != pb.LeftBases {
			return pa.LeftBases < pb.LeftBases
		}
		if pa.RightBases != pb.RightBases {
			return pa.RightBases < pb.RightBases
		}
		if pa.SpanningCount != pb.SpanningCount {
			return pa.SpanningCount > pb.SpanningCount
		}
		return hits[a].Read1.Name < hits[b].Read1.Name
	})
}

// MarkDuplicates flags every hit that repeats the (name, left bases, right
// bases) of the preceding hit. The input must be sorted.
func MarkDuplicates(hits []*Hit) {
	for i := 1; i < len(hits); i++ {
		hits[i].Dup = hits[i].SameAs(hits[i-1])
	}
}

// parseDisplay locates the junction delimiters in a display substring and
// returns the left and right base counts relative to the substring.
func parseDisplay(display string) (leftBases, rightBases int, err error) {
	delim1 := strings.IndexByte(display, ']')
	delim2 := strings.IndexByte(display, '[')

	if delim1 < 0 || delim2 < 0 {
		delim1 = strings.IndexByte(display, '}')
		delim2 = strings.IndexByte(display, '{')
	}

	if delim1 < 0 || delim2 < 0 || delim1 > delim2 {
		return 0, 0, errors.Errorf("invalid hit sequence %s", display)
	}

	return delim1, len(display) - 1 - delim2, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
