package hit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// percentNA is written in the percent column of an unmatched mate.
const percentNA = "N/A"

func formatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

// WriteHeading writes the heading line naming the program version and the
// annotation headings carried over from the pattern catalog.
func WriteHeading(w io.Writer, version string, annotationHeadings []string) error {
	cols := make([]string, 0, minHeadingCols+len(annotationHeadings))
	cols = append(cols, Prefix+version)
	cols = append(cols, headingColumns...)
	cols = append(cols, annotationHeadings...)

	_, err := io.WriteString(w, strings.Join(cols, "\t")+"\n")
	return err
}

// WriteReadPairs writes the trailer line showing the total number of read
// pairs processed.
func WriteReadPairs(w io.Writer, numReadPairs uint64) error {
	_, err := fmt.Fprintf(w, "%s%d\n", readPairsPrefix, numReadPairs)
	return err
}

// Write emits the hit as one pattern line followed by its two read lines.
func (h *Hit) Write(w io.Writer) error {
	if err := h.Pattern.write(w); err != nil {
		return err
	}
	if err := h.Read1.write(w); err != nil {
		return err
	}
	return h.Read2.write(w)
}

// write emits the pattern line. The left overlap and right overlap columns
// are blank on a pattern line; they are carried by the read lines.
func (p *Pattern) write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s%s\t%s\t%d\t%d\t%s\t%d\t\t\t%d",
		patternPrefix, p.Name, p.Display, p.MatchingBases, p.Possible,
		formatPercent(p.PercentMatch()), p.SpanningCount, p.InsertSize)
	if err != nil {
		return err
	}

	for _, a := range p.Annotations {
		if _, err := io.WriteString(w, "\t"+a); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, "\n")
	return err
}

// write emits one read line; the read sequence is preceded by blanks so its
// bases line up with the pattern display.
func (r *Read) write(w io.Writer) error {
	percent := percentNA
	if !r.Unmatched() {
		percent = formatPercent(r.PercentMatch())
	}

	spanning := 0
	if r.Spanning {
		spanning = 1
	}

	_, err := fmt.Fprintf(w, "%s%s\t%s%s\t%d\t%d\t%s\t%d\t%d\t%d\n",
		readPrefix, r.Name, strings.Repeat(" ", r.LeadingBlanks), r.Sequence,
		r.MatchingBases, r.Possible(), percent, spanning,
		r.LeftOverlap, r.RightOverlap)
	return err
}
