package hit

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Set holds the hits read from one or more concatenated hit files, sorted
// and with duplicates marked.
type Set struct {
	Version            string
	AnnotationHeadings []string
	Hits               []*Hit
	ReadPairs          uint64 // summed across concatenation segments
}

// ReadAll consumes a hit stream: one heading line, any number of hit
// triplets and read-pairs trailer lines. Repeated identical heading lines
// (from concatenated files) are accepted and ignored; differing heading
// lines are an error; multiple read-pairs lines sum. The returned hits are
// sorted and duplicate-marked.
func ReadAll(r io.Reader) (*Set, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	if !scanner.Scan() {
		return nil, errors.New("no input")
	}

	headingLine := scanner.Text()

	set := &Set{}
	if err := parseHeading(headingLine, set); err != nil {
		return nil, err
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, Prefix): // found another heading line
			if line != headingLine {
				return nil, errors.New("inconsistent heading lines")
			}

		case strings.HasPrefix(line, readPairsPrefix):
			n, err := strconv.ParseUint(strings.TrimPrefix(line, readPairsPrefix), 10, 64)
			if err != nil {
				return nil, errors.Errorf("unexpected input line: %s", line)
			}
			set.ReadPairs += n

		default:
			h, err := parseHit(scanner, line)
			if err != nil {
				return nil, err
			}
			set.Hits = append(set.Hits, h)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading hits")
	}

	Sort(set.Hits)
	MarkDuplicates(set.Hits)

	return set, nil
}

func parseHeading(line string, set *Set) error {
	cols := strings.Split(line, "\t")

	if !strings.HasPrefix(line, Prefix) || len(cols) < minHeadingCols {
		return errors.New("unexpected heading line")
	}

	for i, want := range headingColumns {
		if cols[i+1] != want {
			return errors.New("unexpected heading line")
		}
	}

	version := strings.TrimPrefix(cols[0], Prefix)
	if version == "" || strings.ContainsRune(version, ' ') {
		return errors.New("unexpected heading line")
	}

	set.Version = version
	set.AnnotationHeadings = cols[minHeadingCols:]

	return nil
}

// parseHit assembles a hit from the given pattern line and the next two
// lines of the stream.
func parseHit(scanner *bufio.Scanner, line string) (*Hit, error) {
	h := &Hit{}

	if err := parsePatternLine(line, &h.Pattern); err != nil {
		return nil, err
	}

	for _, read := range []*Read{&h.Read1, &h.Read2} {
		if !scanner.Scan() {
			return nil, errors.Errorf("unexpected hit format: %s", line)
		}
		if err := parseReadLine(scanner.Text(), read); err != nil {
			return nil, err
		}
	}

	return h, nil
}

func parsePatternLine(line string, p *Pattern) error {
	if !strings.HasPrefix(line, patternPrefix) {
		return errors.Errorf("unexpected input line: %s", line)
	}

	cols := strings.Split(line, "\t")
	if len(cols) < minHeadingCols {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	name := strings.TrimPrefix(cols[0], patternPrefix)
	if name == "" {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	var err error
	if p.MatchingBases, err = nonnegInt(cols[2]); err != nil || p.MatchingBases == 0 {
		return errors.Errorf("unexpected hit format: %s", line)
	}
	if p.Possible, err = nonnegInt(cols[3]); err != nil || p.Possible == 0 {
		return errors.Errorf("unexpected hit format: %s", line)
	}
	if p.SpanningCount, err = nonnegInt(cols[5]); err != nil || p.SpanningCount > 2 {
		return errors.Errorf("unexpected hit format: %s", line)
	}
	if p.InsertSize, err = nonnegInt(cols[8]); err != nil || p.InsertSize == 0 {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	p.Name = name
	p.Display = cols[1]
	p.Annotations = cols[minHeadingCols:]

	if p.LeftBases, p.RightBases, err = parseDisplay(p.Display); err != nil {
		return err
	}

	return nil
}

func parseReadLine(line string, r *Read) error {
	if !strings.HasPrefix(line, readPrefix) {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	cols := strings.Split(line, "\t")
	if len(cols) != 8 {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	name := strings.TrimPrefix(cols[0], readPrefix)
	if name == "" {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	display := cols[1]
	blanks := strings.IndexFunc(display, func(ch rune) bool { return ch != ' ' })
	if blanks < 0 {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	possible, err := nonnegInt(cols[3])
	if err != nil || len(display) != blanks+possible {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	if r.MatchingBases, err = nonnegInt(cols[2]); err != nil {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	spanning, err := nonnegInt(cols[5])
	if err != nil || spanning > 1 {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	if r.LeftOverlap, err = nonnegInt(cols[6]); err != nil {
		return errors.Errorf("unexpected hit format: %s", line)
	}
	if r.RightOverlap, err = nonnegInt(cols[7]); err != nil {
		return errors.Errorf("unexpected hit format: %s", line)
	}

	r.Name = name
	r.LeadingBlanks = blanks
	r.Sequence = display[blanks:]
	r.Spanning = spanning == 1

	return nil
}

func nonnegInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return -1, errors.Errorf("not a nonnegative integer: %s", s)
	}
	return v, nil
}
