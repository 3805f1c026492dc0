// Package pattern models junction patterns and the minimizer index built
// over a pattern catalog.
package pattern

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// A Pattern is a reference sequence with an embedded junction marker. The
// display sequence carries exactly two delimiter characters: brackets
// ("]...[") mark a gene-fusion boundary, braces ("}...{") an internal tandem
// duplication span.
type Pattern struct {
	Name        string
	Sequence    string // delimiters stripped
	Display     string // delimiters included
	LeftBases   int    // #bases before the first delimiter
	MiddleBases int    // #bases between the delimiters
	RightBases  int    // #bases after the second delimiter
	Delim2      int    // offset of the second delimiter in Display
	HasBraces   bool   // true = ITD, false = fusion
	Annotations []string
}

// Parse validates a display sequence and builds the Pattern record for it.
func Parse(name, display string, annotations []string) (*Pattern, error) {
	if name == "" || strings.ContainsAny(name, " \t") {
		return nil, errors.Errorf("invalid pattern name %q", name)
	}

	hasBraces := false
	delim1 := strings.IndexByte(display, ']')
	delim2 := strings.IndexByte(display, '[')

	if delim1 < 0 && delim2 < 0 {
		hasBraces = true
		delim1 = strings.IndexByte(display, '}')
		delim2 = strings.IndexByte(display, '{')
	}

	if delim1 < 0 || delim2 < 0 ||
		delim1 == 0 || delim2 == len(display)-1 || delim1 > delim2 {
		return nil, errors.Errorf("invalid pattern %s", display)
	}

	// exactly one delimiter pair of one kind
	for i := 0; i < len(display); i++ {
		switch display[i] {
		case ']', '[':
			if hasBraces || (i != delim1 && i != delim2) {
				return nil, errors.Errorf("invalid pattern %s", display)
			}
		case '}', '{':
			if !hasBraces || (i != delim1 && i != delim2) {
				return nil, errors.Errorf("invalid pattern %s", display)
			}
		}
	}

	middleBases := delim2 - delim1 - 1

	return &Pattern{
		Name:        name,
		Sequence:    display[:delim1] + display[delim1+1:delim2] + display[delim2+1:],
		Display:     display,
		LeftBases:   delim1,
		MiddleBases: middleBases,
		RightBases:  len(display) - 1 - delim2,
		Delim2:      delim2,
		HasBraces:   hasBraces,
		Annotations: annotations,
	}, nil
}

// DisplayOffset maps an offset in Sequence to the corresponding offset in
// Display, accounting for the delimiter characters inserted before it.
func (p *Pattern) DisplayOffset(offset int) int {
	if offset >= p.LeftBases+p.MiddleBases {
		return offset + 2
	}
	if offset >= p.LeftBases {
		return offset + 1
	}
	return offset
}

// Catalog holds the patterns read from a pattern file along with the
// annotation column headings.
type Catalog struct {
	Patterns           []*Pattern
	AnnotationHeadings []string
}

// ReadCatalog reads a tab-separated pattern catalog. The first line is a
// header whose first two columns must be "pattern" and "sequence"; any
// further columns are annotation headings. Every subsequent line must have
// the same column count.
func ReadCatalog(filename string) (*Catalog, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening pattern file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	if !scanner.Scan() {
		return nil, errors.Errorf("no header line in %s", filename)
	}

	header := strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t")
	if len(header) < 2 || header[0] != "pattern" || header[1] != "sequence" {
		return nil, errors.Errorf("unexpected header line in %s", filename)
	}

	catalog := &Catalog{AnnotationHeadings: header[2:]}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != len(header) {
			return nil, errors.Errorf("unexpected #columns in %s: %s", filename, line)
		}

		p, err := Parse(cols[0], cols[1], cols[2:])
		if err != nil {
			return nil, errors.Wrapf(err, "%s", filename)
		}

		catalog.Patterns = append(catalog.Patterns, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}

	return catalog, nil
}
