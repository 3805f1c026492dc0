// Package summary reduces hit files to per-pattern counts and merges those
// summaries across samples.
package summary

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stjude/fuzzion2/internal/hit"
)

const prefix = "fuzzum "

// Fixed heading columns of a summary file following the version column.
var headingColumns = []string{
	"read pairs", "strong+", "strong-", "weak", "dup", "pattern",
}

const minHeadingCols = 7

// PatternSummary counts one sample's hits of one pattern by strength class.
type PatternSummary struct {
	ID          string
	Name        string
	Annotations []string
	ReadPairs   uint64
	StrongPlus  uint64
	StrongMinus uint64
	Weak        uint64
	Dup         uint64
}

// Summarize reduces a sorted hit set to one row per pattern, classifying
// every hit by its strength label.
func Summarize(set *hit.Set, id string, minStrong int) []*PatternSummary {
	var rows []*PatternSummary
	byName := make(map[string]*PatternSummary)

	for _, h := range set.Hits {
		row := byName[h.Pattern.Name]
		if row == nil {
			row = &PatternSummary{
				ID:          id,
				Name:        h.Pattern.Name,
				Annotations: h.Pattern.Annotations,
			}
			byName[h.Pattern.Name] = row
			rows = append(rows, row)
		}

		row.ReadPairs++

		switch h.Strength(minStrong) {
		case "strong+":
			row.StrongPlus++
		case "strong-":
			row.StrongMinus++
		case "dup":
			row.Dup++
		default:
			row.Weak++
		}
	}

	sort.Slice(rows, func(a, b int) bool { return rows[a].Name < rows[b].Name })

	return rows
}

// Write emits a summary file: a heading line followed by one row per
// pattern.
func Write(w io.Writer, version string, annotationHeadings []string, rows []*PatternSummary) error {
	cols := make([]string, 0, minHeadingCols+len(annotationHeadings))
	cols = append(cols, prefix+version)
	cols = append(cols, headingColumns...)
	cols = append(cols, annotationHeadings...)

	if _, err := io.WriteString(w, strings.Join(cols, "\t")+"\n"); err != nil {
		return err
	}

	for _, row := range rows {
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%s",
			row.ID, row.ReadPairs, row.StrongPlus, row.StrongMinus,
			row.Weak, row.Dup, row.Name)
		if err != nil {
			return err
		}
		for _, a := range row.Annotations {
			if _, err := io.WriteString(w, "\t"+a); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

// Summary holds one parsed summary file.
type Summary struct {
	Version            string
	AnnotationHeadings []string
	Rows               []*PatternSummary
}

// Read parses a summary file written by Write.
func Read(r io.Reader) (*Summary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

	if !scanner.Scan() {
		return nil, errors.New("no input")
	}

	heading := strings.Split(scanner.Text(), "\t")
	if len(heading) < minHeadingCols || !strings.HasPrefix(heading[0], prefix) {
		return nil, errors.New("unexpected heading line")
	}
	for i, want := range headingColumns {
		if heading[i+1] != want {
			return nil, errors.New("unexpected heading line")
		}
	}

	s := &Summary{
		Version:            strings.TrimPrefix(heading[0], prefix),
		AnnotationHeadings: heading[minHeadingCols:],
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != len(heading) || cols[0] == "" || cols[6] == "" {
			return nil, errors.Errorf("invalid summary line: %s", line)
		}

		row := &PatternSummary{
			ID:          cols[0],
			Name:        cols[6],
			Annotations: cols[minHeadingCols:],
		}

		for i, dst := range []*uint64{
			&row.ReadPairs, &row.StrongPlus, &row.StrongMinus, &row.Weak, &row.Dup,
		} {
			v, err := strconv.ParseUint(cols[i+1], 10, 64)
			if err != nil {
				return nil, errors.Errorf("invalid summary line: %s", line)
			}
			*dst = v
		}

		s.Rows = append(s.Rows, row)
	}

	return s, scanner.Err()
}
