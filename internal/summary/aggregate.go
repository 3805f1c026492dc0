package summary

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SampleCount is one sample's read-pair count for a pattern.
type SampleCount struct {
	ID        string
	ReadPairs uint64
}

// PatternAggregate merges one pattern's counts across samples.
type PatternAggregate struct {
	Name        string
	Annotations []string
	ReadPairs   uint64
	Samples     []SampleCount
}

// Aggregate merges summaries from multiple samples. Annotation headings
// must agree across all inputs.
func Aggregate(summaries []*Summary) ([]*PatternAggregate, []string, error) {
	if len(summaries) == 0 {
		return nil, nil, errors.New("no summaries")
	}

	headings := summaries[0].AnnotationHeadings
	for _, s := range summaries[1:] {
		if !stringsEqual(headings, s.AnnotationHeadings) {
			return nil, nil, errors.New("inconsistent heading lines")
		}
	}

	byName := make(map[string]*PatternAggregate)
	var patterns []*PatternAggregate

	for _, s := range summaries {
		for _, row := range s.Rows {
			agg := byName[row.Name]
			if agg == nil {
				agg = &PatternAggregate{Name: row.Name, Annotations: row.Annotations}
				byName[row.Name] = agg
				patterns = append(patterns, agg)
			}

			agg.ReadPairs += row.ReadPairs

			found := false
			for i := range agg.Samples {
				if agg.Samples[i].ID == row.ID {
					agg.Samples[i].ReadPairs += row.ReadPairs
					found = true
					break
				}
			}
			if !found {
				agg.Samples = append(agg.Samples, SampleCount{ID: row.ID, ReadPairs: row.ReadPairs})
			}
		}
	}

	for _, agg := range patterns {
		samples := agg.Samples
		sort.Slice(samples, func(a, b int) bool {
			if samples[a].ReadPairs != samples[b].ReadPairs {
				return samples[a].ReadPairs > samples[b].ReadPairs
			}
			return samples[a].ID < samples[b].ID
		})
	}

	sort.Slice(patterns, func(a, b int) bool { return patterns[a].Name < patterns[b].Name })

	return patterns, headings, nil
}

// WriteAggregate emits the cross-sample pattern summary.
func WriteAggregate(w io.Writer, version string, annotationHeadings []string, patterns []*PatternAggregate) error {
	cols := append([]string{"fuzzall " + version, "samples", "read pairs", "sample read pairs"},
		annotationHeadings...)

	if _, err := io.WriteString(w, strings.Join(cols, "\t")+"\n"); err != nil {
		return err
	}

	for _, agg := range patterns {
		samples := make([]string, len(agg.Samples))
		for i, s := range agg.Samples {
			samples[i] = fmt.Sprintf("%s:%d", s.ID, s.ReadPairs)
		}

		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s",
			agg.Name, len(agg.Samples), agg.ReadPairs, strings.Join(samples, ";"))
		if err != nil {
			return err
		}
		for _, a := range agg.Annotations {
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

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
