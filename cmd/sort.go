package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stjude/fuzzion2/internal/hit"
)

// sortCmd re-orders a hit stream so duplicate hits sit next to each other
var sortCmd = &cobra.Command{
	Use:   "sort [hits_filename ...]",
	Short: "Sort fuzzion2 hits from stdin or files and write them to stdout",
	Long: `Sort reads one or more (possibly concatenated) hit files, orders the hits
by pattern name, junction geometry, spanning count and read name, and writes
a single hit file with one heading line and a summed read-pairs trailer.`,
	RunE: runSort,
}

func init() {
	RootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	set, err := readHitInputs(args)
	if err != nil {
		return err
	}

	out := bufio.NewWriterSize(os.Stdout, 1<<20)

	if err := hit.WriteHeading(out, set.Version, set.AnnotationHeadings); err != nil {
		return err
	}
	for _, h := range set.Hits {
		if err := h.Write(out); err != nil {
			return err
		}
	}
	if err := hit.WriteReadPairs(out, set.ReadPairs); err != nil {
		return err
	}

	return out.Flush()
}

// readHitInputs parses one hit set from stdin or from the named files read
// back to back.
func readHitInputs(args []string) (*hit.Set, error) {
	if len(args) == 0 {
		return hit.ReadAll(os.Stdin)
	}

	readers := make([]io.Reader, 0, len(args))
	files := make([]*os.File, 0, len(args))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}

	return hit.ReadAll(io.MultiReader(readers...))
}
