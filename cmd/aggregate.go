package cmd

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stjude/fuzzion2/internal/summary"
)

// aggregateCmd merges per-sample summaries into one pattern table
var aggregateCmd = &cobra.Command{
	Use:   "aggregate summary_filename ...",
	Short: "Merge summarize outputs from multiple samples per pattern",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAggregate,
}

func init() {
	RootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	summaries := make([]*summary.Summary, 0, len(args))

	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return err
		}

		s, err := summary.Read(f)
		f.Close()
		if err != nil {
			return errors.Wrapf(err, "%s", arg)
		}

		summaries = append(summaries, s)
	}

	patterns, headings, err := summary.Aggregate(summaries)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	if err := summary.WriteAggregate(out, Version, headings, patterns); err != nil {
		return err
	}
	return out.Flush()
}
