package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stjude/fuzzion2/config"
	"github.com/stjude/fuzzion2/internal/rank"
)

var (
	refPath    string
	rankOut    string
	rankIn     string
	textOut    string
	lookupRank int64
)

// rankCmd builds or inspects the k-mer rank table
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Build a k-mer rank table from a FASTA reference, or look up a rank",
	Long: `Rank counts every k-mer occurrence on both strands of the reference
sequences, ranks the k-mers by ascending count (ties by ascending numeric
k-mer) and writes the binary rank table consumed by match.

With --lookup, an existing table is inverted instead: the k-mer holding the
given rank is printed along with its reverse complement.`,
	RunE: runRank,
}

func init() {
	RootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&refPath, "ref", "", "name of FASTA reference input file")
	rankCmd.Flags().StringVar(&rankOut, "out", "", "name of binary rank table output file")
	rankCmd.Flags().StringVar(&rankIn, "rank", "", "name of an existing binary rank table")
	rankCmd.Flags().StringVar(&textOut, "text", "", "also write the table as k-mer/rank text lines")
	rankCmd.Flags().Int64Var(&lookupRank, "lookup", -1, "print the k-mer having this rank")

	rankCmd.Flags().Int("k", 15, "length of each k-mer")

	viper.BindPFlag("rank.k", rankCmd.Flags().Lookup("k"))
}

func runRank(cmd *cobra.Command, args []string) error {
	if lookupRank >= 0 {
		return runLookup()
	}

	if refPath == "" || rankOut == "" {
		return errors.New("--ref and --out are required to build a rank table")
	}

	conf, err := config.New()
	if err != nil {
		return err
	}
	if err := conf.Rank.Validate(); err != nil {
		return err
	}

	table := rank.Build(conf.Rank.K, func(yield func(seq string)) {
		err = readReference(refPath, yield)
	})
	if err != nil {
		return err
	}

	log.Infof("ranked %d %d-mers", len(table.Rank), table.K)

	if err := table.Write(rankOut); err != nil {
		return err
	}

	if textOut != "" {
		f, err := os.Create(textOut)
		if err != nil {
			return err
		}
		if err := table.WriteText(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	return nil
}

// readReference yields every sequence of a (possibly gzipped) FASTA file.
func readReference(filename string, yield func(seq string)) error {
	reader, err := fastx.NewReader(nil, filename, "")
	if err != nil {
		return errors.Wrapf(err, "opening %s", filename)
	}
	defer reader.Close()

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s", filename)
		}
		yield(string(record.Seq.Seq))
	}
}

func runLookup() error {
	if rankIn == "" {
		return errors.New("--rank is required with --lookup")
	}

	table, err := rank.Read(rankIn)
	if err != nil {
		return err
	}

	if lookupRank >= int64(len(table.Rank)) {
		return errors.Errorf("invalid rank %d", lookupRank)
	}

	forward, revcomp, err := rank.NewInverter(table).Kmers(uint32(lookupRank))
	if err != nil {
		return err
	}

	fmt.Printf("%s\t%s\n", forward, revcomp)
	return nil
}
