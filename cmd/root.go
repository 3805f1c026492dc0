// Package cmd is for command line interactions with the fuzzion2 toolkit
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version identifies this generation of the toolkit; it heads the hit files
// written by match and the summarize, aggregate and hop outputs. Sort keeps
// the version of the hit files it reads.
const Version = "v1.2.0"

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "fuzzion2",
	Short: `Find read pairs that span gene-fusion or internal-tandem-duplication
junctions described by a pattern catalog`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", RootCmd.Name(), err)
		os.Exit(1)
	}
}

func init() {
	log.SetOutput(os.Stderr)
}
