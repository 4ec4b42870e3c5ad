package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rohankatakam/csmell/internal/analyzer"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the detection rules",
	Long:  `Lists every enabled rule with its category and configured threshold.`,
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	a, err := analyzer.New(cfg.AnalyzerConfig())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tDESCRIPTION")
	for _, r := range a.Rules().All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID(), r.Category(), r.Description())
	}
	return tw.Flush()
}
