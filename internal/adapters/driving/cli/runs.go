package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past ingest runs",
	Long:  `List the runs recorded in the local ledger or show the outcome of one run.`,
	RunE:  runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show one run with its source file messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.PersistentFlags().IntVarP(&runsLimit, "limit", "n", 0, "maximum runs to list (default 20)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if ledgerService == nil {
		return errors.New("ledger service not configured")
	}

	runs, err := ledgerService.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	renderRuns(cmd.OutOrStdout(), runs)
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if ledgerService == nil {
		return errors.New("ledger service not configured")
	}

	detail, err := ledgerService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	renderRunDetail(cmd.OutOrStdout(), detail)
	return nil
}
