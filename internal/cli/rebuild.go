package cli

import (
	"fmt"

	"github.com/hjaltalin/caselink/internal/model"
	"github.com/hjaltalin/caselink/internal/reconcile"
	"github.com/hjaltalin/caselink/internal/store"
	"github.com/spf13/cobra"
)

var (
	rebuildCSV  string
	rebuildJSON string
)

// rebuildCmd represents the rebuild command
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the appeals-number lookup from the saved dataset",
	Long: `Rebuild regenerates the JSON lookup from the CSV dataset without
crawling. The lookup is always derived from the dataset, so this is safe
to run at any time.

Example:
  caselink rebuild
  caselink rebuild --csv data/cases.csv --json data/appeals_mapping.json`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)

	defaults := model.DefaultConfig()
	rebuildCmd.Flags().StringVar(&rebuildCSV, "csv", defaults.Output.CSVPath, "persisted dataset CSV path")
	rebuildCmd.Flags().StringVar(&rebuildJSON, "json", defaults.Output.JSONPath, "appeals-number lookup JSON path")
}

func runRebuild(cmd *cobra.Command, args []string) error {
	records, err := store.NewCSVStore(rebuildCSV).Load()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	mapping := reconcile.Group(records)
	if err := store.WriteMapping(rebuildJSON, mapping); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}

	fmt.Printf("Wrote %s with %d entries in %d groups\n", rebuildJSON, reconcile.MappingSize(mapping), len(mapping))

	return nil
}
