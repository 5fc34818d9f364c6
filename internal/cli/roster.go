package cli

import (
	"github.com/spf13/cobra"

	"github.com/kitforge/kitforge/pkg/export"
)

// newRosterCmd creates the roster command family.
func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Work with roster files",
	}
	cmd.AddCommand(newRosterCheckCmd())
	return cmd
}

func newRosterCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a roster CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := loadRosterFile(args[0])
			if err != nil {
				return err
			}
			if err := team.Validate(); err != nil {
				printError("roster invalid: %s", err)
				return err
			}
			printSuccess("roster valid (%d players)", len(team))
			for i, p := range team {
				printDetail("%2d  %s", i, p.Label())
			}
			if len(team) > export.BulkLimit {
				printWarning("bulk export processes the first %d of %d entries", export.BulkLimit, len(team))
			}
			return nil
		},
	}
}
