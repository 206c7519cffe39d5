package main

import (
	"fmt"

	"github.com/iasebsil83/Dreamlands/dreamlands"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Check a document for likely mistakes",
	Long:  "Decode a document and run the validation rules on it. Exits with an error when a rule reports an error-severity diagnostic.",
	Args:  cobra.ExactArgs(1),
	RunE:  lintDocument,
}

func init() {
	lintCmd.Flags().BoolP("quiet", "q", false, "Only report errors")

	rootCmd.AddCommand(lintCmd)
}

func lintDocument(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	value, err := readDocument(args[0])
	if err != nil {
		return err
	}

	diags, err := dreamlands.ValidateOrError(value)
	for _, d := range diags {
		if quiet && d.Severity != dreamlands.Error {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}
	if err != nil {
		return fmt.Errorf("%s: %d diagnostic(s), see above", args[0], len(diags))
	}
	logf("lint", "%s: %d diagnostic(s)", args[0], len(diags))
	return nil
}
