package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Rewrite a document in canonical form",
	Long:  "Decode a document and encode it again: one tab per level, no spaces, comments and blank lines dropped, imports expanded.",
	Args:  cobra.ExactArgs(1),
	RunE:  formatDocument,
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "Write the result back to the file instead of stdout")

	rootCmd.AddCommand(fmtCmd)
}

func formatDocument(cmd *cobra.Command, args []string) error {
	path := args[0]
	write, _ := cmd.Flags().GetBool("write")

	text, err := canonicalText(path)
	if err != nil {
		return err
	}

	if !write || path == "-" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := writeFile(path, []byte(text)); err != nil {
		return err
	}
	logf("fmt", "rewrote %s", path)
	return nil
}

// canonicalText decodes the document at path and renders it with the
// configured Encoder.
func canonicalText(path string) (string, error) {
	value, err := readDocument(path)
	if err != nil {
		return "", err
	}
	return newEncoder().Encode(value)
}
