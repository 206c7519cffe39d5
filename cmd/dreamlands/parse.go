package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print a document as JSON",
	Long:  "Parse a DREAMLANDS document, expanding its imports, and print it as indented JSON with key order preserved. Use - to read standard input.",
	Args:  cobra.ExactArgs(1),
	RunE:  parseDocument,
}

func init() {
	parseCmd.Flags().String("indent", "  ", "JSON indentation")

	rootCmd.AddCommand(parseCmd)
}

func parseDocument(cmd *cobra.Command, args []string) error {
	indent, _ := cmd.Flags().GetString("indent")

	value, err := readDocument(args[0])
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(value, "", indent)
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// readDocument decodes the file at path, or standard input when path is "-".
func readDocument(path string) (any, error) {
	dec := newDecoder()
	if path == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		logf("read", "standard input (%d bytes)", len(src))
		return dec.Decode(string(src))
	}

	logf("read", "%s", path)
	return dec.DecodeFile(path)
}
