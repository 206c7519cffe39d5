package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iasebsil83/Dreamlands/dreamlands"
	"github.com/spf13/cobra"
)

var fromJSONCmd = &cobra.Command{
	Use:   "from-json <file>",
	Short: "Convert a JSON document",
	Long:  "Convert a JSON object or array to DREAMLANDS, keeping object key order. JSON null and empty strings have no representation and are rejected. Use - to read standard input.",
	Args:  cobra.ExactArgs(1),
	RunE:  convertFromJSON,
}

func init() {
	fromJSONCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	rootCmd.AddCommand(fromJSONCmd)
}

func convertFromJSON(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = readFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading JSON: %w", err)
	}

	text, err := jsonToText(data)
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := writeFile(output, []byte(text)); err != nil {
		return err
	}
	logf("convert", "wrote %s", output)
	return nil
}

func jsonToText(data []byte) (string, error) {
	value, err := dreamlands.FromJSON(data)
	if err != nil {
		return "", fmt.Errorf("decoding JSON: %w", err)
	}
	return newEncoder().Encode(value)
}
