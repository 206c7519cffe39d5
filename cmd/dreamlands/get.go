package main

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/iasebsil83/Dreamlands/dreamlands"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <key.path>",
	Short: "Print one value of a configuration document",
	Long: `Load a document as configuration and print the value at a dotted key path.
Keys are case-insensitive. Containers are printed as DREAMLANDS text, scalars as plain text.`,
	Args: cobra.ExactArgs(2),
	RunE: getValue,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func getValue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	value, err := lookupKey(cfg, args[1])
	if err != nil {
		return err
	}
	return printValue(cmd.OutOrStdout(), value)
}

// loadConfig reads the document at path into a fresh viper instance through
// the dreamlands codec.
func loadConfig(path string) (*viper.Viper, error) {
	dec := newDecoder()
	dec.Filename = path

	reg := viper.NewCodecRegistry()
	if err := reg.RegisterCodec("dl", dreamlands.Codec{Decoder: dec, Encoder: newEncoder()}); err != nil {
		return nil, fmt.Errorf("registering codec: %w", err)
	}

	src, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := viper.NewWithOptions(viper.WithCodecRegistry(reg))
	cfg.SetConfigType("dl")
	if err := cfg.ReadConfig(bytes.NewReader(src)); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	logf("get", "loaded %s (%d keys)", path, len(cfg.AllKeys()))
	return cfg, nil
}

func lookupKey(cfg *viper.Viper, key string) (any, error) {
	if cfg.IsSet(key) {
		return cfg.Get(key), nil
	}
	if match := closestKey(key, cfg.AllKeys()); match != "" {
		return nil, fmt.Errorf("key %q not found, did you mean %q?", key, match)
	}
	return nil, fmt.Errorf("key %q not found", key)
}

// closestKey suggests the known key path nearest to target. Keys containing
// target as a fuzzy subsequence win; otherwise the smallest edit distance is
// used, within half the length of target.
func closestKey(target string, keys []string) string {
	candidates := keyPaths(keys)
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	target = strings.ToLower(target)
	best, bestDist := "", len(target)/2+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// keyPaths returns the sorted leaf keys together with every intermediate
// map path.
func keyPaths(keys []string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, key := range keys {
		parts := strings.Split(key, ".")
		for i := range parts {
			p := strings.Join(parts[:i+1], ".")
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	slices.Sort(paths)
	return paths
}

func printValue(w io.Writer, value any) error {
	switch value.(type) {
	case map[string]any, []any:
		enc := newEncoder()
		enc.Shebang = false
		text, err := enc.Encode(value)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	default:
		_, err := fmt.Fprintln(w, value)
		return err
	}
}
