package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/iasebsil83/Dreamlands/dreamlands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "dreamlands",
	Short: "DREAMLANDS document converter",
	Long:  "Dreamlands reads, formats and converts DREAMLANDS documents, an indentation-based typed text format.",

	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug output")
	rootCmd.PersistentFlags().Bool("imports", true, "Expand import directives")
	rootCmd.PersistentFlags().Bool("char-optimization", false, "Write one-character strings as char literals")
	rootCmd.PersistentFlags().Bool("shebang", false, "Start written documents with the shebang line")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("allow_imports", rootCmd.PersistentFlags().Lookup("imports"))
	_ = viper.BindPFlag("char_optimization", rootCmd.PersistentFlags().Lookup("char-optimization"))
	_ = viper.BindPFlag("shebang", rootCmd.PersistentFlags().Lookup("shebang"))
}

func initConfig() {
	viper.SetEnvPrefix("DREAMLANDS")
	viper.AutomaticEnv()
}

// newDecoder returns a Decoder configured from flags and environment.
func newDecoder() *dreamlands.Decoder {
	dec := dreamlands.NewDecoder()
	dec.AllowImports = viper.GetBool("allow_imports")
	dec.ReadFile = readFile
	if viper.GetBool("debug") {
		dec.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return dec
}

// newEncoder returns an Encoder configured from flags and environment.
func newEncoder() *dreamlands.Encoder {
	return &dreamlands.Encoder{
		CharOptimization: viper.GetBool("char_optimization"),
		Shebang:          viper.GetBool("shebang"),
	}
}

// logf prints a tagged progress line on stderr when verbose output is on.
func logf(tag, format string, args ...any) {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", tag, fmt.Sprintf(format, args...))
	}
}
