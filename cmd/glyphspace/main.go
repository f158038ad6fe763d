// glyphspace is a command line tool for editing linked spacing in font
// files: set metrics rules on glyphs, validate the dependency graph,
// inspect cascades and apply margin edits that ripple through the rules.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"glyphspace/internal/editor"
	"glyphspace/internal/font"
)

var (
	// Global flags
	verbose  bool
	fontPath string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "glyphspace",
	Short: "glyphspace - linked side-bearings for font files",
	Long: `glyphspace manages metrics rules in a font file.

A rule links one side-bearing to another glyph's, so editing the base
glyph updates every glyph spaced against it. Rules are written in a
compact syntax: "=H" copies H's same side, "=H+10" adds an offset,
"=|" mirrors the glyph's own opposite side, "=n|" reads n's opposite
side. Rules are stored inside the font file and survive round-trips.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadContext opens the font named by --font and wires a rules manager to it.
func loadContext() (*editor.Context, error) {
	if fontPath == "" {
		return nil, fmt.Errorf("no font file given (use --font)")
	}
	f, err := font.Load(fontPath)
	if err != nil {
		return nil, err
	}
	return editor.NewContext(f), nil
}

// saveContext writes the font, rules included, back to --font.
func saveContext(ctx *editor.Context) error {
	ctx.Font.StoreRulesSnapshot(ctx.Rules.Snapshot())
	return ctx.Font.Save(fontPath)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&fontPath, "font", "f", "", "path to the font file")

	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(cascadeCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(marginCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
