package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"glyphspace/internal/editor"
	"glyphspace/internal/font"
	"glyphspace/internal/rules"
	"glyphspace/internal/watch"
)

var watchMode bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the rule graph",
	Long: `Checks every stored rule: syntax, circular dependencies, references
to glyphs missing from the font, and self-references. Cycles and syntax
errors are fatal; the rest is advisory.

With --watch, the font file is revalidated each time it changes on disk
until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := validateFile(fontPath)
		if err != nil {
			return err
		}
		fmt.Print(renderReport(report))

		if !watchMode {
			if !report.IsValid {
				os.Exit(1)
			}
			return nil
		}

		w, err := watch.New(fontPath, func(path string) {
			r, err := validateFile(path)
			if err != nil {
				fmt.Println(errStyle.Render("reload failed: " + err.Error()))
				return
			}
			fmt.Print(renderReport(r))
		}, logger)
		if err != nil {
			return err
		}
		if err := w.Start(cmd.Context()); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Println(mutedStyle.Render("watching for changes, ctrl-c to stop"))
		waitForInterrupt(cmd.Context())
		return nil
	},
}

func validateFile(path string) (rules.ValidationReport, error) {
	f, err := font.Load(path)
	if err != nil {
		return rules.ValidationReport{}, err
	}
	ctx := editor.NewContext(f)
	report := ctx.Rules.Validate()
	logger.Debug("validated font",
		zap.String("path", path),
		zap.Int("glyphs", f.NumGlyphs()),
		zap.Int("ruled", ctx.Rules.Len()),
		zap.Bool("valid", report.IsValid))
	return report, nil
}

func waitForInterrupt(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	select {
	case <-ctx.Done():
	case <-sig:
	}
}

func init() {
	validateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "revalidate whenever the font file changes")
}
