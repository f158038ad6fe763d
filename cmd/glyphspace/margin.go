package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"glyphspace/internal/editor"
	"glyphspace/internal/rules"
)

var (
	noPropagate bool
	noCascade   bool
)

var marginCmd = &cobra.Command{
	Use:   "margin",
	Short: "Edit side-bearings",
}

var marginSetCmd = &cobra.Command{
	Use:   "set [glyph] [side] [value]",
	Short: "Set a side-bearing to an absolute value",
	Long: `Sets a side-bearing and ripples the change outward: composites built
from the glyph shift by the same delta, and every glyph whose rule
depends on it is re-evaluated in dependency order. For empty glyphs the
value sets the advance width instead.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarginEdit(args, func(glyph string, side rules.Side, value float64) editor.Command {
			c := editor.NewSetMarginCommand(glyph, side, value)
			c.Propagate = !noPropagate
			c.ApplyRules = !noCascade
			return c
		})
	},
}

var marginAdjustCmd = &cobra.Command{
	Use:   "adjust [glyph] [side] [delta]",
	Short: "Shift a side-bearing by a delta",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarginEdit(args, func(glyph string, side rules.Side, value float64) editor.Command {
			c := editor.NewAdjustMarginCommand(glyph, side, value)
			c.Propagate = !noPropagate
			c.ApplyRules = !noCascade
			return c
		})
	},
}

func runMarginEdit(args []string, build func(string, rules.Side, float64) editor.Command) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}
	side := rules.Side(args[1])
	if !side.Valid() {
		return fmt.Errorf("invalid side %q (want left or right)", args[1])
	}
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q", args[2])
	}

	ed := editor.New(logger)
	res := ed.Execute(build(args[0], side, value), ctx)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	if err := saveContext(ctx); err != nil {
		return err
	}

	fmt.Println(okStyle.Render(res.Message))
	renderWarnings(res.Warnings)
	if len(res.Affected) > 1 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("updated %d glyphs", len(res.Affected))))
	}
	return nil
}

func init() {
	marginCmd.PersistentFlags().BoolVar(&noPropagate, "no-propagate", false, "do not shift composites")
	marginCmd.PersistentFlags().BoolVar(&noCascade, "no-cascade", false, "do not re-evaluate dependent rules")
	marginCmd.AddCommand(marginSetCmd)
	marginCmd.AddCommand(marginAdjustCmd)
}
