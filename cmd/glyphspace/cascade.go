package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glyphspace/internal/rules"
)

var cascadeCmd = &cobra.Command{
	Use:   "cascade [glyph]",
	Short: "Show which glyphs a margin edit would update, in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadContext()
		if err != nil {
			return err
		}
		glyph := args[0]
		if !ctx.Font.HasGlyph(glyph) {
			return fmt.Errorf("no glyph %q", glyph)
		}

		plan := ctx.Rules.Plan(glyph)
		if len(plan) == 0 {
			fmt.Println(mutedStyle.Render("no dependents"))
			return nil
		}
		for i, name := range plan {
			fmt.Printf("%2d. %s\n", i+1, glyphStyle.Render(name))
		}
		return nil
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval [glyph] [side]",
	Short: "Evaluate a glyph's rule against current metrics",
	Long: `Evaluates the rule stored on one side of a glyph and prints the value
it would produce, without changing the font.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadContext()
		if err != nil {
			return err
		}
		glyph := args[0]
		side := rules.Side(args[1])
		if !side.Valid() {
			return fmt.Errorf("invalid side %q (want left or right)", args[1])
		}

		rule, ok := ctx.Rules.Rule(glyph, side)
		if !ok {
			return fmt.Errorf("no %s rule on %q", side, glyph)
		}
		value, ok := ctx.Rules.EvaluateHost(glyph, side)
		if !ok {
			fmt.Println(warnStyle.Render(fmt.Sprintf("%s.%s %s produces no value", glyph, side, rule)))
			return nil
		}
		fmt.Printf("%s.%s  %s  =>  %g\n", glyphStyle.Render(glyph), side, rule, value)
		return nil
	},
}
