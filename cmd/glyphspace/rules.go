package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"glyphspace/internal/editor"
	"glyphspace/internal/rules"
)

var ruleSide string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage metrics rules",
}

var rulesSetCmd = &cobra.Command{
	Use:   "set [glyph] [rule]",
	Short: "Set a rule on a glyph side",
	Long: `Sets a metrics rule on one side of a glyph, or on both sides with
--side both. The rule is validated before anything changes; a bad rule
leaves the font untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadContext()
		if err != nil {
			return err
		}
		spec, err := parseSideSpec(ruleSide)
		if err != nil {
			return err
		}

		ed := editor.New(logger)
		res := ed.Execute(&editor.SetRuleCommand{Glyph: args[0], Side: spec, Rule: args[1]}, ctx)
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		if err := saveContext(ctx); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(res.Message))
		warnAboutGraph(ctx)
		return nil
	},
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove [glyph]",
	Short: "Remove a rule from a glyph side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadContext()
		if err != nil {
			return err
		}
		spec, err := parseSideSpec(ruleSide)
		if err != nil {
			return err
		}

		ed := editor.New(logger)
		res := ed.Execute(&editor.RemoveRuleCommand{Glyph: args[0], Side: spec}, ctx)
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		if err := saveContext(ctx); err != nil {
			return err
		}
		fmt.Println(okStyle.Render(res.Message))
		return nil
	},
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every rule in the font",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadContext()
		if err != nil {
			return err
		}

		all := ctx.Rules.AllRules()
		if len(all) == 0 {
			fmt.Println(mutedStyle.Render("no rules"))
			return nil
		}
		names := make([]string, 0, len(all))
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, side := range []rules.Side{rules.SideLeft, rules.SideRight} {
				if rule, ok := all[name][side]; ok {
					fmt.Printf("%s  %-5s  %s\n", glyphStyle.Render(fmt.Sprintf("%-20s", name)), side, rule)
				}
			}
		}
		return nil
	},
}

func parseSideSpec(s string) (editor.SideSpec, error) {
	switch editor.SideSpec(s) {
	case editor.SpecLeft, editor.SpecRight, editor.SpecBoth:
		return editor.SideSpec(s), nil
	}
	return "", fmt.Errorf("invalid side %q (want left, right or both)", s)
}

// warnAboutGraph prints validation problems caused by the edit that just
// landed. The edit is kept either way; rules may be entered in any order.
func warnAboutGraph(ctx *editor.Context) {
	report := ctx.Rules.Validate()
	if !report.HasErrors() && !report.HasWarnings() {
		return
	}
	fmt.Print(renderReport(report))
	if report.HasErrors() {
		logger.Warn("rule graph has errors", zap.Int("cycles", len(report.Cycles)))
	}
}

func init() {
	rulesCmd.PersistentFlags().StringVarP(&ruleSide, "side", "s", "both", "glyph side: left, right or both")
	rulesCmd.AddCommand(rulesSetCmd)
	rulesCmd.AddCommand(rulesRemoveCmd)
	rulesCmd.AddCommand(rulesListCmd)
}
