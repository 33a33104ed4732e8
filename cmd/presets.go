package main

import (
	"fmt"
	"text/tabwriter"

	"productstudio/internal/domain"

	"github.com/spf13/cobra"
)

type presetsOptions struct {
	category string
	gender   string
}

func newPresetsCmd(app *App) *cobra.Command {
	opts := &presetsOptions{}

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "背景プリセットの一覧を表示します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "カテゴリ (product, fashion)")
	cmd.Flags().StringVarP(&opts.gender, "gender", "g", "", "モデルの性別 (female, male)。fashion のみ有効")
	return cmd
}

func runPresets(app *App, opts *presetsOptions) error {
	presets := domain.AllPresets()
	if opts.category != "" {
		category, err := domain.ParseCategory(opts.category)
		if err != nil {
			return err
		}
		gender := domain.GenderNone
		if opts.gender != "" {
			if gender, err = domain.ParseGender(opts.gender); err != nil {
				return err
			}
		}
		presets = domain.PresetsFor(category, gender)
	} else if opts.gender != "" {
		return fmt.Errorf("--gender は --category fashion と一緒に指定してください")
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tカテゴリ\tモデル\t名前")
	for _, p := range presets {
		gender := "-"
		if p.Gender != domain.GenderNone {
			gender = p.Gender.DisplayName()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n", p.ID, p.Category.DisplayName(), gender, p.Icon, p.DisplayName)
	}
	return w.Flush()
}
