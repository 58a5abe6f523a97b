package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/present"
)

func newRecipesCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"ls"},
		Short:   "List the recipes you can play",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := cc.openStore(ctx)
			if err != nil {
				return err
			}
			recipes, err := s.ListRecipes(ctx, cc.identity())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recipes) == 0 {
				fmt.Fprintln(out, "No recipes yet. Write one with: recipebox author")
				return nil
			}

			list := newListing(
				column{title: "ID"}, column{title: "Title"}, column{title: "Category"},
				column{title: "Visibility"}, column{title: "Price", numeric: true}, column{title: "Steps", numeric: true},
			)
			for _, r := range recipes {
				price := "-"
				if r.Price != nil {
					price = present.FormatAmount(*r.Price)
				}
				list.add(r.ID, r.Title, r.Category, visibility(r.Visible, r.Owner), price, r.StepCount)
			}
			fmt.Fprintln(out, list.render())
			return nil
		},
	}
}

func newIngredientsCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingredients",
		Short: "List the ingredient catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := cc.openStore(ctx)
			if err != nil {
				return err
			}
			items, err := s.List(ctx, cc.identity())
			if err != nil {
				return err
			}

			list := newListing(
				column{title: "ID", numeric: true}, column{title: "Title"}, column{title: "Unit"},
				column{title: "Category"}, column{title: "Owner"}, column{title: "Deletable"},
			)
			for _, it := range items {
				if it.Owner == "" {
					list.add(it.ID, it.Title, it.Unit, it.Category, "public")
					continue
				}
				list.add(it.ID, it.Title, it.Unit, it.Category, it.Owner, yesNo(it.Deletable))
			}
			fmt.Fprintln(cmd.OutOrStdout(), list.render())
			return nil
		},
	}
}

func visibility(visible bool, owner string) string {
	if visible {
		return "public"
	}
	return "private (" + owner + ")"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
