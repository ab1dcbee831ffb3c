package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List and edit workout plans",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List plans, or the exercises of one plan",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore(false)
				if err != nil {
					return err
				}
				if len(args) == 0 {
					a.printer().Plans(store.Plans())
					return nil
				}
				plan, err := resolvePlan(store, args[0])
				if err != nil {
					return err
				}
				a.printer().Plan(plan)
				return nil
			},
		},
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create a plan (named \"New Plan\" when no name is given)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore(false)
				if err != nil {
					return err
				}
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				plan, err := store.CreatePlan(name)
				if err != nil {
					return err
				}
				if err := store.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "created plan %q (%s)\n", plan.Name, plan.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <plan> <name>",
			Short: "Rename a plan",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore(false)
				if err != nil {
					return err
				}
				plan, err := resolvePlan(store, args[0])
				if err != nil {
					return err
				}
				plan, err = store.RenamePlan(plan.ID, args[1])
				if err != nil {
					return err
				}
				if err := store.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "renamed plan %s to %q\n", plan.ID, plan.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <plan>",
			Short: "Delete a plan and every session logged against it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore(false)
				if err != nil {
					return err
				}
				plan, err := resolvePlan(store, args[0])
				if err != nil {
					return err
				}
				removed, err := store.DeletePlan(plan.ID)
				if err != nil {
					return err
				}
				if err := store.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "deleted plan %q and %d session(s)\n", plan.Name, removed)
				return nil
			},
		},
		&cobra.Command{
			Use:   "move <plan> <up|down>",
			Short: "Move a plan one position up or down",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := parseDirection(args[1])
				if err != nil {
					return err
				}
				store, err := a.openStore(false)
				if err != nil {
					return err
				}
				plan, err := resolvePlan(store, args[0])
				if err != nil {
					return err
				}
				if err := store.MovePlan(plan.ID, dir); err != nil {
					return err
				}
				if err := store.Flush(); err != nil {
					return err
				}
				a.printer().Plans(store.Plans())
				return nil
			},
		},
	)
	return cmd
}
