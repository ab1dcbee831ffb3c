package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
)

// exerciseFlags binds the editable exercise fields to flags.
type exerciseFlags struct {
	name      string
	primary   string
	secondary string
	rest      int
}

func (f *exerciseFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "exercise name")
	cmd.Flags().StringVar(&f.primary, "primary", "", "primary muscle group")
	cmd.Flags().StringVar(&f.secondary, "secondary", "None", "secondary muscle group")
	cmd.Flags().IntVar(&f.rest, "rest", models.DefaultRestSeconds, "rest time in seconds")
}

func (f *exerciseFlags) input() storage.ExerciseInput {
	return storage.ExerciseInput{
		Name:            f.name,
		PrimaryMuscle:   models.MuscleGroup(f.primary),
		SecondaryMuscle: models.MuscleGroup(f.secondary),
		RestTime:        f.rest,
	}
}

func (a *app) exerciseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Edit the exercises of a plan",
	}

	var add exerciseFlags
	addCmd := &cobra.Command{
		Use:   "add <plan>",
		Short: "Add an exercise to the end of a plan",
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
			ex, err := store.AddExercise(plan.ID, add.input())
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "added %q (%s) to %s\n", ex.Name, ex.ID, plan.Name)
			return nil
		},
	}
	add.bind(addCmd)

	var upd exerciseFlags
	updateCmd := &cobra.Command{
		Use:   "update <plan> <exercise>",
		Short: "Replace the fields of an exercise; unset flags keep their value",
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
			exID, _, err := planExercise(plan, args[1])
			if err != nil {
				return err
			}
			cur, err := store.Exercise(plan.ID, exID)
			if err != nil {
				return err
			}
			in := storage.ExerciseInput{
				Name:            cur.Name,
				PrimaryMuscle:   cur.PrimaryMuscle,
				SecondaryMuscle: cur.SecondaryMuscle,
				RestTime:        cur.RestTime,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = upd.name
			}
			if flags.Changed("primary") {
				in.PrimaryMuscle = models.MuscleGroup(upd.primary)
			}
			if flags.Changed("secondary") {
				in.SecondaryMuscle = models.MuscleGroup(upd.secondary)
			}
			if flags.Changed("rest") {
				in.RestTime = upd.rest
			}
			ex, err := store.UpdateExercise(plan.ID, exID, in)
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "updated %q (%s)\n", ex.Name, ex.ID)
			return nil
		},
	}
	upd.bind(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <plan> <exercise>",
		Short: "Remove an exercise from a plan; its history is kept",
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
			exID, name, err := planExercise(plan, args[1])
			if err != nil {
				return err
			}
			if err := store.DeleteExercise(plan.ID, exID); err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "deleted %q from %s\n", name, plan.Name)
			return nil
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move <plan> <exercise> <up|down>",
		Short: "Move an exercise one position up or down",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(args[2])
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
			exID, _, err := planExercise(plan, args[1])
			if err != nil {
				return err
			}
			if err := store.MoveExercise(plan.ID, exID, dir); err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}
			plan, err = store.Plan(plan.ID)
			if err != nil {
				return err
			}
			a.printer().Plan(plan)
			return nil
		},
	}

	cmd.AddCommand(addCmd, updateCmd, deleteCmd, moveCmd)
	return cmd
}
