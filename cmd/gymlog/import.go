package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/models"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import workouts from other apps",
	}

	var muscle string
	alphaCmd := &cobra.Command{
		Use:   "alpha <file.csv>",
		Short: "Import an Alpha Progression CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if muscle == "" {
				muscle = a.cfg.Import.DefaultMuscle
			}
			fallback, err := models.ParseMuscleGroup(muscle)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			store, err := a.openStore(false)
			if err != nil {
				return err
			}
			res, err := alpha.NewProvider(store, a.log, fallback).Ingest(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}
			a.printImport(res)
			return nil
		},
	}
	alphaCmd.Flags().StringVar(&muscle, "default-muscle", "", "primary muscle for exercises whose name gives no hint (defaults to import.default_muscle)")

	cmd.AddCommand(alphaCmd)
	return cmd
}

func (a *app) printImport(res *ingest.Result) {
	itoa := strconv.Itoa
	a.printer().KeyValues("Import", [][2]string{
		{"Sessions received", itoa(res.SessionsReceived)},
		{"Sessions imported", itoa(res.SessionsImported)},
		{"Sessions skipped", itoa(res.SessionsSkipped)},
		{"Plans created", itoa(res.PlansCreated)},
		{"Exercises created", itoa(res.ExercisesCreated)},
		{"Sets imported", fmt.Sprintf("%d of %d", res.SetsImported, res.SetsReceived)},
		{"Sets dropped", itoa(res.SetsDropped)},
	})
	if res.Message != "" {
		fmt.Fprintln(a.stdout, res.Message)
	}
}
