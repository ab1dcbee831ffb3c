package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/stats"
)

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <exercise>",
		Short: "Per-session total volume of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(false)
			if err != nil {
				return err
			}
			id, name, err := resolveExercise(store, args[0])
			if err != nil {
				return err
			}
			points := stats.History(store.Sessions(), id)
			if len(points) == 0 {
				fmt.Fprintf(a.stdout, "no history for %s\n", name)
				return nil
			}
			a.printer().History(name, points)
			return nil
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	var window int
	cmd := &cobra.Command{
		Use:   "stats <exercise>",
		Short: "Recent averages, last sets and next target volume of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(false)
			if err != nil {
				return err
			}
			id, name, err := resolveExercise(store, args[0])
			if err != nil {
				return err
			}
			if window <= 0 {
				window = a.cfg.Stats.Window
			}
			sessions := store.Sessions()
			a.printer().Series(name, stats.RecentSeries(sessions, id, window), stats.LastSets(sessions, id))
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", 0, "number of recent sessions (defaults to stats.window)")
	return cmd
}

func (a *app) sessionsCmd() *cobra.Command {
	var planRef string
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List logged sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(false)
			if err != nil {
				return err
			}
			planID := ""
			if planRef != "" {
				plan, err := resolvePlan(store, planRef)
				if err != nil {
					return err
				}
				planID = plan.ID
			}

			names := map[string]string{}
			for _, p := range store.Plans() {
				names[p.ID] = p.Name
			}
			sessions := store.SessionsByDate(planID)
			a.printer().Sessions(sessions, names)

			days := stats.DaysSinceLastWorkout(store.Sessions(), models.DateOf(time.Now()))
			fmt.Fprintln(a.stdout, stats.LastWorkoutLabel(days))
			return nil
		},
	}
	cmd.Flags().StringVar(&planRef, "plan", "", "only sessions of this plan (id or name)")
	return cmd
}
