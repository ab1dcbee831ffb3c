package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/report"
	"github.com/claude/gymlog/internal/storage"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	dataPath   string

	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "gymlog",
		Short:         "Workout plans, session logging and progress statistics",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (YAML or TOML)")
	root.PersistentFlags().StringVar(&a.dataPath, "data", "", "path to the data file (overrides data.path)")

	root.AddCommand(
		a.serveCmd(),
		a.mcpCmd(),
		a.planCmd(),
		a.exerciseCmd(),
		a.historyCmd(),
		a.statsCmd(),
		a.sessionsCmd(),
		a.importCmd(),
		a.archiveCmd(),
		a.backupCmd(),
		a.uploadCmd(),
	)
	return root
}

// setup loads config and builds the logger. Logs go to stderr so stdout stays
// free for tables and the MCP stdio transport.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.Data.Path = a.dataPath
	}
	if cfg.Data.Path == "" {
		cfg.Data.Path = storage.DefaultPath()
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// openStore opens the data file. One-shot commands call save after mutating
// instead of relying on autosave.
func (a *app) openStore(autosave bool) (*storage.Store, error) {
	return storage.Open(a.cfg.Data.Path, a.log, storage.WithAutoSave(autosave))
}

func (a *app) printer() *report.Printer {
	return report.NewPrinter(a.stdout)
}

// resolvePlan accepts a plan id or a case-insensitive plan name.
func resolvePlan(store *storage.Store, ref string) (models.Plan, error) {
	if p, err := store.Plan(ref); err == nil {
		return p, nil
	}
	for _, p := range store.Plans() {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return models.Plan{}, fmt.Errorf("%w: %s", storage.ErrPlanNotFound, ref)
}

// resolveExercise accepts an exercise id or a case-insensitive name. Ids of
// deleted exercises still resolve when they appear in the session log.
func resolveExercise(store *storage.Store, ref string) (id, name string, err error) {
	if ex, _, err := store.FindExercise(ref); err == nil {
		return ex.ID, ex.Name, nil
	}
	for _, p := range store.Plans() {
		for _, ex := range p.Exercises {
			if strings.EqualFold(ex.Name, ref) {
				return ex.ID, ex.Name, nil
			}
		}
	}
	for _, sess := range store.Sessions() {
		if l, ok := sess.Log(ref); ok {
			return ref, l.Name, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", storage.ErrExerciseNotFound, ref)
}

// planExercise finds an exercise of plan by id or case-insensitive name.
func planExercise(plan models.Plan, ref string) (id, name string, err error) {
	for _, ex := range plan.Exercises {
		if ex.ID == ref || strings.EqualFold(ex.Name, ref) {
			return ex.ID, ex.Name, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s in plan %s", storage.ErrExerciseNotFound, ref, plan.Name)
}

func parseDirection(s string) (int, error) {
	switch strings.ToLower(s) {
	case "up", "-1":
		return -1, nil
	case "down", "+1", "1":
		return 1, nil
	}
	return 0, fmt.Errorf("direction must be up or down, got %q", s)
}
