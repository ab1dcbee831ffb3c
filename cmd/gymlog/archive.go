package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claude/gymlog/internal/archive"
	"github.com/claude/gymlog/internal/backup"
)

func (a *app) archiveCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Export the data file into a SQLite or PostgreSQL database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = a.cfg.Archive.DSN()
			}
			store, err := a.openStore(false)
			if err != nil {
				return err
			}
			doc := store.Document()
			counts, err := archive.Export(cmd.Context(), dsn, &doc)
			if err != nil {
				return err
			}
			a.log.Info("archive written", "driver", a.cfg.Archive.Driver, "sessions", counts.Sessions)
			itoa := strconv.Itoa
			a.printer().KeyValues("Archive", [][2]string{
				{"Plans", itoa(counts.Plans)},
				{"Exercises", itoa(counts.Exercises)},
				{"Sessions", itoa(counts.Sessions)},
				{"Exercise logs", itoa(counts.Logs)},
				{"Sets", itoa(counts.Sets)},
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "sqlite://path or postgres:// URL (defaults to the archive config)")
	return cmd
}

func (a *app) backupCmd() *cobra.Command {
	var dir string
	var keep int
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write one timestamped copy of the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Backup.Dir
			}
			if dir == "" {
				dir = "backups"
			}
			if !cmd.Flags().Changed("keep") {
				keep = a.cfg.Backup.Keep
			}
			store, err := a.openStore(false)
			if err != nil {
				return err
			}
			path, err := backup.New(store, dir, keep, a.log).RunOnce()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "backup directory (defaults to backup.dir, then ./backups)")
	cmd.Flags().IntVar(&keep, "keep", 0, "copies to keep, 0 keeps all (defaults to backup.keep)")
	return cmd
}
