package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claude/gymlog/internal/upload"
)

func (a *app) uploadCmd() *cobra.Command {
	var serverURL, apiKey, stateDir string
	var dryRun, list bool
	cmd := &cobra.Command{
		Use:   "upload [dir]",
		Short: "Send new Alpha Progression CSV exports in a directory to a gymlog server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list && len(args) == 0 {
				return fmt.Errorf("upload: directory argument required")
			}
			if serverURL == "" && !dryRun && !list {
				return fmt.Errorf("--server is required (or use --dry-run)")
			}
			if apiKey == "" {
				apiKey = a.cfg.Auth.APIKey
			}
			if stateDir == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				stateDir = filepath.Join(home, ".gymlog-upload")
			}

			state, err := upload.OpenStateDB(stateDir)
			if err != nil {
				return err
			}
			defer state.Close()

			if list {
				return a.printUploadHistory(state)
			}

			var client *upload.Client
			if !dryRun {
				client = upload.NewClient(serverURL, apiKey)
			}
			stats, err := upload.New(client, state, args[0], dryRun, a.log).Run(cmd.Context())
			if err != nil {
				return err
			}

			itoa := strconv.Itoa
			a.printer().KeyValues("Upload", [][2]string{
				{"Files", itoa(stats.FilesTotal)},
				{"Uploaded", itoa(stats.FilesUploaded)},
				{"Unchanged", itoa(stats.FilesSkipped)},
				{"Failed", itoa(stats.FilesErrored)},
				{"Sessions parsed", itoa(stats.SessionsParsed)},
				{"Sessions imported", itoa(stats.SessionsImported)},
				{"Sessions already present", itoa(stats.SessionsSkipped)},
			})
			if stats.FilesErrored > 0 {
				return fmt.Errorf("%d file(s) failed", stats.FilesErrored)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "gymlog server URL, e.g. https://gymlog.tail1234.ts.net")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (defaults to auth.api_key)")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "where uploaded files are tracked (default ~/.gymlog-upload)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse exports but don't send them")
	cmd.Flags().BoolVar(&list, "list", false, "show previously uploaded files and exit")
	return cmd
}

func (a *app) printUploadHistory(state *upload.StateDB) error {
	sent, err := state.History()
	if err != nil {
		return fmt.Errorf("reading upload history: %w", err)
	}
	rows := make([][2]string, 0, len(sent))
	for _, s := range sent {
		rows = append(rows, [2]string{s.Path, fmt.Sprintf("%d session(s), %s", s.Sessions, s.SentAt.Local().Format("2006-01-02 15:04"))})
	}
	a.printer().KeyValues("Uploaded files", rows)
	return nil
}
