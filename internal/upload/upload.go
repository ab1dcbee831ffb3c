// Package upload sends Alpha Progression CSV exports from a local directory
// to a remote gymlog server, skipping files that were already sent.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/ingest/alpha"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsParsed   int
	SessionsImported int
	SessionsSkipped  int
}

// Uploader walks a directory of CSV exports and posts new ones to the server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	now    func() time.Time
	log    *slog.Logger
	stats  Stats
}

// New creates an Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{client: client, state: state, dir: dir, dryRun: dryRun, now: time.Now, log: log}
}

// Run uploads every new or changed *.csv file under the directory, oldest
// name first. A file that fails is logged and counted; Run continues with the
// rest and only returns an error when the directory cannot be read or ctx
// is cancelled.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := csvFiles(u.dir)
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		if err := u.processFile(ctx, f); err != nil {
			u.log.Warn("upload failed", "file", f, "error", err)
			u.stats.FilesErrored++
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) error {
	key, err := keyFor(u.dir, path)
	if err != nil {
		return err
	}
	seen, err := u.state.Seen(key)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if seen {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Parse locally first so malformed exports never reach the server.
	sessions, err := alpha.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	u.stats.SessionsParsed += len(sessions)

	if u.dryRun {
		u.log.Info("dry run", "file", key.Path, "sessions", len(sessions))
		return nil
	}

	res, err := u.client.SendAlpha(ctx, data)
	if err != nil {
		return err
	}
	u.stats.FilesUploaded++
	u.stats.SessionsImported += res.SessionsImported
	u.stats.SessionsSkipped += res.SessionsSkipped
	u.log.Info("uploaded", "file", key.Path, "imported", res.SessionsImported, "skipped", res.SessionsSkipped)

	return u.state.Record(key, res.SessionsImported, u.now())
}

// csvFiles lists *.csv files under dir in name order.
func csvFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
