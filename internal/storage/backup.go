package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupPrefix = "data-"

// Backup writes a timestamped copy of the current document into dir and
// removes the oldest copies beyond keep (keep <= 0 keeps everything). It
// returns the path written.
func (s *Store) Backup(dir string, keep int, now time.Time) (string, error) {
	path := filepath.Join(dir, backupPrefix+now.UTC().Format("20060102-150405")+".json")

	s.mu.RLock()
	err := Save(path, s.doc)
	s.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	if keep > 0 {
		if err := pruneBackups(dir, keep); err != nil {
			return path, err
		}
	}
	s.log.Info("backup written", "path", path)
	return path, nil
}

// ListBackups returns backup files in dir, oldest first.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, filepath.Join(dir, e.Name()))
	}
	// Timestamps are fixed-width, so name order is time order.
	sort.Strings(names)
	return names, nil
}

func pruneBackups(dir string, keep int) error {
	names, err := ListBackups(dir)
	if err != nil {
		return err
	}
	for len(names) > keep {
		if err := os.Remove(names[0]); err != nil {
			return fmt.Errorf("pruning backup: %w", err)
		}
		names = names[1:]
	}
	return nil
}
