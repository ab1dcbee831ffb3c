package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/gymlog/internal/models"
)

// DefaultDocument returns an empty document with the fixed muscle vocabulary.
func DefaultDocument() *models.Document {
	return &models.Document{
		Plans:           []models.Plan{},
		MuscleGroups:    models.MuscleGroupNames(),
		WorkoutSessions: []models.WorkoutSession{},
	}
}

// Load reads the document at path. A missing file or a file that does not
// parse yields DefaultDocument and no error; only other read failures are
// returned. The result is always migrated.
func Load(path string, log *slog.Logger) (*models.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("no data file, starting with defaults", "path", path)
			return DefaultDocument(), nil
		}
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	doc, err := Decode(data)
	if err != nil {
		log.Warn("data file unreadable, starting with defaults", "path", path, "error", err)
		return DefaultDocument(), nil
	}
	return doc, nil
}

// Decode parses and migrates a JSON document.
func Decode(data []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	Migrate(&doc)
	return &doc, nil
}

// Migrate brings documents written by older versions up to date in place:
// missing collections become empty, missing rest times default to 60 seconds
// and an empty muscle vocabulary is restored. Running it twice is a no-op.
func Migrate(doc *models.Document) {
	if doc.Plans == nil {
		doc.Plans = []models.Plan{}
	}
	if doc.WorkoutSessions == nil {
		doc.WorkoutSessions = []models.WorkoutSession{}
	}
	if len(doc.MuscleGroups) == 0 {
		doc.MuscleGroups = models.MuscleGroupNames()
	}
	for i := range doc.Plans {
		p := &doc.Plans[i]
		if p.Exercises == nil {
			p.Exercises = []models.Exercise{}
		}
		for j := range p.Exercises {
			ex := &p.Exercises[j]
			if ex.RestTime <= 0 {
				ex.RestTime = models.DefaultRestSeconds
			}
			if ex.SecondaryMuscle == "" {
				ex.SecondaryMuscle = models.MuscleNone
			}
		}
	}
	for i := range doc.WorkoutSessions {
		s := &doc.WorkoutSessions[i]
		if s.Exercises == nil {
			s.Exercises = []models.ExerciseLog{}
		}
		for j := range s.Exercises {
			if s.Exercises[j].Sets == nil {
				s.Exercises[j].Sets = models.Sets{}
			}
		}
	}
}

// Encode renders the document as two-space indented JSON with a trailing newline.
func Encode(doc *models.Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return append(out, '\n'), nil
}

// Save overwrites path with the whole document. The write goes to a temp file
// in the same directory which is synced and renamed over the target, so
// readers never observe a partial file.
func Save(path string, doc *models.Document) error {
	if doc == nil {
		return errors.New("storage: nil document")
	}
	out, err := Encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".data.tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(out); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing data file: %w", err)
	}
	return nil
}

// DefaultPath returns <user config dir>/gymlog/data.json.
func DefaultPath() string {
	return filepath.Join(userConfigDir(), "gymlog", "data.json")
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config")
	}
	return "."
}
