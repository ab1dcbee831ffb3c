// Package archive mirrors the training document into a relational database
// so it can be explored with plain SQL.
package archive

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/claude/gymlog/internal/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrUnsupportedDSN is returned for a DSN that is neither sqlite:// nor
// postgres://.
var ErrUnsupportedDSN = errors.New("archive: unsupported dsn")

// Counts reports how many rows an export wrote per table.
type Counts struct {
	Plans     int `json:"plans"`
	Exercises int `json:"exercises"`
	Sessions  int `json:"sessions"`
	Logs      int `json:"exercise_logs"`
	Sets      int `json:"sets"`
}

// target is a parsed DSN.
type target struct {
	driver     string // database/sql driver name
	source     string // database/sql data source
	migrateURL string
	postgres   bool
}

func parseDSN(dsn string) (target, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return target{}, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		return target{driver: "sqlite", source: path, migrateURL: dsn}, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		_, rest, _ := strings.Cut(dsn, "://")
		return target{driver: "pgx", source: dsn, migrateURL: "pgx5://" + rest, postgres: true}, nil
	}
	return target{}, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
}

// redact hides the password part of a URL-style DSN.
func redact(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(userinfo, ":")
	return scheme + "://" + user + ":***@" + host
}

// Migrate applies all pending schema migrations to the database at dsn.
func Migrate(dsn string) error {
	t, err := parseDSN(dsn)
	if err != nil {
		return err
	}
	return runMigrations(t)
}

func runMigrations(t target) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, t.migrateURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Export migrates the database at dsn and replaces its content with doc in a
// single transaction.
func Export(ctx context.Context, dsn string, doc *models.Document) (Counts, error) {
	t, err := parseDSN(dsn)
	if err != nil {
		return Counts{}, err
	}
	if err := runMigrations(t); err != nil {
		return Counts{}, err
	}

	db, err := sql.Open(t.driver, t.source)
	if err != nil {
		return Counts{}, fmt.Errorf("opening archive: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	w := &writer{ctx: ctx, tx: tx, postgres: t.postgres}
	if err := w.replace(doc); err != nil {
		return Counts{}, err
	}
	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("commit: %w", err)
	}
	return w.counts, nil
}

type writer struct {
	ctx      context.Context
	tx       *sql.Tx
	postgres bool
	counts   Counts
}

func (w *writer) exec(query string, args ...any) error {
	if w.postgres {
		query = rebind(query)
	}
	if _, err := w.tx.ExecContext(w.ctx, query, args...); err != nil {
		return fmt.Errorf("archive: %s: %w", strings.Fields(query)[0], err)
	}
	return nil
}

func (w *writer) replace(doc *models.Document) error {
	for _, table := range []string{"sets", "exercise_logs", "sessions", "exercises", "plans"} {
		if err := w.exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	if doc == nil {
		return nil
	}

	for pi, p := range doc.Plans {
		if err := w.exec(`INSERT INTO plans (id, position, name) VALUES (?, ?, ?)`, p.ID, pi, p.Name); err != nil {
			return err
		}
		w.counts.Plans++
		for ei, ex := range p.Exercises {
			err := w.exec(`INSERT INTO exercises
				(id, plan_id, position, name, primary_muscle, secondary_muscle, rest_time, pb_total_volume)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				ex.ID, p.ID, ei, ex.Name, string(ex.PrimaryMuscle), string(ex.SecondaryMuscle), ex.RestTime, ex.PBTotalVolume)
			if err != nil {
				return err
			}
			w.counts.Exercises++
		}
	}

	for _, sess := range doc.WorkoutSessions {
		if err := w.exec(`INSERT INTO sessions (id, date, plan_id) VALUES (?, ?, ?)`,
			sess.SessionID, sess.Date.String(), sess.PlanID); err != nil {
			return err
		}
		w.counts.Sessions++
		for li, l := range sess.Exercises {
			if err := w.exec(`INSERT INTO exercise_logs (session_id, position, exercise_id, name, notes) VALUES (?, ?, ?, ?, ?)`,
				sess.SessionID, li, l.ExerciseID, l.Name, l.Notes); err != nil {
				return err
			}
			w.counts.Logs++
			for si, set := range l.Sets {
				if err := w.exec(`INSERT INTO sets (session_id, log_position, position, weight, reps) VALUES (?, ?, ?, ?, ?)`,
					sess.SessionID, li, si, set.Weight, set.Reps); err != nil {
					return err
				}
				w.counts.Sets++
			}
		}
	}
	return nil
}

// rebind rewrites ? placeholders to the $N form postgres expects.
func rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
