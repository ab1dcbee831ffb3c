// Package backup takes periodic copies of the training document.
package backup

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// Source writes one backup copy into dir, keeping the newest keep copies.
// *storage.Store satisfies it.
type Source interface {
	Backup(dir string, keep int, now time.Time) (string, error)
}

// Scheduler runs backups on a cron schedule.
type Scheduler struct {
	src  Source
	dir  string
	keep int
	now  func() time.Time
	log  *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	last    string
	lastErr error
	runs    int
}

// New creates a scheduler writing into dir.
func New(src Source, dir string, keep int, log *slog.Logger) *Scheduler {
	return &Scheduler{src: src, dir: dir, keep: keep, now: time.Now, log: log}
}

// RunOnce takes one backup immediately.
func (s *Scheduler) RunOnce() (string, error) {
	path, err := s.src.Backup(s.dir, s.keep, s.now())

	s.mu.Lock()
	s.runs++
	s.last, s.lastErr = path, err
	s.mu.Unlock()

	if err != nil {
		return path, fmt.Errorf("backup: %w", err)
	}
	return path, nil
}

// Start schedules backups with a cron spec such as "@daily" or
// "0 30 3 * * *". Calling Start on a running scheduler is an error.
func (s *Scheduler) Start(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("backup: scheduler already running")
	}

	c := cron.New()
	err := c.AddFunc(spec, func() {
		if _, err := s.RunOnce(); err != nil {
			s.log.Error("scheduled backup failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("backup: schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	s.log.Info("backup scheduler started", "schedule", spec, "dir", s.dir, "keep", s.keep)
	return nil
}

// Stop halts the schedule. A backup already running is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		c.Stop()
	}
}

// Last reports the result of the most recent backup and how many have run.
func (s *Scheduler) Last() (path string, runs int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.runs, s.lastErr
}
