// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the console's periodic housekeeping jobs.
package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default job schedules
const (
	NotifySweepSchedule  = "@every 1s"
	LimiterPruneSchedule = "@every 10m"
)

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	LastRun  time.Time `json:"last_run"`
	NextRun  time.Time `json:"next_run"`
}

type registeredJob struct {
	name     string
	schedule string
	entryID  cron.EntryID
}

// Scheduler wraps a cron instance with named jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.RWMutex
	jobs map[string]registeredJob
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
		jobs:   make(map[string]registeredJob),
	}
}

// Add registers fn under name to run on schedule (standard cron expression or
// "@every <duration>").
func (s *Scheduler) Add(name, schedule string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	id, err := s.cron.AddFunc(schedule, fn)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	s.jobs[name] = registeredJob{name: name, schedule: schedule, entryID: id}
	s.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// Jobs returns all registered jobs sorted by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		entry := s.cron.Entry(job.entryID)
		out = append(out, JobInfo{
			Name:     job.name,
			Schedule: job.schedule,
			LastRun:  entry.Prev,
			NextRun:  entry.Next,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
