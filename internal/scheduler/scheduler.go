// Package scheduler runs named background tasks on cron schedules.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const taskTimeout = 30 * time.Minute

// TaskFunc is the function signature for scheduled tasks.
type TaskFunc func(ctx context.Context) error

// Scheduler manages named tasks on top of robfig/cron.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	tasks   map[string]cron.EntryID
	mu      sync.RWMutex
	running bool
}

// New creates a scheduler. Schedules accept the standard five-field cron
// format as well as descriptors such as "@every 10m".
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		logger: logger.Named("scheduler"),
		tasks:  make(map[string]cron.EntryID),
	}
}

// Start begins running the scheduled tasks.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", zap.Int("tasks", len(s.tasks)))
}

// Stop waits for the running tasks to finish or for ctx to be done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped gracefully")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timeout")
	}

	s.running = false
}

// AddTask registers task under name, replacing a task with the same name.
func (s *Scheduler) AddTask(name, schedule string, task TaskFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.tasks[name]; ok {
		s.cron.Remove(id)
		delete(s.tasks, name)
	}

	id, err := s.cron.AddFunc(schedule, func() {
		s.runTask(name, task)
	})
	if err != nil {
		return err
	}

	s.tasks[name] = id
	s.logger.Info("added task", zap.String("name", name), zap.String("schedule", schedule))

	return nil
}

// RemoveTask removes a scheduled task.
func (s *Scheduler) RemoveTask(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.tasks[name]; ok {
		s.cron.Remove(id)
		delete(s.tasks, name)
		s.logger.Info("removed task", zap.String("name", name))
	}
}

// Tasks returns the sorted names of the scheduled tasks.
func (s *Scheduler) Tasks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// IsRunning reports whether the scheduler has been started.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

func (s *Scheduler) runTask(name string, task TaskFunc) {
	started := time.Now()
	s.logger.Debug("running scheduled task", zap.String("name", name))

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := task(ctx); err != nil {
		s.logger.Error("scheduled task failed",
			zap.String("name", name),
			zap.Error(err),
			zap.Duration("duration", time.Since(started)),
		)
		return
	}

	s.logger.Debug("scheduled task completed",
		zap.String("name", name),
		zap.Duration("duration", time.Since(started)),
	)
}
