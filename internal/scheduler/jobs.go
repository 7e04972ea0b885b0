package scheduler

import (
	"context"

	"github.com/unclebandit/hvac-backend/internal/model"
)

const (
	CleanupTask   = "cleanup"
	RemindersTask = "maintenance-reminders"
)

type Cleaner interface {
	Run(ctx context.Context) (*model.CleanupResult, error)
}

type Reminder interface {
	Run(ctx context.Context) (*model.ReminderResult, error)
}

// Register adds the cleanup and reminder tasks on their specs.
func Register(s *Scheduler, cleanupSpec string, cleaner Cleaner, reminderSpec string, reminder Reminder) error {
	if err := s.Add(CleanupTask, cleanupSpec, func(ctx context.Context) error {
		_, err := cleaner.Run(ctx)
		return err
	}); err != nil {
		return err
	}
	return s.Add(RemindersTask, reminderSpec, func(ctx context.Context) error {
		_, err := reminder.Run(ctx)
		return err
	})
}
