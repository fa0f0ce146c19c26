package service

import (
	"context"
	"time"

	"plantcare/entities"
	"plantcare/pkg/schedule/types"
)

// Fired is emitted once per reminder occurrence returned by DueReminders.
type Fired struct {
	ReminderID   string     `json:"reminder_id"`
	PlantID      string     `json:"plant_id,omitempty"`
	Description  string     `json:"description"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	FiredAt      time.Time  `json:"fired_at"`
	NextFireAt   *time.Time `json:"next_fire_at,omitempty"` // set for recurring reminders
}

type ScheduleManager interface {
	Schedule(ctx context.Context, trigger types.Trigger, plantID, description string) (*entities.Reminder, error)
	ListReminders(ctx context.Context) ([]entities.Reminder, error)
	Cancel(ctx context.Context, id string) error
	// DueReminders fires everything due at asOf. One-off reminders are removed;
	// recurring ones advance to their first occurrence after asOf.
	DueReminders(ctx context.Context, asOf time.Time) ([]Fired, error)
	Snooze(ctx context.Context, id string, d time.Duration) (*entities.Reminder, error)
}
