package repository

import (
	"context"
	"errors"
	"time"

	"plantcare/entities"
)

var ErrNotFound = errors.New("record not found")

type ReminderRepository interface {
	WithTx(ctx context.Context, fn func(tx ReminderRepository) error) error

	Create(ctx context.Context, r *entities.Reminder) error
	FindByID(ctx context.Context, id string) (*entities.Reminder, error)
	// List returns every active reminder, soonest first.
	List(ctx context.Context) ([]entities.Reminder, error)
	// Due returns reminders whose next fire time is at or before asOf.
	Due(ctx context.Context, asOf time.Time) ([]entities.Reminder, error)
	SetNextFire(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
