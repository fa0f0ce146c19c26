// Package notify delivers fired reminders to the outside world.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/schedule/service"
)

type Notifier interface {
	Notify(ctx context.Context, ev service.Fired) error
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, ev service.Fired) error

func (f Func) Notify(ctx context.Context, ev service.Fired) error { return f(ctx, ev) }

type logNotifier struct{ log *zap.Logger }

// NewLog writes one structured line per fired reminder.
func NewLog(log *zap.Logger) Notifier { return &logNotifier{log: log.Named("notify")} }

func (n *logNotifier) Notify(_ context.Context, ev service.Fired) error {
	n.log.Info("reminder",
		zap.String("reminder_id", ev.ReminderID),
		zap.String("plant_id", ev.PlantID),
		zap.String("description", ev.Description),
		zap.Time("fired_at", ev.FiredAt))
	return nil
}

// Message renders the transcript line for ev.
func Message(ev service.Fired) string {
	return fmt.Sprintf("Reminder: %s", ev.Description)
}

// Transcript appends fired reminders to the conversation log table.
type Transcript struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTranscript(db *gorm.DB) *Transcript { return &Transcript{db: db, now: time.Now} }

func (t *Transcript) Notify(ctx context.Context, ev service.Fired) error {
	entry := &entities.TranscriptEntry{
		ReminderID: ev.ReminderID,
		PlantID:    ev.PlantID,
		Text:       Message(ev),
		FiredAt:    ev.FiredAt,
		CreatedAt:  t.now().UTC(),
	}
	return apperr.Storage("append transcript", t.db.WithContext(ctx).Create(entry).Error)
}

// Recent returns up to limit entries, newest first.
func (t *Transcript) Recent(ctx context.Context, limit int) ([]entities.TranscriptEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []entities.TranscriptEntry
	err := t.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, apperr.Storage("read transcript", err)
	}
	return out, nil
}

type fanout []Notifier

// Fanout delivers to every sink and joins their errors.
func Fanout(ns ...Notifier) Notifier { return fanout(ns) }

func (f fanout) Notify(ctx context.Context, ev service.Fired) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
