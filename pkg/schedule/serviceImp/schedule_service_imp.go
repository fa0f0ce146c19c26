package serviceImp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/metrics"
	repo "plantcare/pkg/schedule/repository"
	"plantcare/pkg/schedule/service"
	"plantcare/pkg/schedule/types"
)

type Option func(*schedSvc)

func WithClock(now func() time.Time) Option { return func(s *schedSvc) { s.now = now } }

// WithLocation sets the zone cron expressions are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *schedSvc) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type schedSvc struct {
	mu  sync.Mutex // serializes every manager operation
	r   repo.ReminderRepository
	log *zap.Logger
	now func() time.Time
	loc *time.Location
}

func NewScheduleService(r repo.ReminderRepository, log *zap.Logger, opts ...Option) service.ScheduleManager {
	if log == nil {
		log = zap.NewNop()
	}
	s := &schedSvc{r: r, log: log.Named("schedule"), now: time.Now, loc: time.UTC}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *schedSvc) clock() time.Time { return s.now().UTC().Truncate(time.Millisecond) }

func (s *schedSvc) fail(op, id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		s.log.Debug("reminder not found", zap.String("op", op), zap.String("reminder_id", id))
		return apperr.NotFound("reminder", id)
	}
	s.log.Error("storage failure", zap.String("op", op), zap.String("reminder_id", id), zap.Error(err))
	return apperr.Storage(op, err)
}

func (s *schedSvc) Schedule(ctx context.Context, trigger types.Trigger, plantID, description string) (*entities.Reminder, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Validation("description", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	plan, err := types.Resolve(trigger, now, s.loc)
	if err != nil {
		return nil, err
	}
	rem := &entities.Reminder{
		ID:             uuid.NewString(),
		PlantID:        strings.TrimSpace(plantID),
		TriggerKind:    plan.Kind,
		TriggerPayload: plan.Payload,
		Description:    description,
		NextFireAt:     plan.First,
		CreatedAt:      now,
	}
	if err := s.r.Create(ctx, rem); err != nil {
		return nil, s.fail("schedule reminder", rem.ID, err)
	}
	metrics.RemindersTotal.WithLabelValues("scheduled").Inc()
	s.log.Info("reminder scheduled",
		zap.String("reminder_id", rem.ID),
		zap.String("kind", rem.TriggerKind),
		zap.String("payload", rem.TriggerPayload),
		zap.Time("next_fire_at", rem.NextFireAt))
	return rem, nil
}

func (s *schedSvc) ListReminders(ctx context.Context) ([]entities.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.r.List(ctx)
	if err != nil {
		return nil, s.fail("list reminders", "", err)
	}
	return out, nil
}

func (s *schedSvc) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.r.Delete(ctx, id); err != nil {
		return s.fail("cancel reminder", id, err)
	}
	metrics.RemindersTotal.WithLabelValues("cancelled").Inc()
	s.log.Info("reminder cancelled", zap.String("reminder_id", id))
	return nil
}

func (s *schedSvc) DueReminders(ctx context.Context, asOf time.Time) ([]service.Fired, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asOf = asOf.UTC().Truncate(time.Millisecond)
	var fired []service.Fired
	err := s.r.WithTx(ctx, func(tx repo.ReminderRepository) error {
		fired = fired[:0]
		due, err := tx.Due(ctx, asOf)
		if err != nil {
			return err
		}
		for _, rem := range due {
			ev := service.Fired{
				ReminderID:   rem.ID,
				PlantID:      rem.PlantID,
				Description:  rem.Description,
				ScheduledFor: rem.NextFireAt,
				FiredAt:      asOf,
			}
			if !rem.IsRecurring() {
				if err := tx.Delete(ctx, rem.ID); err != nil {
					return err
				}
				fired = append(fired, ev)
				continue
			}
			next, err := types.NextOccurrence(rem.TriggerPayload, asOf, s.loc)
			if err != nil {
				// a stored expression that no longer parses can never fire again
				s.log.Error("dropping unschedulable reminder", zap.String("reminder_id", rem.ID), zap.Error(err))
				if err := tx.Delete(ctx, rem.ID); err != nil {
					return err
				}
				continue
			}
			if err := tx.SetNextFire(ctx, rem.ID, next); err != nil {
				return err
			}
			ev.NextFireAt = &next
			fired = append(fired, ev)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("due reminders", "", err)
	}
	if len(fired) > 0 {
		metrics.RemindersTotal.WithLabelValues("fired").Add(float64(len(fired)))
		s.log.Info("reminders fired", zap.Int("count", len(fired)), zap.Time("as_of", asOf))
	}
	return fired, nil
}

func (s *schedSvc) Snooze(ctx context.Context, id string, d time.Duration) (*entities.Reminder, error) {
	if d <= 0 {
		return nil, apperr.Validation("duration", "must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out *entities.Reminder
	err := s.r.WithTx(ctx, func(tx repo.ReminderRepository) error {
		rem, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		base := rem.NextFireAt
		if now := s.clock(); now.After(base) {
			base = now
		}
		rem.NextFireAt = base.Add(d).UTC()
		if err := tx.SetNextFire(ctx, id, rem.NextFireAt); err != nil {
			return err
		}
		out = rem
		return nil
	})
	if err != nil {
		return nil, s.fail("snooze reminder", id, err)
	}
	metrics.RemindersTotal.WithLabelValues("snoozed").Inc()
	s.log.Info("reminder snoozed", zap.String("reminder_id", id), zap.Time("next_fire_at", out.NextFireAt))
	return out, nil
}
