package serviceImp

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/keylock"
	"plantcare/pkg/metrics"
	repo "plantcare/pkg/plant/repository"
	"plantcare/pkg/plant/service"
)

var validate = validator.New()

type Option func(*plantSvc)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *plantSvc) { s.now = now }
}

type plantSvc struct {
	r     repo.PlantRepository
	log   *zap.Logger
	locks *keylock.KeyLock
	now   func() time.Time
}

func NewPlantService(r repo.PlantRepository, log *zap.Logger, opts ...Option) service.PlantStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &plantSvc{r: r, log: log.Named("plant"), locks: keylock.New(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *plantSvc) clock() time.Time { return s.now().UTC().Truncate(time.Millisecond) }

// fail maps repository errors onto the shared taxonomy.
func (s *plantSvc) fail(op, kind, id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		s.log.Debug("not found", zap.String("op", op), zap.String("kind", kind), zap.String("id", id))
		return apperr.NotFound(kind, id)
	}
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	s.log.Error("storage failure", zap.String("op", op), zap.String("id", id), zap.Error(err))
	return apperr.Storage(op, err)
}

func validationErr(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		field := snake(fe.Field())
		switch fe.Tag() {
		case "required", "min":
			return apperr.Validation(field, "must not be empty")
		case "gt":
			return apperr.Validation(field, "must be positive")
		}
		return apperr.Validation(field, "failed "+fe.Tag())
	}
	return apperr.Validation("", err.Error())
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

func (s *plantSvc) AddPlant(ctx context.Context, in service.NewPlant) (*entities.Plant, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	if err := validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}
	freq := service.DefaultWaterFrequencyDays
	if in.WaterFrequencyDays != nil {
		freq = *in.WaterFrequencyDays
	}
	p := &entities.Plant{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		Type:               in.Type,
		Location:           strings.TrimSpace(in.Location),
		Light:              strings.TrimSpace(in.Light),
		WaterFrequencyDays: freq,
		Notes:              in.Notes,
		CreatedAt:          s.clock(),
	}
	if err := s.r.Create(ctx, p); err != nil {
		return nil, s.fail("add plant", "plant", p.ID, err)
	}
	metrics.PlantsTotal.WithLabelValues("added").Inc()
	s.log.Info("plant added", zap.String("plant_id", p.ID), zap.String("name", p.Name), zap.Int("water_frequency_days", freq))
	return p, nil
}

func (s *plantSvc) GetPlant(ctx context.Context, id string) (*entities.Plant, error) {
	defer s.locks.RLock(id)()
	p, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("get plant", "plant", id, err)
	}
	return p, nil
}

func (s *plantSvc) ListPlants(ctx context.Context) ([]entities.Plant, error) {
	ps, err := s.r.List(ctx)
	if err != nil {
		return nil, s.fail("list plants", "plant", "", err)
	}
	return ps, nil
}

func (s *plantSvc) UpdatePlant(ctx context.Context, id string, patch service.PlantPatch) (*entities.Plant, error) {
	trimPtr(patch.Name)
	trimPtr(patch.Type)
	trimPtr(patch.Location)
	trimPtr(patch.Light)
	if err := validate.Struct(patch); err != nil {
		return nil, validationErr(err)
	}

	defer s.locks.Lock(id)()
	p, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("update plant", "plant", id, err)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Light != nil {
		p.Light = *patch.Light
	}
	if patch.WaterFrequencyDays != nil {
		p.WaterFrequencyDays = *patch.WaterFrequencyDays
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if err := s.r.Save(ctx, p); err != nil {
		return nil, s.fail("update plant", "plant", id, err)
	}
	s.log.Info("plant updated", zap.String("plant_id", id))
	return p, nil
}

func (s *plantSvc) RemovePlant(ctx context.Context, id string) (*entities.Plant, error) {
	defer s.locks.Lock(id)()
	var removed *entities.Plant
	err := s.r.WithTx(ctx, func(tx repo.PlantRepository) error {
		p, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteWaterings(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteIssues(ctx, id); err != nil {
			return err
		}
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		removed = p
		return nil
	})
	if err != nil {
		return nil, s.fail("remove plant", "plant", id, err)
	}
	metrics.PlantsTotal.WithLabelValues("removed").Inc()
	s.log.Info("plant removed", zap.String("plant_id", id), zap.String("name", removed.Name))
	return removed, nil
}

func (s *plantSvc) RecordWatering(ctx context.Context, plantID, notes string) (*entities.WateringEvent, error) {
	defer s.locks.Lock(plantID)()
	ev := &entities.WateringEvent{
		ID:        uuid.NewString(),
		PlantID:   plantID,
		WateredAt: s.clock(),
		Notes:     strings.TrimSpace(notes),
	}
	err := s.r.WithTx(ctx, func(tx repo.PlantRepository) error {
		if _, err := tx.FindByID(ctx, plantID); err != nil {
			return err
		}
		if err := tx.CreateWatering(ctx, ev); err != nil {
			return err
		}
		return tx.SetLastWatered(ctx, plantID, ev.WateredAt)
	})
	if err != nil {
		return nil, s.fail("record watering", "plant", plantID, err)
	}
	metrics.WateringsTotal.Inc()
	s.log.Info("watering recorded", zap.String("plant_id", plantID), zap.Time("watered_at", ev.WateredAt))
	return ev, nil
}

// GetWateringHistory returns an empty slice for unknown plants.
func (s *plantSvc) GetWateringHistory(ctx context.Context, plantID string, limit int) ([]entities.WateringEvent, error) {
	if limit <= 0 {
		limit = service.DefaultHistoryLimit
	}
	defer s.locks.RLock(plantID)()
	out, err := s.r.ListWaterings(ctx, plantID, limit)
	if err != nil {
		return nil, s.fail("watering history", "plant", plantID, err)
	}
	return out, nil
}

func (s *plantSvc) RecordHealthIssue(ctx context.Context, plantID, description, diagnosis string) (*entities.HealthIssue, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.Validation("description", "must not be empty")
	}
	defer s.locks.Lock(plantID)()
	issue := &entities.HealthIssue{
		ID:          uuid.NewString(),
		PlantID:     plantID,
		Description: description,
		Diagnosis:   strings.TrimSpace(diagnosis),
		CreatedAt:   s.clock(),
	}
	err := s.r.WithTx(ctx, func(tx repo.PlantRepository) error {
		if _, err := tx.FindByID(ctx, plantID); err != nil {
			return err
		}
		return tx.CreateIssue(ctx, issue)
	})
	if err != nil {
		return nil, s.fail("record health issue", "plant", plantID, err)
	}
	metrics.HealthIssuesTotal.WithLabelValues("recorded").Inc()
	s.log.Info("health issue recorded", zap.String("plant_id", plantID), zap.String("issue_id", issue.ID))
	return issue, nil
}

func (s *plantSvc) ListHealthIssues(ctx context.Context, plantID string, includeResolved bool) ([]entities.HealthIssue, error) {
	defer s.locks.RLock(plantID)()
	out, err := s.r.ListIssues(ctx, plantID, includeResolved)
	if err != nil {
		return nil, s.fail("list health issues", "plant", plantID, err)
	}
	return out, nil
}

// mutateIssue loads an issue, takes its plant's write lock and applies fn.
// fn returns false when nothing needs saving.
func (s *plantSvc) mutateIssue(ctx context.Context, op, issueID string, fn func(*entities.HealthIssue) bool) (*entities.HealthIssue, error) {
	issue, err := s.r.FindIssue(ctx, issueID)
	if err != nil {
		return nil, s.fail(op, "health issue", issueID, err)
	}
	defer s.locks.Lock(issue.PlantID)()
	// reload under the lock; the plant may have been removed meanwhile
	issue, err = s.r.FindIssue(ctx, issueID)
	if err != nil {
		return nil, s.fail(op, "health issue", issueID, err)
	}
	if !fn(issue) {
		return issue, nil
	}
	if err := s.r.SaveIssue(ctx, issue); err != nil {
		return nil, s.fail(op, "health issue", issueID, err)
	}
	return issue, nil
}

func (s *plantSvc) ResolveHealthIssue(ctx context.Context, issueID string) (*entities.HealthIssue, error) {
	issue, err := s.mutateIssue(ctx, "resolve health issue", issueID, func(i *entities.HealthIssue) bool {
		if i.Resolved {
			return false
		}
		at := s.clock()
		i.Resolved = true
		i.ResolvedAt = &at
		return true
	})
	if err != nil {
		return nil, err
	}
	metrics.HealthIssuesTotal.WithLabelValues("resolved").Inc()
	s.log.Info("health issue resolved", zap.String("issue_id", issueID))
	return issue, nil
}

func (s *plantSvc) SetDiagnosis(ctx context.Context, issueID, diagnosis string) (*entities.HealthIssue, error) {
	diagnosis = strings.TrimSpace(diagnosis)
	if diagnosis == "" {
		return nil, apperr.Validation("diagnosis", "must not be empty")
	}
	issue, err := s.mutateIssue(ctx, "set diagnosis", issueID, func(i *entities.HealthIssue) bool {
		i.Diagnosis = diagnosis
		return true
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("diagnosis set", zap.String("issue_id", issueID))
	return issue, nil
}

func (s *plantSvc) ListPlantsDueForWatering(ctx context.Context) ([]entities.Plant, error) {
	ps, err := s.r.List(ctx)
	if err != nil {
		return nil, s.fail("plants due", "plant", "", err)
	}
	now := s.clock()
	due := make([]entities.Plant, 0, len(ps))
	for i := range ps {
		if ps[i].IsDue(now) {
			due = append(due, ps[i])
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].LastWatered, due[j].LastWatered
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return true
		case b == nil:
			return false
		}
		return a.Before(*b)
	})
	return due, nil
}
