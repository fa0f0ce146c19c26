package repositoryImp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"plantcare/entities"
	"plantcare/pkg/plant/repository"
)

type plantRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlantRepository { return &plantRepo{db} }

func (r *plantRepo) WithTx(ctx context.Context, fn func(tx repository.PlantRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&plantRepo{tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}

func (r *plantRepo) Create(ctx context.Context, p *entities.Plant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *plantRepo) FindByID(ctx context.Context, id string) (*entities.Plant, error) {
	var p entities.Plant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *plantRepo) List(ctx context.Context) ([]entities.Plant, error) {
	var ps []entities.Plant
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *plantRepo) Save(ctx context.Context, p *entities.Plant) error {
	return r.db.WithContext(ctx).Omit("Waterings", "Issues").Save(p).Error
}

func (r *plantRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Plant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *plantRepo) SetLastWatered(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&entities.Plant{}).Where("id = ?", id).Update("last_watered", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *plantRepo) CreateWatering(ctx context.Context, e *entities.WateringEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *plantRepo) ListWaterings(ctx context.Context, plantID string, limit int) ([]entities.WateringEvent, error) {
	var out []entities.WateringEvent
	q := r.db.WithContext(ctx).Where("plant_id = ?", plantID).Order("watered_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantRepo) DeleteWaterings(ctx context.Context, plantID string) error {
	return r.db.WithContext(ctx).Where("plant_id = ?", plantID).Delete(&entities.WateringEvent{}).Error
}

func (r *plantRepo) CreateIssue(ctx context.Context, i *entities.HealthIssue) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *plantRepo) FindIssue(ctx context.Context, id string) (*entities.HealthIssue, error) {
	var i entities.HealthIssue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		return nil, notFound(err)
	}
	return &i, nil
}

func (r *plantRepo) SaveIssue(ctx context.Context, i *entities.HealthIssue) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *plantRepo) ListIssues(ctx context.Context, plantID string, includeResolved bool) ([]entities.HealthIssue, error) {
	var out []entities.HealthIssue
	q := r.db.WithContext(ctx).Where("plant_id = ?", plantID)
	if !includeResolved {
		q = q.Where("resolved = ?", false)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantRepo) DeleteIssues(ctx context.Context, plantID string) error {
	return r.db.WithContext(ctx).Where("plant_id = ?", plantID).Delete(&entities.HealthIssue{}).Error
}
