package repositoryImp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"plantcare/entities"
	"plantcare/pkg/schedule/repository"
)

type reminderRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ReminderRepository { return &reminderRepo{db} }

func (r *reminderRepo) WithTx(ctx context.Context, fn func(tx repository.ReminderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&reminderRepo{tx})
	})
}

func (r *reminderRepo) Create(ctx context.Context, rem *entities.Reminder) error {
	return r.db.WithContext(ctx).Create(rem).Error
}

func (r *reminderRepo) FindByID(ctx context.Context, id string) (*entities.Reminder, error) {
	var rem entities.Reminder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

func (r *reminderRepo) List(ctx context.Context) ([]entities.Reminder, error) {
	var out []entities.Reminder
	if err := r.db.WithContext(ctx).Order("next_fire_at ASC, created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reminderRepo) Due(ctx context.Context, asOf time.Time) ([]entities.Reminder, error) {
	var out []entities.Reminder
	q := r.db.WithContext(ctx).Where("next_fire_at <= ?", asOf.UTC()).Order("next_fire_at ASC, created_at ASC, id ASC")
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reminderRepo) SetNextFire(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&entities.Reminder{}).Where("id = ?", id).Update("next_fire_at", at.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reminderRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Reminder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
