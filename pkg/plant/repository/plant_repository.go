package repository

import (
	"context"
	"errors"
	"time"

	"plantcare/entities"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

type PlantRepository interface {
	// WithTx runs fn against a repository bound to a single transaction.
	// Returning an error from fn rolls every write back.
	WithTx(ctx context.Context, fn func(tx PlantRepository) error) error

	Create(ctx context.Context, p *entities.Plant) error
	FindByID(ctx context.Context, id string) (*entities.Plant, error)
	List(ctx context.Context) ([]entities.Plant, error)
	Save(ctx context.Context, p *entities.Plant) error
	Delete(ctx context.Context, id string) error
	SetLastWatered(ctx context.Context, id string, at time.Time) error

	CreateWatering(ctx context.Context, e *entities.WateringEvent) error
	ListWaterings(ctx context.Context, plantID string, limit int) ([]entities.WateringEvent, error)
	DeleteWaterings(ctx context.Context, plantID string) error

	CreateIssue(ctx context.Context, i *entities.HealthIssue) error
	FindIssue(ctx context.Context, id string) (*entities.HealthIssue, error)
	SaveIssue(ctx context.Context, i *entities.HealthIssue) error
	ListIssues(ctx context.Context, plantID string, includeResolved bool) ([]entities.HealthIssue, error)
	DeleteIssues(ctx context.Context, plantID string) error
}
