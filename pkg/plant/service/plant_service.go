package service

import (
	"context"

	"plantcare/entities"
)

// DefaultWaterFrequencyDays applies when a new plant carries no frequency.
const DefaultWaterFrequencyDays = 7

// DefaultHistoryLimit applies when GetWateringHistory is called with limit <= 0.
const DefaultHistoryLimit = 10

type NewPlant struct {
	Name               string `json:"name" validate:"required"`
	Type               string `json:"type" validate:"required"`
	Location           string `json:"location"`
	Light              string `json:"light"`
	WaterFrequencyDays *int   `json:"water_frequency_days" validate:"omitempty,gt=0"`
	Notes              string `json:"notes"`
}

// PlantPatch holds the fields to change. Nil fields are left as stored.
type PlantPatch struct {
	Name               *string `json:"name" validate:"omitempty,min=1"`
	Type               *string `json:"type" validate:"omitempty,min=1"`
	Location           *string `json:"location"`
	Light              *string `json:"light"`
	WaterFrequencyDays *int    `json:"water_frequency_days" validate:"omitempty,gt=0"`
	Notes              *string `json:"notes"`
}

// PlantStore is the system of record for plants, their watering history and
// their health issues.
type PlantStore interface {
	AddPlant(ctx context.Context, in NewPlant) (*entities.Plant, error)
	GetPlant(ctx context.Context, id string) (*entities.Plant, error)
	ListPlants(ctx context.Context) ([]entities.Plant, error)
	UpdatePlant(ctx context.Context, id string, patch PlantPatch) (*entities.Plant, error)
	RemovePlant(ctx context.Context, id string) (*entities.Plant, error)

	RecordWatering(ctx context.Context, plantID, notes string) (*entities.WateringEvent, error)
	GetWateringHistory(ctx context.Context, plantID string, limit int) ([]entities.WateringEvent, error)

	RecordHealthIssue(ctx context.Context, plantID, description, diagnosis string) (*entities.HealthIssue, error)
	ListHealthIssues(ctx context.Context, plantID string, includeResolved bool) ([]entities.HealthIssue, error)
	ResolveHealthIssue(ctx context.Context, issueID string) (*entities.HealthIssue, error)
	SetDiagnosis(ctx context.Context, issueID, diagnosis string) (*entities.HealthIssue, error)

	ListPlantsDueForWatering(ctx context.Context) ([]entities.Plant, error)
}
