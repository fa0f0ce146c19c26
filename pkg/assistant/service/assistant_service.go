package service

import (
	"context"
	"time"

	plantsvc "plantcare/pkg/plant/service"
	"plantcare/pkg/schedule/types"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusNotFound Status = "not_found"
	StatusInvalid  Status = "invalid"
)

// Reply is what a chat, REST or CLI caller shows the user. Data carries the
// structured result when Status is ok.
type Reply struct {
	Status Status `json:"status"`
	Text   string `json:"text"`
	Data   any    `json:"data,omitempty"`
}

func (r Reply) OK() bool { return r.Status == StatusOK }

// Facade maps user intents onto the plant store and schedule manager.
// Unknown ids and bad input come back as a Reply; only storage failures are
// returned as errors.
type Facade interface {
	AddPlant(ctx context.Context, in plantsvc.NewPlant) (Reply, error)
	ListPlants(ctx context.Context) (Reply, error)
	GetPlant(ctx context.Context, id string) (Reply, error)
	UpdatePlant(ctx context.Context, id string, patch plantsvc.PlantPatch) (Reply, error)
	RemovePlant(ctx context.Context, id string) (Reply, error)

	RecordWatering(ctx context.Context, plantID, notes string) (Reply, error)
	WateringHistory(ctx context.Context, plantID string, limit int) (Reply, error)
	CheckDue(ctx context.Context) (Reply, error)

	Diagnose(ctx context.Context, plantID, symptoms string) (Reply, error)
	SetDiagnosis(ctx context.Context, issueID, diagnosis string) (Reply, error)
	HealthIssues(ctx context.Context, plantID string, includeResolved bool) (Reply, error)
	ResolveIssue(ctx context.Context, issueID string) (Reply, error)

	ScheduleReminder(ctx context.Context, trigger types.Trigger, plantID, description string) (Reply, error)
	ListReminders(ctx context.Context) (Reply, error)
	CancelReminder(ctx context.Context, id string) (Reply, error)
	SnoozeReminder(ctx context.Context, id string, d time.Duration) (Reply, error)
}
