package entities

import "time"

const (
	TriggerAt    = "at"
	TriggerAfter = "after"
	TriggerCron  = "cron"
)

type Reminder struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	PlantID        string    `gorm:"index" json:"plant_id,omitempty"`
	TriggerKind    string    `json:"trigger_kind"`    // at|after|cron
	TriggerPayload string    `json:"trigger_payload"` // RFC3339 instant, Go duration, or cron expression
	Description    string    `json:"description"`
	NextFireAt     time.Time `gorm:"index" json:"next_fire_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *Reminder) IsRecurring() bool { return r.TriggerKind == TriggerCron }

// TranscriptEntry is one line appended to the user's conversation log.
type TranscriptEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReminderID string    `gorm:"index" json:"reminder_id"`
	PlantID    string    `json:"plant_id,omitempty"`
	Text       string    `json:"text"`
	FiredAt    time.Time `json:"fired_at"`
	CreatedAt  time.Time `json:"created_at"`
}
