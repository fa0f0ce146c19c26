package entities

import "time"

type Plant struct {
	ID                 string     `gorm:"primaryKey" json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Location           string     `json:"location,omitempty"`
	Light              string     `json:"light,omitempty"`
	WaterFrequencyDays int        `json:"water_frequency_days"`
	Notes              string     `json:"notes,omitempty"`
	LastWatered        *time.Time `json:"last_watered"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`

	Waterings []WateringEvent `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE" json:"-"`
	Issues    []HealthIssue   `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE" json:"-"`
}

// WateringEvent is append-only.
type WateringEvent struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	PlantID   string    `gorm:"index;not null" json:"plant_id"`
	WateredAt time.Time `gorm:"index" json:"watered_at"`
	Notes     string    `json:"notes,omitempty"`
}

func (WateringEvent) TableName() string { return "watering_history" }

type HealthIssue struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	PlantID     string     `gorm:"index;not null" json:"plant_id"`
	Description string     `json:"description"`
	Diagnosis   string     `json:"diagnosis,omitempty"`
	Resolved    bool       `gorm:"default:false" json:"resolved"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// IsDue reports whether the plant needs water at now. Elapsed time is
// truncated to whole days.
func (p *Plant) IsDue(now time.Time) bool {
	if p.LastWatered == nil {
		return true
	}
	days := int(now.Sub(*p.LastWatered) / (24 * time.Hour))
	return days >= p.WaterFrequencyDays
}
