// File: /models/report.go
package models

import (
	"time"
)

// EventReport holds the post-event impact metrics. One report per event;
// later submissions update the existing row.
type EventReport struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	EventID     string `json:"event_id" gorm:"not null;size:191;uniqueIndex"`
	CreatedByID string `json:"created_by" gorm:"not null;size:191"`

	TotalParticipants int     `json:"total_participants" gorm:"not null"`
	TotalHours        float64 `json:"total_hours" gorm:"not null"`

	// Environmental impact; optional depending on the event category.
	TrashCollectedKg     *float64 `json:"trash_collected_kg"`
	TreesPlanted         *int     `json:"trees_planted"`
	AreaCleanedM2        *float64 `json:"area_cleaned_m2"`
	RecyclableMaterialKg *float64 `json:"recyclable_material_kg"`

	Summary      string `json:"summary" gorm:"not null;type:text"`
	Challenges   string `json:"challenges" gorm:"type:text"`
	Achievements string `json:"achievements" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event     Event `json:"-" gorm:"foreignKey:EventID"`
	CreatedBy User  `json:"-" gorm:"foreignKey:CreatedByID"`
}
