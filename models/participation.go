// File: /models/participation.go
package models

import (
	"time"
)

// ParticipationStatus is the lifecycle state of one user's registration for
// one event. pending and confirmed are live states; cancelled and rejected
// are terminal (a cancelled row can only be revived by a fresh join, which
// re-runs admission from scratch).
type ParticipationStatus string

const (
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationConfirmed ParticipationStatus = "confirmed"
	ParticipationCancelled ParticipationStatus = "cancelled"
	ParticipationRejected  ParticipationStatus = "rejected"
)

func (s ParticipationStatus) Valid() bool {
	switch s {
	case ParticipationPending, ParticipationConfirmed, ParticipationCancelled, ParticipationRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status change is a legal lifecycle move.
// pending -> confirmed | rejected, confirmed -> cancelled. Nothing leaves
// cancelled or rejected through this path.
func (s ParticipationStatus) CanTransitionTo(next ParticipationStatus) bool {
	switch s {
	case ParticipationPending:
		return next == ParticipationConfirmed || next == ParticipationRejected
	case ParticipationConfirmed:
		return next == ParticipationCancelled
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// EventParticipant links one user to one event. At most one row exists per
// (event, user) pair; leaving an event flips the status instead of deleting
// the row.
type EventParticipant struct {
	ID      uint                `json:"id" gorm:"primaryKey"`
	EventID string              `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_event_participants_event_user"`
	UserID  string              `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_event_participants_event_user"`
	Status  ParticipationStatus `json:"status" gorm:"not null;size:20;default:'pending'"`

	EmergencyContact string          `json:"emergency_contact" gorm:"size:100"`
	EmergencyPhone   string          `json:"emergency_phone" gorm:"size:20"`
	SpecialNeeds     string          `json:"special_needs" gorm:"type:text"`
	ExperienceLevel  ExperienceLevel `json:"experience_level" gorm:"size:20;default:'beginner'"`

	CheckedIn   bool       `json:"checked_in" gorm:"default:false"`
	CheckInTime *time.Time `json:"check_in_time"`

	RegisteredAt time.Time `json:"registered_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Event Event `json:"-" gorm:"foreignKey:EventID"`
	User  User  `json:"user" gorm:"foreignKey:UserID"`
}
