// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:191"`
	Name     string `json:"name" gorm:"not null;size:255"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string `json:"-" gorm:"not null;size:255"`
	Phone    string `json:"phone" gorm:"size:20"`
	Bio      string `json:"bio" gorm:"size:500"`
	City     string `json:"city" gorm:"size:100"`
	State    string `json:"state" gorm:"size:2"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	OrganizedEvents []Event            `json:"organized_events,omitempty" gorm:"foreignKey:OrganizerID"`
	Participations  []EventParticipant `json:"-" gorm:"foreignKey:UserID"`
	EarnedBadges    []UserBadgeEarned  `json:"-" gorm:"foreignKey:UserID"`
}
