// File: /models/badge.go
package models

import (
	"time"
)

type BadgeType string

const (
	BadgeParticipation BadgeType = "participation"
	BadgeOrganization  BadgeType = "organization"
	BadgeAchievement   BadgeType = "achievement"
	BadgeSpecial       BadgeType = "special"
)

// UserBadge is a badge definition with the criteria for earning it.
type UserBadge struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description" gorm:"not null;type:text"`
	Icon        string    `json:"icon" gorm:"not null;size:50"`
	Color       string    `json:"color" gorm:"size:7;default:'#FFD700'"`
	BadgeType   BadgeType `json:"badge_type" gorm:"not null;size:20"`

	// Earning criteria; zero means not required.
	MinEvents        int    `json:"min_events" gorm:"default:0"`
	MinHours         int    `json:"min_hours" gorm:"default:0"`
	SpecialCondition string `json:"special_condition" gorm:"type:text"`
}

// UserBadgeEarned records a badge granted to a user, at most once per badge.
type UserBadgeEarned struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_user_badges_user_badge"`
	BadgeID  uint      `json:"badge_id" gorm:"not null;uniqueIndex:uk_user_badges_user_badge"`
	EarnedAt time.Time `json:"earned_at" gorm:"autoCreateTime"`

	User  User      `json:"-" gorm:"foreignKey:UserID"`
	Badge UserBadge `json:"badge" gorm:"foreignKey:BadgeID"`
}
