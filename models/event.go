// File: /models/event.go
package models

import (
	"errors"
	"time"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// EventCategory groups events by the kind of work (cleanup, planting, monitoring, ...)
type EventCategory struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:100"`
	Description string `json:"description" gorm:"type:text"`
	Icon        string `json:"icon" gorm:"size:50"`
	Color       string `json:"color" gorm:"size:7;default:'#007AFF'"`
}

type Event struct {
	ID          string `json:"id" gorm:"primaryKey;size:191"`
	Title       string `json:"title" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"not null;type:text"`
	CategoryID  uint   `json:"category_id" gorm:"not null"`
	OrganizerID string `json:"organizer_id" gorm:"not null;size:191"`

	// Location
	Address   string  `json:"address" gorm:"not null;size:300"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`
	City      string  `json:"city" gorm:"not null;size:100"`
	State     string  `json:"state" gorm:"not null;size:2"`

	// Schedule
	StartDate            time.Time `json:"start_date" gorm:"not null"`
	EndDate              time.Time `json:"end_date" gorm:"not null"`
	RegistrationDeadline time.Time `json:"registration_deadline" gorm:"not null"`

	// Capacity and requirements
	MaxParticipants int  `json:"max_participants" gorm:"not null"`
	MinAge          int  `json:"min_age" gorm:"default:16"`
	MaxAge          *int `json:"max_age"`

	Status           EventStatus `json:"status" gorm:"not null;size:20;default:'draft'"`
	IsPublic         bool        `json:"is_public" gorm:"default:true"`
	RequiresApproval bool        `json:"requires_approval" gorm:"default:false"`

	RequiredTools string `json:"required_tools" gorm:"type:text"`
	ProvidedTools string `json:"provided_tools" gorm:"type:text"`
	WhatToBring   string `json:"what_to_bring" gorm:"type:text"`

	ReminderSent bool `json:"-" gorm:"default:false"`

	// Derived from the participation ledger on read, never persisted.
	ParticipantsCount int `json:"participants_count" gorm:"-"`
	AvailableSpots    int `json:"available_spots" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Category     EventCategory      `json:"category" gorm:"foreignKey:CategoryID"`
	Organizer    User               `json:"organizer" gorm:"foreignKey:OrganizerID"`
	Participants []EventParticipant `json:"participants,omitempty" gorm:"foreignKey:EventID"`
	Resources    []EventResource    `json:"resources,omitempty" gorm:"foreignKey:EventID"`
}

// IsActive reports whether the event is published and has not started yet.
func (e *Event) IsActive(now time.Time) bool {
	return e.Status == EventStatusPublished && e.StartDate.After(now)
}

// IsRegistrationOpen reports whether new registrations are still accepted.
func (e *Event) IsRegistrationOpen(now time.Time) bool {
	return e.IsActive(now) && e.RegistrationDeadline.After(now)
}

var (
	ErrStartAfterEnd      = errors.New("start date must be before end date")
	ErrDeadlineAfterStart = errors.New("registration deadline must be before start date")
	ErrInvalidAgeRange    = errors.New("minimum age must be less than maximum age")
)

// ValidateSchedule enforces the date ordering and age range rules.
func (e *Event) ValidateSchedule() error {
	if !e.StartDate.Before(e.EndDate) {
		return ErrStartAfterEnd
	}
	if !e.RegistrationDeadline.Before(e.StartDate) {
		return ErrDeadlineAfterStart
	}
	if e.MaxAge != nil && e.MinAge >= *e.MaxAge {
		return ErrInvalidAgeRange
	}
	return nil
}

type ResourceType string

const (
	ResourceTool      ResourceType = "tool"
	ResourceMaterial  ResourceType = "material"
	ResourceEquipment ResourceType = "equipment"
	ResourceOther     ResourceType = "other"
)

// EventResource tracks material needs for an event (shovels, gloves, seedlings, ...)
type EventResource struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	EventID          string       `json:"event_id" gorm:"not null;size:191"`
	Name             string       `json:"name" gorm:"not null;size:100"`
	Description      string       `json:"description" gorm:"type:text"`
	ResourceType     ResourceType `json:"resource_type" gorm:"not null;size:20"`
	QuantityNeeded   int          `json:"quantity_needed" gorm:"not null"`
	QuantityProvided int          `json:"quantity_provided" gorm:"default:0"`
	Unit             string       `json:"unit" gorm:"size:20;default:'unit'"`

	FullyProvided bool `json:"is_fully_provided" gorm:"-"`

	Event Event `json:"-" gorm:"foreignKey:EventID"`
}

func (r *EventResource) IsFullyProvided() bool {
	return r.QuantityProvided >= r.QuantityNeeded
}
