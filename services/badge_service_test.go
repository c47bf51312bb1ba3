package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
	"mutiroes-api/models"
)

type fakeBadgeStore struct {
	badges  map[uint]*models.UserBadge
	earned  map[string]bool
	granted []*models.UserBadgeEarned
}

func (s *fakeBadgeStore) BadgeByID(id uint) (*models.UserBadge, error) {
	badge, ok := s.badges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return badge, nil
}

func (s *fakeBadgeStore) HasEarned(userID string, badgeID uint) (bool, error) {
	return s.earned[userID], nil
}

func (s *fakeBadgeStore) Grant(earned *models.UserBadgeEarned) error {
	s.granted = append(s.granted, earned)
	return nil
}

type fakeAttendance struct {
	events []models.Event
}

func (s *fakeAttendance) AttendedEvents(string) ([]models.Event, error) {
	return s.events, nil
}

func attendedEvent(hours int) models.Event {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return models.Event{
		StartDate: start,
		EndDate:   start.Add(time.Duration(hours) * time.Hour),
	}
}

func TestEarnBadge(t *testing.T) {
	store := &fakeBadgeStore{
		badges: map[uint]*models.UserBadge{
			1: {ID: 1, Name: "Primeiro Mutirão", MinEvents: 1},
		},
		earned: map[string]bool{},
	}
	attendance := &fakeAttendance{events: []models.Event{attendedEvent(4)}}
	svc := NewBadgeService(store, attendance)

	grant, err := svc.Earn("u1", 1)
	if err != nil {
		t.Fatalf("Earn: %v", err)
	}
	if grant.BadgeID != 1 || grant.UserID != "u1" {
		t.Errorf("grant = %+v", grant)
	}
	if grant.Badge.Name != "Primeiro Mutirão" {
		t.Errorf("badge not attached to grant")
	}
	if len(store.granted) != 1 {
		t.Errorf("granted %d rows, want 1", len(store.granted))
	}
}

func TestEarnBadgeNotFound(t *testing.T) {
	svc := NewBadgeService(&fakeBadgeStore{badges: map[uint]*models.UserBadge{}}, &fakeAttendance{})

	if _, err := svc.Earn("u1", 99); !errors.Is(err, ErrBadgeNotFound) {
		t.Fatalf("err = %v, want ErrBadgeNotFound", err)
	}
}

func TestEarnBadgeTwice(t *testing.T) {
	store := &fakeBadgeStore{
		badges: map[uint]*models.UserBadge{1: {ID: 1, MinEvents: 1}},
		earned: map[string]bool{"u1": true},
	}
	svc := NewBadgeService(store, &fakeAttendance{events: []models.Event{attendedEvent(4)}})

	if _, err := svc.Earn("u1", 1); !errors.Is(err, ErrBadgeAlreadyEarned) {
		t.Fatalf("err = %v, want ErrBadgeAlreadyEarned", err)
	}
}

func TestEarnBadgeMinEventsNotMet(t *testing.T) {
	store := &fakeBadgeStore{
		badges: map[uint]*models.UserBadge{1: {ID: 1, MinEvents: 5}},
		earned: map[string]bool{},
	}
	svc := NewBadgeService(store, &fakeAttendance{events: []models.Event{attendedEvent(4)}})

	if _, err := svc.Earn("u1", 1); !errors.Is(err, ErrBadgeCriteriaNotMet) {
		t.Fatalf("err = %v, want ErrBadgeCriteriaNotMet", err)
	}
}

func TestEarnBadgeMinHours(t *testing.T) {
	store := &fakeBadgeStore{
		badges: map[uint]*models.UserBadge{1: {ID: 1, MinHours: 10}},
		earned: map[string]bool{},
	}

	svc := NewBadgeService(store, &fakeAttendance{events: []models.Event{attendedEvent(4), attendedEvent(4)}})
	if _, err := svc.Earn("u1", 1); !errors.Is(err, ErrBadgeCriteriaNotMet) {
		t.Fatalf("8 hours: err = %v, want ErrBadgeCriteriaNotMet", err)
	}

	svc = NewBadgeService(store, &fakeAttendance{events: []models.Event{attendedEvent(4), attendedEvent(4), attendedEvent(4)}})
	if _, err := svc.Earn("u1", 1); err != nil {
		t.Fatalf("12 hours: %v", err)
	}
}
