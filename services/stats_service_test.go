package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"
	"mutiroes-api/models"
)

type fakeStatsSource struct {
	event     *models.Event
	counts    map[models.ParticipationStatus]int64
	checkedIn int64
	resources int64
	fulfilled int64
}

func (s *fakeStatsSource) EventByID(id string) (*models.Event, error) {
	if s.event == nil || s.event.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.event, nil
}

func (s *fakeStatsSource) CountByStatus(string) (map[models.ParticipationStatus]int64, error) {
	return s.counts, nil
}

func (s *fakeStatsSource) CheckedInCount(string) (int64, error) {
	return s.checkedIn, nil
}

func (s *fakeStatsSource) ResourceStats(string) (total, fulfilled int64, err error) {
	return s.resources, s.fulfilled, nil
}

func TestEventStats(t *testing.T) {
	source := &fakeStatsSource{
		event: &models.Event{ID: "e1", MaxParticipants: 20},
		counts: map[models.ParticipationStatus]int64{
			models.ParticipationConfirmed: 12,
			models.ParticipationPending:   3,
			models.ParticipationCancelled: 2,
			models.ParticipationRejected:  1,
		},
		checkedIn: 7,
		resources: 5,
		fulfilled: 2,
	}
	svc := NewStatsService(source)

	stats, err := svc.EventStats("e1")
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}

	if stats.TotalParticipants != 12 {
		t.Errorf("total = %d, want 12 (confirmed only)", stats.TotalParticipants)
	}
	if stats.ConfirmedParticipants != 12 || stats.PendingParticipants != 3 ||
		stats.CancelledParticipants != 2 || stats.RejectedParticipants != 1 {
		t.Errorf("status counts wrong: %+v", stats)
	}
	if stats.AvailableSpots != 8 {
		t.Errorf("available = %d, want 8", stats.AvailableSpots)
	}
	if stats.CheckedInParticipants != 7 {
		t.Errorf("checked in = %d, want 7", stats.CheckedInParticipants)
	}
	if stats.ResourcesCount != 5 || stats.FullyProvidedResources != 2 {
		t.Errorf("resource counts wrong: %+v", stats)
	}
}

func TestEventStatsAvailableNeverNegative(t *testing.T) {
	source := &fakeStatsSource{
		event: &models.Event{ID: "e1", MaxParticipants: 5},
		counts: map[models.ParticipationStatus]int64{
			// Capacity was lowered after these rows confirmed.
			models.ParticipationConfirmed: 8,
		},
	}
	svc := NewStatsService(source)

	stats, err := svc.EventStats("e1")
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}
	if stats.AvailableSpots != 0 {
		t.Errorf("available = %d, want 0", stats.AvailableSpots)
	}
}

func TestEventStatsUnknownEvent(t *testing.T) {
	svc := NewStatsService(&fakeStatsSource{})

	if _, err := svc.EventStats("missing"); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestEventStatsEmptyEvent(t *testing.T) {
	source := &fakeStatsSource{
		event:  &models.Event{ID: "e1", MaxParticipants: 10},
		counts: map[models.ParticipationStatus]int64{},
	}
	svc := NewStatsService(source)

	stats, err := svc.EventStats("e1")
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}
	if stats.TotalParticipants != 0 || stats.AvailableSpots != 10 {
		t.Errorf("stats = %+v, want zero participants and full availability", stats)
	}
}
