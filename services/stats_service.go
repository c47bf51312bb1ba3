// File: /services/stats_service.go
package services

import (
	"errors"

	"gorm.io/gorm"
	"mutiroes-api/models"
	"mutiroes-api/repositories"
)

// EventStats is the per-event projection other features read. Every field is
// recomputed from the ledger rows on each call; nothing here is cached.
type EventStats struct {
	TotalParticipants      int64 `json:"total_participants"`
	ConfirmedParticipants  int64 `json:"confirmed_participants"`
	PendingParticipants    int64 `json:"pending_participants"`
	CancelledParticipants  int64 `json:"cancelled_participants"`
	RejectedParticipants   int64 `json:"rejected_participants"`
	CheckedInParticipants  int64 `json:"checked_in_participants"`
	AvailableSpots         int64 `json:"available_spots"`
	ResourcesCount         int64 `json:"resources_count"`
	FullyProvidedResources int64 `json:"fully_provided_resources"`
}

type StatsService struct {
	store repositories.StatsSource
}

func NewStatsService(store repositories.StatsSource) *StatsService {
	return &StatsService{store: store}
}

// EventStats projects the counters for one event. Only confirmed rows count
// against capacity, so total_participants tracks confirmed.
func (s *StatsService) EventStats(eventID string) (*EventStats, error) {
	event, err := s.store.EventByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	counts, err := s.store.CountByStatus(eventID)
	if err != nil {
		return nil, err
	}

	checkedIn, err := s.store.CheckedInCount(eventID)
	if err != nil {
		return nil, err
	}

	resources, fulfilled, err := s.store.ResourceStats(eventID)
	if err != nil {
		return nil, err
	}

	confirmed := counts[models.ParticipationConfirmed]
	available := int64(event.MaxParticipants) - confirmed
	if available < 0 {
		available = 0
	}

	return &EventStats{
		TotalParticipants:      confirmed,
		ConfirmedParticipants:  confirmed,
		PendingParticipants:    counts[models.ParticipationPending],
		CancelledParticipants:  counts[models.ParticipationCancelled],
		RejectedParticipants:   counts[models.ParticipationRejected],
		CheckedInParticipants:  checkedIn,
		AvailableSpots:         available,
		ResourcesCount:         resources,
		FullyProvidedResources: fulfilled,
	}, nil
}
