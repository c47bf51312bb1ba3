// File: /services/admission_service.go
package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"mutiroes-api/models"
	"mutiroes-api/repositories"
)

// Admission rule violations. All of them are caller-correctable and map to
// 4xx responses at the HTTP layer; none is ever retried.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrCapacityExceeded   = errors.New("no available spots for this event")
	ErrRegistrationClosed = errors.New("registration for this event is closed")
	ErrNotRegistered      = errors.New("not registered for this event")
	ErrNotConfirmed       = errors.New("participation has not been confirmed")
	ErrAlreadyCheckedIn   = errors.New("already checked in for this event")
)

// JoinRequest carries the optional participant details captured at
// registration time.
type JoinRequest struct {
	EmergencyContact string
	EmergencyPhone   string
	SpecialNeeds     string
	ExperienceLevel  models.ExperienceLevel
}

// AdmissionService enforces the registration rules: capacity, deadlines,
// approval gating, the one-row-per-(event,user) invariant and the check-in
// lifecycle. Every mutation runs under the store's event lock so a capacity
// check and the write it guards are never separated by a race window.
type AdmissionService struct {
	store repositories.ParticipationStore
	now   func() time.Time
}

func NewAdmissionService(store repositories.ParticipationStore) *AdmissionService {
	return &AdmissionService{store: store, now: time.Now}
}

// Join admits a user into an event. Checks run in order: duplicate
// registration, capacity, registration window. On success the participation
// is created as confirmed, or pending when the event requires approval.
// A previously cancelled row is revived instead of inserting a second one.
func (s *AdmissionService) Join(eventID, userID string, req JoinRequest) (*models.EventParticipant, error) {
	var participant *models.EventParticipant

	err := s.store.WithEventLock(eventID, func(ledger repositories.Ledger) error {
		event, err := ledger.EventByID(eventID)
		if err != nil {
			return err
		}

		existing, err := ledger.Participation(eventID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.Status != models.ParticipationCancelled {
			return ErrAlreadyRegistered
		}

		confirmed, err := ledger.ConfirmedCount(eventID)
		if err != nil {
			return err
		}
		if confirmed >= int64(event.MaxParticipants) {
			return ErrCapacityExceeded
		}

		if !event.IsRegistrationOpen(s.now()) {
			return ErrRegistrationClosed
		}

		status := models.ParticipationConfirmed
		if event.RequiresApproval {
			status = models.ParticipationPending
		}
		level := req.ExperienceLevel
		if level == "" {
			level = models.ExperienceBeginner
		}

		if existing != nil {
			// Revive the cancelled row; the admission checks above have
			// already re-run, and uniqueness is preserved.
			existing.Status = status
			existing.CheckedIn = false
			existing.CheckInTime = nil
			existing.EmergencyContact = req.EmergencyContact
			existing.EmergencyPhone = req.EmergencyPhone
			existing.SpecialNeeds = req.SpecialNeeds
			existing.ExperienceLevel = level
			if err := ledger.SaveParticipation(existing); err != nil {
				return err
			}
			participant = existing
			return nil
		}

		participant = &models.EventParticipant{
			EventID:          eventID,
			UserID:           userID,
			Status:           status,
			EmergencyContact: req.EmergencyContact,
			EmergencyPhone:   req.EmergencyPhone,
			SpecialNeeds:     req.SpecialNeeds,
			ExperienceLevel:  level,
		}
		return ledger.CreateParticipation(participant)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return participant, nil
}

// Leave cancels a live registration. The row is kept (audit trail); only its
// status changes. A row that is already cancelled or rejected is not a live
// registration, so leaving it reports NotRegistered.
func (s *AdmissionService) Leave(eventID, userID string) error {
	err := s.store.WithEventLock(eventID, func(ledger repositories.Ledger) error {
		participant, err := ledger.Participation(eventID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotRegistered
			}
			return err
		}

		switch participant.Status {
		case models.ParticipationCancelled, models.ParticipationRejected:
			return ErrNotRegistered
		}

		participant.Status = models.ParticipationCancelled
		return ledger.SaveParticipation(participant)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	return err
}

// CheckIn marks physical attendance. The participation must be confirmed and
// not checked in yet; the flag and timestamp are written together.
func (s *AdmissionService) CheckIn(eventID, userID string) (*models.EventParticipant, error) {
	var participant *models.EventParticipant

	err := s.store.WithEventLock(eventID, func(ledger repositories.Ledger) error {
		p, err := ledger.Participation(eventID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotRegistered
			}
			return err
		}

		if p.Status != models.ParticipationConfirmed {
			return ErrNotConfirmed
		}
		if p.CheckedIn {
			return ErrAlreadyCheckedIn
		}

		now := s.now()
		p.CheckedIn = true
		p.CheckInTime = &now
		if err := ledger.SaveParticipation(p); err != nil {
			return err
		}
		participant = p
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return participant, nil
}
