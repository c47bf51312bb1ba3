package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"mutiroes-api/models"
)

// Ledger is the view of participation storage the admission rules run
// against. Inside WithEventLock the same interface is served by a
// transaction-bound repository, so the capacity check and the row write
// happen under one lock.
type Ledger interface {
	EventByID(id string) (*models.Event, error)
	Participation(eventID, userID string) (*models.EventParticipant, error)
	ConfirmedCount(eventID string) (int64, error)
	CreateParticipation(p *models.EventParticipant) error
	SaveParticipation(p *models.EventParticipant) error
}

// ParticipationStore is the full ledger contract consumed by the admission
// service.
type ParticipationStore interface {
	Ledger
	WithEventLock(eventID string, fn func(Ledger) error) error
}

// StatsSource provides the per-event counts the statistics projector reads.
// Everything is computed fresh from the ledger rows.
type StatsSource interface {
	EventByID(id string) (*models.Event, error)
	CountByStatus(eventID string) (map[models.ParticipationStatus]int64, error)
	CheckedInCount(eventID string) (int64, error)
	ResourceStats(eventID string) (total, fulfilled int64, err error)
}

type ParticipationRepository struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// WithEventLock runs fn inside a transaction that holds a FOR UPDATE lock on
// the event row. Concurrent admissions for the same event serialize here, so
// two joins racing for the last spot cannot both pass the capacity check.
func (r *ParticipationRepository) WithEventLock(eventID string, fn func(Ledger) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", eventID).Error; err != nil {
			return err
		}
		return fn(&ParticipationRepository{db: tx})
	})
}

func (r *ParticipationRepository) EventByID(id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Participation returns the (event, user) row regardless of its status, or
// gorm.ErrRecordNotFound.
func (r *ParticipationRepository) Participation(eventID, userID string) (*models.EventParticipant, error) {
	var participant models.EventParticipant
	err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *ParticipationRepository) ConfirmedCount(eventID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventParticipant{}).
		Where("event_id = ? AND status = ?", eventID, models.ParticipationConfirmed).
		Count(&count).Error
	return count, err
}

func (r *ParticipationRepository) CreateParticipation(p *models.EventParticipant) error {
	return r.db.Create(p).Error
}

func (r *ParticipationRepository) SaveParticipation(p *models.EventParticipant) error {
	return r.db.Save(p).Error
}

func (r *ParticipationRepository) ByID(eventID string, id uint) (*models.EventParticipant, error) {
	var participant models.EventParticipant
	err := r.db.Preload("User").Where("event_id = ? AND id = ?", eventID, id).First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *ParticipationRepository) ListByEvent(eventID string) ([]models.EventParticipant, error) {
	var participants []models.EventParticipant
	err := r.db.Preload("User").
		Where("event_id = ?", eventID).
		Order("registered_at DESC").
		Find(&participants).Error
	return participants, err
}

// ListConfirmed returns confirmed participants with their users loaded, for
// reminder delivery.
func (r *ParticipationRepository) ListConfirmed(eventID string) ([]models.EventParticipant, error) {
	var participants []models.EventParticipant
	err := r.db.Preload("User").
		Where("event_id = ? AND status = ?", eventID, models.ParticipationConfirmed).
		Find(&participants).Error
	return participants, err
}

func (r *ParticipationRepository) DeleteParticipation(p *models.EventParticipant) error {
	return r.db.Delete(p).Error
}

func (r *ParticipationRepository) CountByStatus(eventID string) (map[models.ParticipationStatus]int64, error) {
	type row struct {
		Status models.ParticipationStatus
		Total  int64
	}
	var rows []row
	err := r.db.Model(&models.EventParticipant{}).
		Select("status, COUNT(*) AS total").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ParticipationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

func (r *ParticipationRepository) CheckedInCount(eventID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventParticipant{}).
		Where("event_id = ? AND checked_in = ?", eventID, true).
		Count(&count).Error
	return count, err
}

func (r *ParticipationRepository) ResourceStats(eventID string) (total, fulfilled int64, err error) {
	if err = r.db.Model(&models.EventResource{}).
		Where("event_id = ?", eventID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.EventResource{}).
		Where("event_id = ? AND quantity_provided >= quantity_needed", eventID).
		Count(&fulfilled).Error
	return total, fulfilled, err
}

// AttendedEvents returns the events a user was confirmed for and checked in
// at. Badge eligibility is computed from this, not from stored counters.
func (r *ParticipationRepository) AttendedEvents(userID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Joins("JOIN event_participants ON event_participants.event_id = events.id").
		Where("event_participants.user_id = ? AND event_participants.status = ? AND event_participants.checked_in = ?",
			userID, models.ParticipationConfirmed, true).
		Find(&events).Error
	return events, err
}
