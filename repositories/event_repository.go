package repositories

import (
	"time"

	"gorm.io/gorm"
	"mutiroes-api/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventFilter narrows event listings. Zero values mean "no filter".
type EventFilter struct {
	CategoryID uint
	City       string
	State      string
	Status     models.EventStatus
	Search     string
	PublicOnly bool
}

func (r *EventRepository) ByID(id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ByIDFull loads the event with its category, organizer, resources and
// participant list for the detail view.
func (r *EventRepository) ByIDFull(id string) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Category").Preload("Organizer").
		Preload("Resources").Preload("Participants").Preload("Participants.User").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) List(filter EventFilter, page, limit int) ([]models.Event, int64, error) {
	query := r.db.Model(&models.Event{}).Preload("Category").Preload("Organizer")

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.City != "" {
		query = query.Where("city LIKE ?", "%"+filter.City+"%")
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		// Default listing only shows published events.
		query = query.Where("status = ?", models.EventStatusPublished)
	}
	if filter.PublicOnly {
		query = query.Where("is_public = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR address LIKE ? OR city LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *EventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *EventRepository) Updates(event *models.Event, updates map[string]interface{}) error {
	return r.db.Model(event).Updates(updates).Error
}

// Delete removes an event and its dependent rows in one transaction.
func (r *EventRepository) Delete(eventID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventResource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventReport{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", eventID).Error
	})
}

func (r *EventRepository) Organized(userID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Category").
		Where("organizer_id = ?", userID).
		Order("start_date DESC").
		Find(&events).Error
	return events, err
}

// Participating returns events where the user holds a live (pending or
// confirmed) participation.
func (r *EventRepository) Participating(userID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Category").
		Joins("JOIN event_participants ON event_participants.event_id = events.id").
		Where("event_participants.user_id = ? AND event_participants.status IN ?",
			userID, []models.ParticipationStatus{models.ParticipationConfirmed, models.ParticipationPending}).
		Order("events.start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) UpcomingPublished(now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Category").Preload("Organizer").
		Where("status = ? AND start_date > ?", models.EventStatusPublished, now).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

// CompleteExpired flips published events whose end date has passed to
// completed and returns how many rows changed.
func (r *EventRepository) CompleteExpired(now time.Time) (int64, error) {
	result := r.db.Model(&models.Event{}).
		Where("status = ? AND end_date < ?", models.EventStatusPublished, now).
		Update("status", models.EventStatusCompleted)
	return result.RowsAffected, result.Error
}

// DueForReminder returns published events starting within the window whose
// participants have not been reminded yet.
func (r *EventRepository) DueForReminder(now time.Time, window time.Duration) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("status = ? AND reminder_sent = ? AND start_date BETWEEN ? AND ?",
			models.EventStatusPublished, false, now, now.Add(window)).
		Find(&events).Error
	return events, err
}

func (r *EventRepository) MarkReminderSent(eventID string) error {
	return r.db.Model(&models.Event{}).Where("id = ?", eventID).Update("reminder_sent", true).Error
}

func (r *EventRepository) Categories() ([]models.EventCategory, error) {
	var categories []models.EventCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *EventRepository) Resources(eventID string) ([]models.EventResource, error) {
	var resources []models.EventResource
	err := r.db.Where("event_id = ?", eventID).
		Order("resource_type ASC, name ASC").
		Find(&resources).Error
	return resources, err
}

func (r *EventRepository) CreateResource(resource *models.EventResource) error {
	return r.db.Create(resource).Error
}
