package repositories

import (
	"errors"

	"gorm.io/gorm"
	"mutiroes-api/models"
)

// BadgeStore is the storage contract the badge eligibility evaluator needs.
type BadgeStore interface {
	BadgeByID(id uint) (*models.UserBadge, error)
	HasEarned(userID string, badgeID uint) (bool, error)
	Grant(earned *models.UserBadgeEarned) error
}

// AttendanceSource supplies the ledger-derived attendance history badge
// criteria are checked against.
type AttendanceSource interface {
	AttendedEvents(userID string) ([]models.Event, error)
}

type BadgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) ListBadges() ([]models.UserBadge, error) {
	var badges []models.UserBadge
	err := r.db.Order("badge_type ASC, min_events ASC").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) BadgeByID(id uint) (*models.UserBadge, error) {
	var badge models.UserBadge
	if err := r.db.First(&badge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *BadgeRepository) ListEarned(userID string) ([]models.UserBadgeEarned, error) {
	var earned []models.UserBadgeEarned
	err := r.db.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

func (r *BadgeRepository) HasEarned(userID string, badgeID uint) (bool, error) {
	var earned models.UserBadgeEarned
	err := r.db.Where("user_id = ? AND badge_id = ?", userID, badgeID).First(&earned).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *BadgeRepository) Grant(earned *models.UserBadgeEarned) error {
	return r.db.Create(earned).Error
}
