// File: /services/badge_service.go
package services

import (
	"errors"

	"gorm.io/gorm"
	"mutiroes-api/models"
	"mutiroes-api/repositories"
)

var (
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrBadgeAlreadyEarned  = errors.New("badge already earned")
	ErrBadgeCriteriaNotMet = errors.New("badge criteria not met")
)

// BadgeService grants achievement badges. Eligibility is derived from the
// participation ledger (events the user actually attended), never from
// stored counters.
type BadgeService struct {
	badges     repositories.BadgeStore
	attendance repositories.AttendanceSource
}

func NewBadgeService(badges repositories.BadgeStore, attendance repositories.AttendanceSource) *BadgeService {
	return &BadgeService{badges: badges, attendance: attendance}
}

func (s *BadgeService) Earn(userID string, badgeID uint) (*models.UserBadgeEarned, error) {
	badge, err := s.badges.BadgeByID(badgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadgeNotFound
		}
		return nil, err
	}

	earned, err := s.badges.HasEarned(userID, badgeID)
	if err != nil {
		return nil, err
	}
	if earned {
		return nil, ErrBadgeAlreadyEarned
	}

	attended, err := s.attendance.AttendedEvents(userID)
	if err != nil {
		return nil, err
	}

	if badge.MinEvents > 0 && len(attended) < badge.MinEvents {
		return nil, ErrBadgeCriteriaNotMet
	}
	if badge.MinHours > 0 && volunteeredHours(attended) < float64(badge.MinHours) {
		return nil, ErrBadgeCriteriaNotMet
	}

	grant := &models.UserBadgeEarned{UserID: userID, BadgeID: badge.ID}
	if err := s.badges.Grant(grant); err != nil {
		return nil, err
	}
	grant.Badge = *badge
	return grant, nil
}

// volunteeredHours sums the scheduled duration of attended events.
func volunteeredHours(events []models.Event) float64 {
	var hours float64
	for _, e := range events {
		hours += e.EndDate.Sub(e.StartDate).Hours()
	}
	return hours
}
