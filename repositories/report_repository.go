package repositories

import (
	"gorm.io/gorm"
	"mutiroes-api/models"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) ByEventID(eventID string) (*models.EventReport, error) {
	var report models.EventReport
	if err := r.db.Where("event_id = ?", eventID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) Create(report *models.EventReport) error {
	return r.db.Create(report).Error
}

func (r *ReportRepository) Save(report *models.EventReport) error {
	return r.db.Save(report).Error
}
