// File: /controllers/report_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"mutiroes-api/models"
	"mutiroes-api/repositories"
)

type ReportController struct {
	events         *repositories.EventRepository
	participations *repositories.ParticipationRepository
	reports        *repositories.ReportRepository
}

func NewReportController(events *repositories.EventRepository,
	participations *repositories.ParticipationRepository,
	reports *repositories.ReportRepository) *ReportController {
	return &ReportController{
		events:         events,
		participations: participations,
		reports:        reports,
	}
}

type reportRequest struct {
	TotalHours           float64  `json:"total_hours" binding:"min=0"`
	TrashCollectedKg     *float64 `json:"trash_collected_kg"`
	TreesPlanted         *int     `json:"trees_planted"`
	AreaCleanedM2        *float64 `json:"area_cleaned_m2"`
	RecyclableMaterialKg *float64 `json:"recyclable_material_kg"`
	Summary              string   `json:"summary" binding:"required"`
	Challenges           string   `json:"challenges"`
	Achievements         string   `json:"achievements"`
}

func (rc *ReportController) GetReport(c *gin.Context) {
	eventID := c.Param("id")

	if _, err := rc.events.ByID(eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	report, err := rc.reports.ByEventID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No report for this event yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (rc *ReportController) CreateReport(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	event, err := rc.events.ByID(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if event.OrganizerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can create the report"})
		return
	}

	if _, err := rc.reports.ByEventID(eventID); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This event already has a report"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkedIn, err := rc.participations.CheckedInCount(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	report := models.EventReport{
		EventID:              eventID,
		CreatedByID:          userID,
		TotalParticipants:    int(checkedIn),
		TotalHours:           req.TotalHours,
		TrashCollectedKg:     req.TrashCollectedKg,
		TreesPlanted:         req.TreesPlanted,
		AreaCleanedM2:        req.AreaCleanedM2,
		RecyclableMaterialKg: req.RecyclableMaterialKg,
		Summary:              req.Summary,
		Challenges:           req.Challenges,
		Achievements:         req.Achievements,
	}

	if err := rc.reports.Create(&report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (rc *ReportController) UpdateReport(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	event, err := rc.events.ByID(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	report, err := rc.reports.ByEventID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No report for this event yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		return
	}

	if event.OrganizerID != userID && report.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can update the report"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report.TotalHours = req.TotalHours
	report.TrashCollectedKg = req.TrashCollectedKg
	report.TreesPlanted = req.TreesPlanted
	report.AreaCleanedM2 = req.AreaCleanedM2
	report.RecyclableMaterialKg = req.RecyclableMaterialKg
	report.Summary = req.Summary
	report.Challenges = req.Challenges
	report.Achievements = req.Achievements

	if err := rc.reports.Save(report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report"})
		return
	}

	c.JSON(http.StatusOK, report)
}
