// File: /controllers/participant_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"mutiroes-api/models"
	"mutiroes-api/repositories"
	"mutiroes-api/services"
)

type ParticipantController struct {
	events         *repositories.EventRepository
	participations *repositories.ParticipationRepository
	admission      *services.AdmissionService
}

func NewParticipantController(events *repositories.EventRepository,
	participations *repositories.ParticipationRepository,
	admission *services.AdmissionService) *ParticipantController {
	return &ParticipantController{
		events:         events,
		participations: participations,
		admission:      admission,
	}
}

func (pc *ParticipantController) requireOrganizer(c *gin.Context, eventID string) (*models.Event, bool) {
	event, err := pc.events.ByID(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return nil, false
	}
	if event.OrganizerID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can manage participants"})
		return nil, false
	}
	return event, true
}

func (pc *ParticipantController) ListParticipants(c *gin.Context) {
	eventID := c.Param("id")

	if _, err := pc.events.ByID(eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	participants, err := pc.participations.ListByEvent(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	c.JSON(http.StatusOK, participants)
}

type createParticipantRequest struct {
	EmergencyContact string                 `json:"emergency_contact"`
	EmergencyPhone   string                 `json:"emergency_phone"`
	SpecialNeeds     string                 `json:"special_needs"`
	ExperienceLevel  models.ExperienceLevel `json:"experience_level"`
}

// CreateParticipant registers the caller through the same admission path as
// the join endpoint, keeping capacity and deadline rules in one place.
func (pc *ParticipantController) CreateParticipant(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	var req createParticipantRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	participant, err := pc.admission.Join(eventID, userID, services.JoinRequest{
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		SpecialNeeds:     req.SpecialNeeds,
		ExperienceLevel:  req.ExperienceLevel,
	})
	if err != nil {
		admissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participant)
}

func (pc *ParticipantController) GetParticipant(c *gin.Context) {
	eventID := c.Param("id")

	participantID, err := strconv.ParseUint(c.Param("participantId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	participant, err := pc.participations.ByID(eventID, uint(participantID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}

	c.JSON(http.StatusOK, participant)
}

type updateParticipantRequest struct {
	Status           models.ParticipationStatus `json:"status"`
	EmergencyContact *string                    `json:"emergency_contact"`
	EmergencyPhone   *string                    `json:"emergency_phone"`
	SpecialNeeds     *string                    `json:"special_needs"`
	ExperienceLevel  models.ExperienceLevel     `json:"experience_level"`
}

// UpdateParticipant is how organizers approve or reject pending
// registrations. Status changes go through the transition table, so a
// cancelled or rejected row can never be flipped back.
func (pc *ParticipantController) UpdateParticipant(c *gin.Context) {
	eventID := c.Param("id")

	if _, ok := pc.requireOrganizer(c, eventID); !ok {
		return
	}

	participantID, err := strconv.ParseUint(c.Param("participantId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	participant, err := pc.participations.ByID(eventID, uint(participantID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}

	var req updateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != "" && req.Status != participant.Status {
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participation status"})
			return
		}
		if !participant.Status.CanTransitionTo(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status transition",
				"from":  participant.Status,
				"to":    req.Status,
			})
			return
		}
		participant.Status = req.Status
	}

	if req.EmergencyContact != nil {
		participant.EmergencyContact = *req.EmergencyContact
	}
	if req.EmergencyPhone != nil {
		participant.EmergencyPhone = *req.EmergencyPhone
	}
	if req.SpecialNeeds != nil {
		participant.SpecialNeeds = *req.SpecialNeeds
	}
	if req.ExperienceLevel != "" {
		participant.ExperienceLevel = req.ExperienceLevel
	}

	if err := pc.participations.SaveParticipation(participant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update participant"})
		return
	}

	c.JSON(http.StatusOK, participant)
}

func (pc *ParticipantController) DeleteParticipant(c *gin.Context) {
	eventID := c.Param("id")

	if _, ok := pc.requireOrganizer(c, eventID); !ok {
		return
	}

	participantID, err := strconv.ParseUint(c.Param("participantId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	participant, err := pc.participations.ByID(eventID, uint(participantID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}

	if err := pc.participations.DeleteParticipation(participant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove participant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant removed successfully"})
}
