// File: /controllers/event_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"mutiroes-api/models"
	"mutiroes-api/repositories"
	"mutiroes-api/services"
	"mutiroes-api/utils"
)

type EventController struct {
	db             *gorm.DB
	events         *repositories.EventRepository
	participations *repositories.ParticipationRepository
	admission      *services.AdmissionService
	stats          *services.StatsService
	email          *services.EmailService
}

func NewEventController(db *gorm.DB, events *repositories.EventRepository,
	participations *repositories.ParticipationRepository,
	admission *services.AdmissionService, stats *services.StatsService,
	email *services.EmailService) *EventController {
	return &EventController{
		db:             db,
		events:         events,
		participations: participations,
		admission:      admission,
		stats:          stats,
		email:          email,
	}
}

type CreateEventRequest struct {
	Title                string             `json:"title" binding:"required"`
	Description          string             `json:"description" binding:"required"`
	CategoryID           uint               `json:"category_id" binding:"required"`
	Address              string             `json:"address" binding:"required"`
	Latitude             float64            `json:"latitude" binding:"required"`
	Longitude            float64            `json:"longitude" binding:"required"`
	City                 string             `json:"city" binding:"required"`
	State                string             `json:"state" binding:"required,len=2"`
	StartDate            time.Time          `json:"start_date" binding:"required"`
	EndDate              time.Time          `json:"end_date" binding:"required"`
	RegistrationDeadline time.Time          `json:"registration_deadline" binding:"required"`
	MaxParticipants      int                `json:"max_participants" binding:"required,min=1"`
	MinAge               int                `json:"min_age"`
	MaxAge               *int               `json:"max_age"`
	Status               models.EventStatus `json:"status"`
	IsPublic             *bool              `json:"is_public"`
	RequiresApproval     bool               `json:"requires_approval"`
	RequiredTools        string             `json:"required_tools"`
	ProvidedTools        string             `json:"provided_tools"`
	WhatToBring          string             `json:"what_to_bring"`
}

// admissionError maps an admission rule violation to its HTTP status and
// machine-readable code. Everything here is a business-rule rejection, never
// a retryable fault.
func admissionError(c *gin.Context, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, services.ErrEventNotFound):
		status, code = http.StatusNotFound, "EventNotFound"
	case errors.Is(err, services.ErrNotRegistered):
		status, code = http.StatusNotFound, "NotRegistered"
	case errors.Is(err, services.ErrAlreadyRegistered):
		status, code = http.StatusBadRequest, "AlreadyRegistered"
	case errors.Is(err, services.ErrCapacityExceeded):
		status, code = http.StatusBadRequest, "CapacityExceeded"
	case errors.Is(err, services.ErrRegistrationClosed):
		status, code = http.StatusBadRequest, "RegistrationClosed"
	case errors.Is(err, services.ErrNotConfirmed):
		status, code = http.StatusBadRequest, "NotConfirmed"
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		status, code = http.StatusBadRequest, "AlreadyCheckedIn"
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(status, utils.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    status,
	})
}

// attachCounts fills the derived participant fields from the ledger.
func (ec *EventController) attachCounts(event *models.Event) {
	confirmed, err := ec.participations.ConfirmedCount(event.ID)
	if err != nil {
		return
	}
	event.ParticipantsCount = int(confirmed)
	spots := event.MaxParticipants - int(confirmed)
	if spots < 0 {
		spots = 0
	}
	event.AvailableSpots = spots
}

func (ec *EventController) GetEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	categoryID, _ := strconv.Atoi(c.Query("category"))
	filter := repositories.EventFilter{
		CategoryID: uint(categoryID),
		City:       c.Query("city"),
		State:      c.Query("state"),
		Status:     models.EventStatus(c.Query("status")),
		Search:     c.Query("search"),
		PublicOnly: true,
	}

	events, total, err := ec.events.List(filter, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	for i := range events {
		ec.attachCounts(&events[i])
		events[i].Organizer.Email = ""
	}

	utils.SendPaginated(c, events, page, limit, total)
}

func (ec *EventController) CreateEvent(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.EventStatusDraft
	}
	if status != models.EventStatusDraft && status != models.EventStatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New events must be draft or published"})
		return
	}

	minAge := req.MinAge
	if minAge == 0 {
		minAge = 16
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	event := models.Event{
		ID:                   uuid.New().String(),
		Title:                req.Title,
		Description:          req.Description,
		CategoryID:           req.CategoryID,
		OrganizerID:          userID,
		Address:              req.Address,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		City:                 req.City,
		State:                req.State,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		MaxParticipants:      req.MaxParticipants,
		MinAge:               minAge,
		MaxAge:               req.MaxAge,
		Status:               status,
		IsPublic:             isPublic,
		RequiresApproval:     req.RequiresApproval,
		RequiredTools:        req.RequiredTools,
		ProvidedTools:        req.ProvidedTools,
		WhatToBring:          req.WhatToBring,
	}

	if err := event.ValidateSchedule(); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{
			Error:   "InvalidDateOrdering",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := ec.events.Create(&event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	event.AvailableSpots = event.MaxParticipants
	c.JSON(http.StatusCreated, event)
}

func (ec *EventController) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	event, err := ec.events.ByIDFull(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	ec.attachCounts(event)
	event.Organizer.Email = ""
	for i := range event.Resources {
		event.Resources[i].FullyProvided = event.Resources[i].IsFullyProvided()
	}

	c.JSON(http.StatusOK, event)
}

func (ec *EventController) UpdateEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	event, err := ec.events.ByID(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if event.OrganizerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can update this event"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = event.Status
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event status"})
		return
	}

	updated := *event
	updated.StartDate = req.StartDate
	updated.EndDate = req.EndDate
	updated.RegistrationDeadline = req.RegistrationDeadline
	updated.MinAge = req.MinAge
	updated.MaxAge = req.MaxAge
	if err := updated.ValidateSchedule(); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{
			Error:   "InvalidDateOrdering",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Capacity can never drop below the spots already taken.
	confirmed, err := ec.participations.ConfirmedCount(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	if int64(req.MaxParticipants) < confirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot reduce max participants below current count"})
		return
	}

	updates := map[string]interface{}{
		"title":                 req.Title,
		"description":           req.Description,
		"category_id":           req.CategoryID,
		"address":               req.Address,
		"latitude":              req.Latitude,
		"longitude":             req.Longitude,
		"city":                  req.City,
		"state":                 req.State,
		"start_date":            req.StartDate,
		"end_date":              req.EndDate,
		"registration_deadline": req.RegistrationDeadline,
		"max_participants":      req.MaxParticipants,
		"min_age":               req.MinAge,
		"max_age":               req.MaxAge,
		"status":                status,
		"requires_approval":     req.RequiresApproval,
		"required_tools":        req.RequiredTools,
		"provided_tools":        req.ProvidedTools,
		"what_to_bring":         req.WhatToBring,
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}

	if err := ec.events.Updates(event, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully"})
}

func (ec *EventController) DeleteEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	event, err := ec.events.ByID(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if event.OrganizerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can delete this event"})
		return
	}

	if err := ec.events.Delete(eventID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

type joinEventRequest struct {
	EmergencyContact string                 `json:"emergency_contact"`
	EmergencyPhone   string                 `json:"emergency_phone"`
	SpecialNeeds     string                 `json:"special_needs"`
	ExperienceLevel  models.ExperienceLevel `json:"experience_level"`
}

func (ec *EventController) JoinEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	var req joinEventRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	participant, err := ec.admission.Join(eventID, userID, services.JoinRequest{
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		SpecialNeeds:     req.SpecialNeeds,
		ExperienceLevel:  req.ExperienceLevel,
	})
	if err != nil {
		admissionError(c, err)
		return
	}

	go ec.notifyRegistration(eventID, userID, participant.Status)

	c.JSON(http.StatusCreated, participant)
}

// notifyRegistration sends the registration email outside the request path.
// A delivery failure is logged and never affects the admission outcome.
func (ec *EventController) notifyRegistration(eventID, userID string, status models.ParticipationStatus) {
	var user models.User
	if err := ec.db.First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	event, err := ec.events.ByID(eventID)
	if err != nil {
		return
	}

	if status == models.ParticipationConfirmed {
		err = ec.email.SendRegistrationConfirmation(&user, event)
	} else {
		err = ec.email.SendPendingApprovalNotice(&user, event)
	}
	if err != nil {
		fmt.Printf("Failed to send registration email: %v\n", err)
	}
}

func (ec *EventController) LeaveEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	if err := ec.admission.Leave(eventID, userID); err != nil {
		admissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration cancelled successfully"})
}

func (ec *EventController) CheckIn(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	participant, err := ec.admission.CheckIn(eventID, userID)
	if err != nil {
		admissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Check-in completed successfully",
		"check_in_time": participant.CheckInTime,
	})
}

func (ec *EventController) GetStats(c *gin.Context) {
	eventID := c.Param("id")

	stats, err := ec.stats.EventStats(eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (ec *EventController) MyEvents(c *gin.Context) {
	userID := c.GetString("user_id")

	organized, err := ec.events.Organized(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	participating, err := ec.events.Participating(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	for i := range organized {
		ec.attachCounts(&organized[i])
	}
	for i := range participating {
		ec.attachCounts(&participating[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"organized":     organized,
		"participating": participating,
	})
}

// NearbyEvents lists upcoming published events. Real proximity filtering
// needs a geospatial index; callers still must send their position so the
// contract stays stable when it lands.
func (ec *EventController) NearbyEvents(c *gin.Context) {
	lat := c.Query("latitude")
	lng := c.Query("longitude")
	if lat == "" || lng == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude and longitude are required"})
		return
	}

	events, err := ec.events.UpcomingPublished(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	for i := range events {
		ec.attachCounts(&events[i])
		events[i].Organizer.Email = ""
	}

	c.JSON(http.StatusOK, events)
}

func (ec *EventController) GetCategories(c *gin.Context) {
	categories, err := ec.events.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

type createResourceRequest struct {
	Name             string              `json:"name" binding:"required"`
	Description      string              `json:"description"`
	ResourceType     models.ResourceType `json:"resource_type" binding:"required"`
	QuantityNeeded   int                 `json:"quantity_needed" binding:"required,min=1"`
	QuantityProvided int                 `json:"quantity_provided" binding:"min=0"`
	Unit             string              `json:"unit"`
}

func (ec *EventController) GetResources(c *gin.Context) {
	eventID := c.Param("id")

	if _, err := ec.events.ByID(eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	resources, err := ec.events.Resources(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}

	for i := range resources {
		resources[i].FullyProvided = resources[i].IsFullyProvided()
	}

	c.JSON(http.StatusOK, resources)
}

func (ec *EventController) CreateResource(c *gin.Context) {
	eventID := c.Param("id")

	if _, err := ec.events.ByID(eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}

	resource := models.EventResource{
		EventID:          eventID,
		Name:             req.Name,
		Description:      req.Description,
		ResourceType:     req.ResourceType,
		QuantityNeeded:   req.QuantityNeeded,
		QuantityProvided: req.QuantityProvided,
		Unit:             unit,
	}

	if err := ec.events.CreateResource(&resource); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	resource.FullyProvided = resource.IsFullyProvided()
	c.JSON(http.StatusCreated, resource)
}
