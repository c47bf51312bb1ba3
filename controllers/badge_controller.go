// File: /controllers/badge_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"mutiroes-api/repositories"
	"mutiroes-api/services"
)

type BadgeController struct {
	badges  *repositories.BadgeRepository
	service *services.BadgeService
}

func NewBadgeController(badges *repositories.BadgeRepository, service *services.BadgeService) *BadgeController {
	return &BadgeController{badges: badges, service: service}
}

func (bc *BadgeController) ListBadges(c *gin.Context) {
	badges, err := bc.badges.ListBadges()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch badges"})
		return
	}

	c.JSON(http.StatusOK, badges)
}

func (bc *BadgeController) MyBadges(c *gin.Context) {
	userID := c.GetString("user_id")

	earned, err := bc.badges.ListEarned(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch badges"})
		return
	}

	c.JSON(http.StatusOK, earned)
}

func (bc *BadgeController) EarnBadge(c *gin.Context) {
	userID := c.GetString("user_id")

	badgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge ID"})
		return
	}

	grant, err := bc.service.Earn(userID, uint(badgeID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadgeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		case errors.Is(err, services.ErrBadgeAlreadyEarned):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Badge already earned"})
		case errors.Is(err, services.ErrBadgeCriteriaNotMet):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Badge criteria not met"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to earn badge"})
		}
		return
	}

	c.JSON(http.StatusCreated, grant)
}
