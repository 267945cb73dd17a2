package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/service"
)

func (s *Server) getPartnerProfile(c *gin.Context) {
	userID, _ := callerID(c)

	partner, err := s.partnerService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) createPartnerProfile(c *gin.Context) {
	userID, _ := callerID(c)

	var req service.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	partner, err := s.partnerService.CreateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, partner)
}

func (s *Server) updatePartnerProfile(c *gin.Context) {
	userID, _ := callerID(c)

	var req service.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	partner, err := s.partnerService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) updateAvailability(c *gin.Context) {
	userID, _ := callerID(c)

	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Availability is required"})
		return
	}

	partner, err := s.partnerService.SetAvailability(c.Request.Context(), userID, *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) updateLocation(c *gin.Context) {
	userID, _ := callerID(c)

	var req struct {
		Longitude float64 `json:"longitude"`
		Latitude  float64 `json:"latitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	partner, err := s.partnerService.UpdateLocation(c.Request.Context(), userID, model.GeoPoint{
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) listAssignedParcels(c *gin.Context) {
	userID, _ := callerID(c)

	parcels, err := s.partnerService.ListAssignedParcels(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcels)
}

func (s *Server) partnerStatistics(c *gin.Context) {
	userID, _ := callerID(c)

	stats, err := s.partnerService.Statistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
