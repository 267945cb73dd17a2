package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func partnerIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid delivery partner ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) listPartners(c *gin.Context) {
	partners, err := s.adminService.ListPartners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partners)
}

func (s *Server) getPartner(c *gin.Context) {
	id, ok := partnerIDParam(c)
	if !ok {
		return
	}

	partner, err := s.adminService.GetPartner(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) approvePartner(c *gin.Context) {
	id, ok := partnerIDParam(c)
	if !ok {
		return
	}

	partner, err := s.adminService.ApprovePartner(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) rejectPartner(c *gin.Context) {
	id, ok := partnerIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rejection reason is required"})
		return
	}

	partner, err := s.adminService.RejectPartner(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) allowReapply(c *gin.Context) {
	id, ok := partnerIDParam(c)
	if !ok {
		return
	}

	partner, err := s.adminService.AllowReapply(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (s *Server) adminStatistics(c *gin.Context) {
	stats, err := s.adminService.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) listAllParcels(c *gin.Context) {
	parcels, err := s.adminService.ListParcels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcels)
}

func (s *Server) partnerReport(c *gin.Context) {
	id, ok := partnerIDParam(c)
	if !ok {
		return
	}

	report, err := s.adminService.PartnerReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
