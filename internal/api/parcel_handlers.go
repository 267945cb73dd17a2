package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/service"
)

func parcelID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid parcel ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) listStudentParcels(c *gin.Context) {
	userID, _ := callerID(c)

	parcels, err := s.parcelService.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcels)
}

func (s *Server) createParcel(c *gin.Context) {
	userID, _ := callerID(c)

	var req service.CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	parcel, err := s.parcelService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, parcel)
}

func (s *Server) listAvailableParcels(c *gin.Context) {
	userID, _ := callerID(c)

	parcels, err := s.parcelService.ListAvailable(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcels)
}

func (s *Server) acceptParcel(c *gin.Context) {
	userID, _ := callerID(c)
	id, ok := parcelID(c)
	if !ok {
		return
	}

	parcel, err := s.parcelService.Accept(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcel)
}

func (s *Server) generateDeliveryOTP(c *gin.Context) {
	userID, _ := callerID(c)
	id, ok := parcelID(c)
	if !ok {
		return
	}

	if err := s.parcelService.GenerateDeliveryOTP(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (s *Server) verifyDeliveryOTP(c *gin.Context) {
	userID, _ := callerID(c)
	id, ok := parcelID(c)
	if !ok {
		return
	}

	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "OTP is required"})
		return
	}

	if err := s.parcelService.VerifyDeliveryOTP(c.Request.Context(), id, userID, req.OTP); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully"})
}

func (s *Server) updateParcelStatus(c *gin.Context) {
	userID, _ := callerID(c)
	id, ok := parcelID(c)
	if !ok {
		return
	}

	var req struct {
		Status model.ParcelStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status is required"})
		return
	}

	parcel, err := s.parcelService.UpdateStatus(c.Request.Context(), id, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcel)
}

func (s *Server) updateParcelPayment(c *gin.Context) {
	userID, _ := callerID(c)
	id, ok := parcelID(c)
	if !ok {
		return
	}

	var req service.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	parcel, err := s.parcelService.UpdatePayment(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcel)
}

func (s *Server) cancelParcel(c *gin.Context) {
	userID, _ := callerID(c)
	role, _ := callerRole(c)
	id, ok := parcelID(c)
	if !ok {
		return
	}

	parcel, err := s.parcelService.Cancel(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcel)
}

func (s *Server) getParcel(c *gin.Context) {
	userID, _ := callerID(c)
	role, _ := callerRole(c)
	id, ok := parcelID(c)
	if !ok {
		return
	}

	parcel, err := s.parcelService.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parcel)
}
