package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/campusdrop/internal/cache"
	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
	"example.com/campusdrop/internal/utils"
)

// CreatePartnerRequest defines the request to create a partner profile
// for an account registered without one
type CreatePartnerRequest struct {
	FirstName     string            `json:"first_name" validate:"required"`
	LastName      string            `json:"last_name" validate:"required"`
	PhoneNumber   string            `json:"phone_number" validate:"required"`
	VehicleType   model.VehicleType `json:"vehicle_type"`
	VehicleNumber string            `json:"vehicle_number"`
}

// UpdatePartnerRequest defines the mutable fields of a partner profile
type UpdatePartnerRequest struct {
	FirstName      *string            `json:"first_name"`
	LastName       *string            `json:"last_name"`
	PhoneNumber    *string            `json:"phone_number"`
	VehicleType    *model.VehicleType `json:"vehicle_type"`
	VehicleNumber  *string            `json:"vehicle_number"`
	ProfilePicture *string            `json:"profile_picture"`
}

// Earnings breaks a partner's delivered-parcel income into windows
type Earnings struct {
	Today   float64 `json:"today"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// PartnerStatistics is the partner dashboard rollup
type PartnerStatistics struct {
	TotalDeliveries     int64    `json:"total_deliveries"`
	PendingDeliveries   int64    `json:"pending_deliveries"`
	CompletedDeliveries int64    `json:"completed_deliveries"`
	Rating              float64  `json:"rating"`
	Earnings            Earnings `json:"earnings"`
}

// PartnerService handles delivery partner profiles, availability and
// dashboard statistics
type PartnerService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, req *CreatePartnerRequest) (*model.DeliveryPartner, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdatePartnerRequest) (*model.DeliveryPartner, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*model.DeliveryPartner, error)
	UpdateLocation(ctx context.Context, userID uuid.UUID, location model.GeoPoint) (*model.DeliveryPartner, error)
	ListAssignedParcels(ctx context.Context, userID uuid.UUID) ([]*model.Parcel, error)
	Statistics(ctx context.Context, userID uuid.UUID) (*PartnerStatistics, error)
}

type partnerService struct {
	partners repository.PartnerRepository
	parcels  repository.ParcelRepository
	cache    *cache.RedisCache
}

// NewPartnerService creates a new partner service
func NewPartnerService(
	partners repository.PartnerRepository,
	parcels repository.ParcelRepository,
	redisCache *cache.RedisCache,
) PartnerService {
	return &partnerService{partners: partners, parcels: parcels, cache: redisCache}
}

func (s *partnerService) profile(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error) {
	partner, err := s.partners.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Delivery partner profile not found")
		}
		return nil, internal(err, "Error fetching delivery partner profile")
	}
	return partner, nil
}

// approved resolves the profile and rejects unapproved accounts
func (s *partnerService) approved(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error) {
	partner, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !partner.IsApproved {
		return nil, forbidden("Your account is not approved by admin yet! Please contact to admin")
	}
	return partner, nil
}

func (s *partnerService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error) {
	return s.profile(ctx, userID)
}

func (s *partnerService) CreateProfile(ctx context.Context, userID uuid.UUID, req *CreatePartnerRequest) (*model.DeliveryPartner, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validation("Missing required profile fields: %v", err)
	}
	if req.VehicleType != "" && !req.VehicleType.Valid() {
		return nil, validation("Unknown vehicle type %q", req.VehicleType)
	}

	if _, err := s.partners.GetByUserID(ctx, userID); err == nil {
		return nil, conflict("Profile already exists")
	}

	partner := &model.DeliveryPartner{
		UserID:        userID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PhoneNumber:   req.PhoneNumber,
		VehicleType:   req.VehicleType,
		VehicleNumber: req.VehicleNumber,
		IsAvailable:   true,
	}
	if err := s.partners.Create(ctx, partner); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflict("Profile already exists")
		}
		return nil, internal(err, "Error creating delivery partner profile")
	}
	return partner, nil
}

func (s *partnerService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdatePartnerRequest) (*model.DeliveryPartner, error) {
	partner, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		partner.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		partner.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		if !utils.IsValidPhoneNumber(*req.PhoneNumber) {
			return nil, validation("Invalid phone number")
		}
		partner.PhoneNumber = *req.PhoneNumber
	}
	if req.VehicleType != nil {
		if !req.VehicleType.Valid() {
			return nil, validation("Unknown vehicle type %q", *req.VehicleType)
		}
		partner.VehicleType = *req.VehicleType
	}
	if req.VehicleNumber != nil {
		partner.VehicleNumber = *req.VehicleNumber
	}
	if req.ProfilePicture != nil {
		partner.ProfilePicture = *req.ProfilePicture
	}

	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, internal(err, "Error updating delivery partner profile")
	}
	return partner, nil
}

func (s *partnerService) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*model.DeliveryPartner, error) {
	partner, err := s.approved(ctx, userID)
	if err != nil {
		return nil, err
	}

	partner.IsAvailable = available
	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, internal(err, "Error updating availability")
	}
	return partner, nil
}

func (s *partnerService) UpdateLocation(ctx context.Context, userID uuid.UUID, location model.GeoPoint) (*model.DeliveryPartner, error) {
	partner, err := s.approved(ctx, userID)
	if err != nil {
		return nil, err
	}

	partner.CurrentLocation = location
	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, internal(err, "Error updating location")
	}
	return partner, nil
}

func (s *partnerService) ListAssignedParcels(ctx context.Context, userID uuid.UUID) ([]*model.Parcel, error) {
	partner, err := s.approved(ctx, userID)
	if err != nil {
		return nil, err
	}

	parcels, err := s.parcels.FindByPartner(ctx, partner.ID)
	if err != nil {
		return nil, internal(err, "Error fetching parcels")
	}
	return parcels, nil
}

// Statistics computes the partner dashboard rollup. The result is
// cached briefly and invalidated when a delivery completes.
func (s *partnerService) Statistics(ctx context.Context, userID uuid.UUID) (*PartnerStatistics, error) {
	partner, err := s.approved(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached PartnerStatistics
		if err := s.cache.Get(ctx, cache.PartnerStatsKey(partner.ID), &cached); err == nil {
			return &cached, nil
		}
	}

	counts, err := s.parcels.CountsByPartner(ctx, partner.ID)
	if err != nil {
		return nil, internal(err, "Error fetching statistics")
	}

	now := time.Now()
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	delivered, err := s.parcels.FindDeliveredByPartner(ctx, partner.ID, startOfYear)
	if err != nil {
		return nil, internal(err, "Error fetching statistics")
	}

	var earnings Earnings
	for _, p := range delivered {
		if p.DeliveredAt == nil {
			continue
		}
		earnings.Yearly += p.Payment.Amount
		if !p.DeliveredAt.Before(startOfMonth) {
			earnings.Monthly += p.Payment.Amount
		}
		if !p.DeliveredAt.Before(startOfDay) {
			earnings.Today += p.Payment.Amount
		}
	}

	stats := &PartnerStatistics{
		TotalDeliveries:     counts.Total,
		PendingDeliveries:   counts.Active,
		CompletedDeliveries: counts.Completed,
		Rating:              partner.Rating,
		Earnings:            earnings,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.PartnerStatsKey(partner.ID), stats, time.Minute); err != nil {
			log.Warn().Err(err).Msg("Failed to cache partner statistics")
		}
	}
	return stats, nil
}
