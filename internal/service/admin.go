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
)

// AdminStatistics is the admin dashboard rollup over delivery partners
type AdminStatistics struct {
	TotalPartners    int64 `json:"total_partners"`
	ApprovedPartners int64 `json:"approved_partners"`
	PendingPartners  int64 `json:"pending_partners"`
	RejectedPartners int64 `json:"rejected_partners"`
}

// PartnerReport is the per-partner admin view: counts, earnings from
// delivered-and-paid parcels, and the most recent deliveries
type PartnerReport struct {
	TotalDeliveries     int64           `json:"total_deliveries"`
	PendingDeliveries   int64           `json:"pending_deliveries"`
	CompletedDeliveries int64           `json:"completed_deliveries"`
	TotalEarnings       float64         `json:"total_earnings"`
	RecentDeliveries    []*model.Parcel `json:"recent_deliveries"`
}

// AdminService vets delivery partners and exposes admin read models
type AdminService interface {
	ListPartners(ctx context.Context) ([]*model.DeliveryPartner, error)
	GetPartner(ctx context.Context, partnerID uuid.UUID) (*model.DeliveryPartner, error)
	ApprovePartner(ctx context.Context, partnerID uuid.UUID) (*model.DeliveryPartner, error)
	RejectPartner(ctx context.Context, partnerID uuid.UUID, reason string) (*model.DeliveryPartner, error)
	AllowReapply(ctx context.Context, partnerID uuid.UUID) (*model.DeliveryPartner, error)
	Statistics(ctx context.Context) (*AdminStatistics, error)
	ListParcels(ctx context.Context) ([]*model.Parcel, error)
	PartnerReport(ctx context.Context, partnerID uuid.UUID) (*PartnerReport, error)
}

type adminService struct {
	partners repository.PartnerRepository
	parcels  repository.ParcelRepository
	cache    *cache.RedisCache
}

// NewAdminService creates a new admin service
func NewAdminService(
	partners repository.PartnerRepository,
	parcels repository.ParcelRepository,
	redisCache *cache.RedisCache,
) AdminService {
	return &adminService{partners: partners, parcels: parcels, cache: redisCache}
}

func (s *adminService) partner(ctx context.Context, partnerID uuid.UUID) (*model.DeliveryPartner, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Delivery partner not found")
		}
		return nil, internal(err, "Error fetching delivery partner")
	}
	return partner, nil
}

func (s *adminService) ListPartners(ctx context.Context) ([]*model.DeliveryPartner, error) {
	partners, err := s.partners.FindAll(ctx)
	if err != nil {
		return nil, internal(err, "Error fetching delivery partners")
	}
	return partners, nil
}

func (s *adminService) GetPartner(ctx context.Context, partnerID uuid.UUID) (*model.DeliveryPartner, error) {
	return s.partner(ctx, partnerID)
}

// ApprovePartner grants approval and clears any rejection state
func (s *adminService) ApprovePartner(ctx context.Context, partnerID uuid.UUID) (*model.DeliveryPartner, error) {
	partner, err := s.partner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	partner.IsApproved = true
	partner.RejectionReason = nil
	partner.RejectionDate = nil

	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, internal(err, "Error approving delivery partner")
	}
	s.invalidateStats(ctx)
	return partner, nil
}

// RejectPartner revokes approval and stamps the rejection
func (s *adminService) RejectPartner(ctx context.Context, partnerID uuid.UUID, reason string) (*model.DeliveryPartner, error) {
	if reason == "" {
		return nil, validation("Rejection reason is required")
	}

	partner, err := s.partner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	partner.IsApproved = false
	partner.RejectionReason = &reason
	partner.RejectionDate = &now

	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, internal(err, "Error rejecting delivery partner")
	}
	s.invalidateStats(ctx)
	return partner, nil
}

// AllowReapply clears rejection state and stamps the reapplication
// without granting approval
func (s *adminService) AllowReapply(ctx context.Context, partnerID uuid.UUID) (*model.DeliveryPartner, error) {
	partner, err := s.partner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	partner.RejectionReason = nil
	partner.RejectionDate = nil
	partner.ReapplicationDate = &now

	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, internal(err, "Error allowing reapplication")
	}
	s.invalidateStats(ctx)
	return partner, nil
}

func (s *adminService) Statistics(ctx context.Context) (*AdminStatistics, error) {
	if s.cache != nil {
		var cached AdminStatistics
		if err := s.cache.Get(ctx, cache.AdminStatsKey(), &cached); err == nil {
			return &cached, nil
		}
	}

	counts, err := s.partners.Counts(ctx)
	if err != nil {
		return nil, internal(err, "Error fetching statistics")
	}

	stats := &AdminStatistics{
		TotalPartners:    counts.Total,
		ApprovedPartners: counts.Approved,
		PendingPartners:  counts.Pending,
		RejectedPartners: counts.Rejected,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.AdminStatsKey(), stats, time.Minute); err != nil {
			log.Warn().Err(err).Msg("Failed to cache admin statistics")
		}
	}
	return stats, nil
}

func (s *adminService) ListParcels(ctx context.Context) ([]*model.Parcel, error) {
	parcels, err := s.parcels.FindAll(ctx)
	if err != nil {
		return nil, internal(err, "Error fetching parcels")
	}
	return parcels, nil
}

func (s *adminService) PartnerReport(ctx context.Context, partnerID uuid.UUID) (*PartnerReport, error) {
	partner, err := s.partner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	counts, err := s.parcels.CountsByPartner(ctx, partner.ID)
	if err != nil {
		return nil, internal(err, "Error fetching delivery partner statistics")
	}

	delivered, err := s.parcels.FindDeliveredByPartner(ctx, partner.ID, time.Time{})
	if err != nil {
		return nil, internal(err, "Error fetching delivery partner statistics")
	}
	var earnings float64
	for _, p := range delivered {
		if p.Payment.Status == model.PaymentCompleted {
			earnings += p.Payment.Amount
		}
	}

	recent, err := s.parcels.FindRecentByPartner(ctx, partner.ID, 10)
	if err != nil {
		return nil, internal(err, "Error fetching delivery partner statistics")
	}

	return &PartnerReport{
		TotalDeliveries:     counts.Total,
		PendingDeliveries:   counts.Active,
		CompletedDeliveries: counts.Completed,
		TotalEarnings:       earnings,
		RecentDeliveries:    recent,
	}, nil
}

func (s *adminService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.AdminStatsKey()); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate statistics cache")
	}
}
