package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/campusdrop/internal/model"
)

// PartnerCounts summarizes delivery partner approval state for dashboards
type PartnerCounts struct {
	Total    int64
	Approved int64
	Pending  int64
	Rejected int64
}

// PartnerRepository defines data access for delivery partner profiles
type PartnerRepository interface {
	Create(ctx context.Context, partner *model.DeliveryPartner) error
	Update(ctx context.Context, partner *model.DeliveryPartner) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DeliveryPartner, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error)
	FindAll(ctx context.Context) ([]*model.DeliveryPartner, error)
	CreditDelivery(ctx context.Context, id uuid.UUID, amount float64) error
	Counts(ctx context.Context) (*PartnerCounts, error)
}

type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new delivery partner repository
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) Create(ctx context.Context, partner *model.DeliveryPartner) error {
	if err := r.db.WithContext(ctx).Create(partner).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *partnerRepository) Update(ctx context.Context, partner *model.DeliveryPartner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

func (r *partnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DeliveryPartner, error) {
	var partner model.DeliveryPartner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&partner).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error) {
	var partner model.DeliveryPartner
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&partner).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) FindAll(ctx context.Context) ([]*model.DeliveryPartner, error) {
	var partners []*model.DeliveryPartner
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&partners).Error
	if err != nil {
		return nil, err
	}
	return partners, nil
}

// CreditDelivery adds a completed delivery to the partner's running totals
func (r *partnerRepository) CreditDelivery(ctx context.Context, id uuid.UUID, amount float64) error {
	return r.db.WithContext(ctx).Model(&model.DeliveryPartner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_earnings":   gorm.Expr("total_earnings + ?", amount),
			"total_deliveries": gorm.Expr("total_deliveries + 1"),
		}).Error
}

func (r *partnerRepository) Counts(ctx context.Context) (*PartnerCounts, error) {
	var counts PartnerCounts
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.DeliveryPartner{})
	}

	if err := base().Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_approved = true").Count(&counts.Approved).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_approved = false AND rejection_reason IS NULL").Count(&counts.Pending).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_approved = false AND rejection_reason IS NOT NULL").Count(&counts.Rejected).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}
