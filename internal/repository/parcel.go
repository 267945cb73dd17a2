package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/campusdrop/internal/model"
)

// DeliveryCounts summarizes a partner's workload for dashboards
type DeliveryCounts struct {
	Total     int64
	Active    int64
	Completed int64
}

// ParcelRepository defines data access for parcels. Claim, AdvanceStatus
// and MarkDelivered are single conditional updates so that concurrent
// writers cannot race each other past a status guard.
type ParcelRepository interface {
	Create(ctx context.Context, parcel *model.Parcel) error
	Update(ctx context.Context, parcel *model.Parcel) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Parcel, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Parcel, error)
	FindAvailable(ctx context.Context) ([]*model.Parcel, error)
	FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]*model.Parcel, error)
	FindAll(ctx context.Context) ([]*model.Parcel, error)
	Claim(ctx context.Context, parcelID, partnerID uuid.UUID) error
	AdvanceStatus(ctx context.Context, parcelID uuid.UUID, from, to model.ParcelStatus) error
	MarkDelivered(ctx context.Context, parcelID, partnerID uuid.UUID, deliveredAt time.Time) error
	Cancel(ctx context.Context, parcelID uuid.UUID) error
	CountsByPartner(ctx context.Context, partnerID uuid.UUID) (*DeliveryCounts, error)
	FindDeliveredByPartner(ctx context.Context, partnerID uuid.UUID, since time.Time) ([]*model.Parcel, error)
	FindRecentByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]*model.Parcel, error)
}

type parcelRepository struct {
	db *gorm.DB
}

// NewParcelRepository creates a new parcel repository
func NewParcelRepository(db *gorm.DB) ParcelRepository {
	return &parcelRepository{db: db}
}

func (r *parcelRepository) Create(ctx context.Context, parcel *model.Parcel) error {
	if err := r.db.WithContext(ctx).Create(parcel).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *parcelRepository) Update(ctx context.Context, parcel *model.Parcel) error {
	return r.db.WithContext(ctx).Save(parcel).Error
}

func (r *parcelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Parcel, error) {
	var parcel model.Parcel
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("DeliveryPartner").
		Where("id = ?", id).
		First(&parcel).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &parcel, nil
}

func (r *parcelRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Parcel, error) {
	var parcels []*model.Parcel
	err := r.db.WithContext(ctx).
		Preload("DeliveryPartner").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *parcelRepository) FindAvailable(ctx context.Context) ([]*model.Parcel, error) {
	var parcels []*model.Parcel
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("status = ? AND delivery_partner_id IS NULL", model.ParcelPending).
		Order("created_at DESC").
		Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *parcelRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]*model.Parcel, error) {
	var parcels []*model.Parcel
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("delivery_partner_id = ?", partnerID).
		Order("status ASC, created_at DESC").
		Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *parcelRepository) FindAll(ctx context.Context) ([]*model.Parcel, error) {
	var parcels []*model.Parcel
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("DeliveryPartner").
		Order("created_at DESC").
		Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}

// Claim binds the partner to a pending, unclaimed parcel. At most one
// concurrent caller wins; the rest get ErrStaleStatus.
func (r *parcelRepository) Claim(ctx context.Context, parcelID, partnerID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Parcel{}).
		Where("id = ? AND status = ? AND delivery_partner_id IS NULL", parcelID, model.ParcelPending).
		Updates(map[string]interface{}{
			"status":              model.ParcelAccepted,
			"delivery_partner_id": partnerID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// AdvanceStatus moves a parcel from one status to the next, failing if the
// stored status no longer matches
func (r *parcelRepository) AdvanceStatus(ctx context.Context, parcelID uuid.UUID, from, to model.ParcelStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Parcel{}).
		Where("id = ? AND status = ?", parcelID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// MarkDelivered completes the delivery. The status guard makes the
// transition single-shot, so earnings cannot be credited twice.
func (r *parcelRepository) MarkDelivered(ctx context.Context, parcelID, partnerID uuid.UUID, deliveredAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Parcel{}).
		Where("id = ? AND delivery_partner_id = ? AND status = ?", parcelID, partnerID, model.ParcelOutForDelivery).
		Updates(map[string]interface{}{
			"status":       model.ParcelDelivered,
			"delivered_at": deliveredAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Cancel moves a non-terminal parcel to cancelled
func (r *parcelRepository) Cancel(ctx context.Context, parcelID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Parcel{}).
		Where("id = ? AND status NOT IN (?)", parcelID, []model.ParcelStatus{model.ParcelDelivered, model.ParcelCancelled}).
		Update("status", model.ParcelCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *parcelRepository) CountsByPartner(ctx context.Context, partnerID uuid.UUID) (*DeliveryCounts, error) {
	var counts DeliveryCounts
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Parcel{}).Where("delivery_partner_id = ?", partnerID)
	}

	if err := base().Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	active := []model.ParcelStatus{model.ParcelAccepted, model.ParcelPickedUp, model.ParcelOutForDelivery}
	if err := base().Where("status IN (?)", active).Count(&counts.Active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", model.ParcelDelivered).Count(&counts.Completed).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *parcelRepository) FindDeliveredByPartner(ctx context.Context, partnerID uuid.UUID, since time.Time) ([]*model.Parcel, error) {
	var parcels []*model.Parcel
	err := r.db.WithContext(ctx).
		Where("delivery_partner_id = ? AND status = ? AND delivered_at >= ?", partnerID, model.ParcelDelivered, since).
		Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *parcelRepository) FindRecentByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]*model.Parcel, error) {
	var parcels []*model.Parcel
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("delivery_partner_id = ?", partnerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&parcels).Error
	if err != nil {
		return nil, err
	}
	return parcels, nil
}
