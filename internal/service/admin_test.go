package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
)

func rejectedPartner() *model.DeliveryPartner {
	reason := "Incomplete vehicle documents"
	rejectedAt := time.Now().Add(-24 * time.Hour)
	return &model.DeliveryPartner{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		FirstName:       "Ravi",
		LastName:        "Kumar",
		IsApproved:      false,
		RejectionReason: &reason,
		RejectionDate:   &rejectedAt,
	}
}

func TestApprovePartnerClearsRejection(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)
	parcelRepo := new(MockParcelRepository)

	partner := rejectedPartner()
	partnerRepo.On("GetByID", mock.Anything, partner.ID).Return(partner, nil)
	partnerRepo.On("Update", mock.Anything, partner).Return(nil)

	svc := NewAdminService(partnerRepo, parcelRepo, nil)

	got, err := svc.ApprovePartner(context.Background(), partner.ID)
	require.NoError(t, err)
	require.True(t, got.IsApproved)
	require.Nil(t, got.RejectionReason)
	require.Nil(t, got.RejectionDate)
}

func TestRejectPartner(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)
	parcelRepo := new(MockParcelRepository)

	partner := &model.DeliveryPartner{ID: uuid.New(), IsApproved: true}
	partnerRepo.On("GetByID", mock.Anything, partner.ID).Return(partner, nil)
	partnerRepo.On("Update", mock.Anything, partner).Return(nil)

	svc := NewAdminService(partnerRepo, parcelRepo, nil)

	got, err := svc.RejectPartner(context.Background(), partner.ID, "Invalid license")
	require.NoError(t, err)
	require.False(t, got.IsApproved)
	require.NotNil(t, got.RejectionReason)
	require.Equal(t, "Invalid license", *got.RejectionReason)
	require.NotNil(t, got.RejectionDate)
}

func TestRejectPartnerRequiresReason(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)

	svc := NewAdminService(partnerRepo, new(MockParcelRepository), nil)

	_, err := svc.RejectPartner(context.Background(), uuid.New(), "")
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	partnerRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Allowing reapplication clears the rejection but does not approve
func TestAllowReapply(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)

	partner := rejectedPartner()
	partnerRepo.On("GetByID", mock.Anything, partner.ID).Return(partner, nil)
	partnerRepo.On("Update", mock.Anything, partner).Return(nil)

	svc := NewAdminService(partnerRepo, new(MockParcelRepository), nil)

	got, err := svc.AllowReapply(context.Background(), partner.ID)
	require.NoError(t, err)
	require.False(t, got.IsApproved)
	require.Nil(t, got.RejectionReason)
	require.Nil(t, got.RejectionDate)
	require.NotNil(t, got.ReapplicationDate)
}

func TestApproveUnknownPartner(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)
	id := uuid.New()
	partnerRepo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	svc := NewAdminService(partnerRepo, new(MockParcelRepository), nil)

	_, err := svc.ApprovePartner(context.Background(), id)
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestAdminStatistics(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)
	partnerRepo.On("Counts", mock.Anything).Return(&repository.PartnerCounts{
		Total:    10,
		Approved: 6,
		Pending:  3,
		Rejected: 1,
	}, nil)

	svc := NewAdminService(partnerRepo, new(MockParcelRepository), nil)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(10), stats.TotalPartners)
	require.Equal(t, int64(6), stats.ApprovedPartners)
	require.Equal(t, int64(3), stats.PendingPartners)
	require.Equal(t, int64(1), stats.RejectedPartners)
}

func TestPartnerReport(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)
	parcelRepo := new(MockParcelRepository)

	partner := &model.DeliveryPartner{ID: uuid.New(), IsApproved: true}
	deliveredAt := time.Now().Add(-time.Hour)
	paid := &model.Parcel{
		ID:          uuid.New(),
		Status:      model.ParcelDelivered,
		DeliveredAt: &deliveredAt,
		Payment:     model.Payment{Amount: 500, Status: model.PaymentCompleted},
	}
	unpaid := &model.Parcel{
		ID:          uuid.New(),
		Status:      model.ParcelDelivered,
		DeliveredAt: &deliveredAt,
		Payment:     model.Payment{Amount: 300, Status: model.PaymentPending},
	}

	partnerRepo.On("GetByID", mock.Anything, partner.ID).Return(partner, nil)
	parcelRepo.On("CountsByPartner", mock.Anything, partner.ID).Return(&repository.DeliveryCounts{
		Total:     3,
		Active:    1,
		Completed: 2,
	}, nil)
	parcelRepo.On("FindDeliveredByPartner", mock.Anything, partner.ID, time.Time{}).Return([]*model.Parcel{paid, unpaid}, nil)
	parcelRepo.On("FindRecentByPartner", mock.Anything, partner.ID, 10).Return([]*model.Parcel{paid, unpaid}, nil)

	svc := NewAdminService(partnerRepo, parcelRepo, nil)

	report, err := svc.PartnerReport(context.Background(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), report.TotalDeliveries)
	require.Equal(t, int64(2), report.CompletedDeliveries)
	// Only completed payments count towards earnings
	require.Equal(t, float64(500), report.TotalEarnings)
	require.Len(t, report.RecentDeliveries, 2)
}
