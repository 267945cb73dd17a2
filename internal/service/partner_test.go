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

func TestSetAvailabilityRequiresApproval(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)

	userID := uuid.New()
	partner := &model.DeliveryPartner{ID: uuid.New(), UserID: userID, IsApproved: false}
	partnerRepo.On("GetByUserID", mock.Anything, userID).Return(partner, nil)

	svc := NewPartnerService(partnerRepo, new(MockParcelRepository), nil)

	_, err := svc.SetAvailability(context.Background(), userID, false)
	require.Error(t, err)
	require.Equal(t, KindForbidden, KindOf(err))
	partnerRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSetAvailability(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)

	userID := uuid.New()
	partner := &model.DeliveryPartner{ID: uuid.New(), UserID: userID, IsApproved: true, IsAvailable: true}
	partnerRepo.On("GetByUserID", mock.Anything, userID).Return(partner, nil)
	partnerRepo.On("Update", mock.Anything, partner).Return(nil)

	svc := NewPartnerService(partnerRepo, new(MockParcelRepository), nil)

	got, err := svc.SetAvailability(context.Background(), userID, false)
	require.NoError(t, err)
	require.False(t, got.IsAvailable)
}

func TestCreateProfileAlreadyExists(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)

	userID := uuid.New()
	partner := &model.DeliveryPartner{ID: uuid.New(), UserID: userID}
	partnerRepo.On("GetByUserID", mock.Anything, userID).Return(partner, nil)

	svc := NewPartnerService(partnerRepo, new(MockParcelRepository), nil)

	_, err := svc.CreateProfile(context.Background(), userID, &CreatePartnerRequest{
		FirstName:   "Ravi",
		LastName:    "Kumar",
		PhoneNumber: "9876543210",
	})
	require.Error(t, err)
	require.Equal(t, KindConflict, KindOf(err))
}

func TestUpdateProfilePatchesOnlyGivenFields(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)

	userID := uuid.New()
	partner := &model.DeliveryPartner{
		ID:          uuid.New(),
		UserID:      userID,
		FirstName:   "Ravi",
		LastName:    "Kumar",
		PhoneNumber: "9876543210",
		VehicleType: model.VehicleBike,
	}
	partnerRepo.On("GetByUserID", mock.Anything, userID).Return(partner, nil)
	partnerRepo.On("Update", mock.Anything, partner).Return(nil)

	svc := NewPartnerService(partnerRepo, new(MockParcelRepository), nil)

	vehicle := model.VehicleScooter
	got, err := svc.UpdateProfile(context.Background(), userID, &UpdatePartnerRequest{
		VehicleType: &vehicle,
	})
	require.NoError(t, err)
	require.Equal(t, model.VehicleScooter, got.VehicleType)
	require.Equal(t, "Ravi", got.FirstName)
	require.Equal(t, "9876543210", got.PhoneNumber)
}

func TestPartnerStatisticsEarningsWindows(t *testing.T) {
	partnerRepo := new(MockPartnerRepository)
	parcelRepo := new(MockParcelRepository)

	userID := uuid.New()
	partner := &model.DeliveryPartner{ID: uuid.New(), UserID: userID, IsApproved: true, Rating: 4.5}

	now := time.Now()
	// Jan 1 stays inside the current year no matter when the test runs
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	delivered := []*model.Parcel{
		{DeliveredAt: &now, Payment: model.Payment{Amount: 500}},
		{DeliveredAt: &startOfYear, Payment: model.Payment{Amount: 300}},
	}

	partnerRepo.On("GetByUserID", mock.Anything, userID).Return(partner, nil)
	parcelRepo.On("CountsByPartner", mock.Anything, partner.ID).Return(&repository.DeliveryCounts{
		Total:     2,
		Active:    0,
		Completed: 2,
	}, nil)
	parcelRepo.On("FindDeliveredByPartner", mock.Anything, partner.ID, mock.AnythingOfType("time.Time")).Return(delivered, nil)

	svc := NewPartnerService(partnerRepo, parcelRepo, nil)

	stats, err := svc.Statistics(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalDeliveries)
	require.Equal(t, 4.5, stats.Rating)
	require.Equal(t, float64(800), stats.Earnings.Yearly)
	require.GreaterOrEqual(t, stats.Earnings.Monthly, float64(500))
	require.GreaterOrEqual(t, stats.Earnings.Today, float64(500))
}
