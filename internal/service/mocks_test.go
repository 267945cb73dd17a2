package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
)

// Mock repositories for testing

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *model.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Update(ctx context.Context, student *model.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByUniversityID(ctx context.Context, universityID string) (*model.Student, error) {
	args := m.Called(ctx, universityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*model.Student, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) AddAddress(ctx context.Context, address *model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockStudentRepository) UpdateAddress(ctx context.Context, address *model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockStudentRepository) DeleteAddress(ctx context.Context, studentID, addressID uuid.UUID) error {
	args := m.Called(ctx, studentID, addressID)
	return args.Error(0)
}

func (m *MockStudentRepository) GetAddress(ctx context.Context, studentID, addressID uuid.UUID) (*model.Address, error) {
	args := m.Called(ctx, studentID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockStudentRepository) ClearDefaultAddresses(ctx context.Context, studentID uuid.UUID, except uuid.UUID) error {
	args := m.Called(ctx, studentID, except)
	return args.Error(0)
}

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) Create(ctx context.Context, partner *model.DeliveryPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, partner *model.DeliveryPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DeliveryPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeliveryPartner), args.Error(1)
}

func (m *MockPartnerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeliveryPartner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context) ([]*model.DeliveryPartner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DeliveryPartner), args.Error(1)
}

func (m *MockPartnerRepository) CreditDelivery(ctx context.Context, id uuid.UUID, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockPartnerRepository) Counts(ctx context.Context) (*repository.PartnerCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PartnerCounts), args.Error(1)
}

type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) Create(ctx context.Context, parcel *model.Parcel) error {
	args := m.Called(ctx, parcel)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, parcel *model.Parcel) error {
	args := m.Called(ctx, parcel)
	return args.Error(0)
}

func (m *MockParcelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Parcel, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) FindAvailable(ctx context.Context) ([]*model.Parcel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]*model.Parcel, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) FindAll(ctx context.Context) ([]*model.Parcel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) Claim(ctx context.Context, parcelID, partnerID uuid.UUID) error {
	args := m.Called(ctx, parcelID, partnerID)
	return args.Error(0)
}

func (m *MockParcelRepository) AdvanceStatus(ctx context.Context, parcelID uuid.UUID, from, to model.ParcelStatus) error {
	args := m.Called(ctx, parcelID, from, to)
	return args.Error(0)
}

func (m *MockParcelRepository) MarkDelivered(ctx context.Context, parcelID, partnerID uuid.UUID, deliveredAt time.Time) error {
	args := m.Called(ctx, parcelID, partnerID, deliveredAt)
	return args.Error(0)
}

func (m *MockParcelRepository) Cancel(ctx context.Context, parcelID uuid.UUID) error {
	args := m.Called(ctx, parcelID)
	return args.Error(0)
}

func (m *MockParcelRepository) CountsByPartner(ctx context.Context, partnerID uuid.UUID) (*repository.DeliveryCounts, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DeliveryCounts), args.Error(1)
}

func (m *MockParcelRepository) FindDeliveredByPartner(ctx context.Context, partnerID uuid.UUID, since time.Time) ([]*model.Parcel, error) {
	args := m.Called(ctx, partnerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Parcel), args.Error(1)
}

func (m *MockParcelRepository) FindRecentByPartner(ctx context.Context, partnerID uuid.UUID, limit int) ([]*model.Parcel, error) {
	args := m.Called(ctx, partnerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Parcel), args.Error(1)
}

// MockMailer for testing OTP delivery

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendDeliveryOTP(to, code string, validity time.Duration) error {
	args := m.Called(to, code, validity)
	return args.Error(0)
}
