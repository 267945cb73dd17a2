package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
)

func TestUpdateStudentProfile(t *testing.T) {
	studentRepo := new(MockStudentRepository)

	userID := uuid.New()
	student := &model.Student{
		ID:           uuid.New(),
		UserID:       userID,
		FirstName:    "Asha",
		LastName:     "Patel",
		PhoneNumber:  "9876543210",
		UniversityID: "UNI-42",
	}
	studentRepo.On("GetByUserID", mock.Anything, userID).Return(student, nil)
	studentRepo.On("Update", mock.Anything, student).Return(nil)

	svc := NewStudentService(studentRepo)

	first := "Aisha"
	got, err := svc.UpdateProfile(context.Background(), userID, &UpdateStudentRequest{FirstName: &first})
	require.NoError(t, err)
	require.Equal(t, "Aisha", got.FirstName)
	// Untouched fields keep their values
	require.Equal(t, "Patel", got.LastName)
	require.Equal(t, "UNI-42", got.UniversityID)
}

func TestUpdateStudentProfileInvalidPhone(t *testing.T) {
	studentRepo := new(MockStudentRepository)

	userID := uuid.New()
	student := &model.Student{ID: uuid.New(), UserID: userID, PhoneNumber: "9876543210"}
	studentRepo.On("GetByUserID", mock.Anything, userID).Return(student, nil)

	svc := NewStudentService(studentRepo)

	phone := "nope"
	_, err := svc.UpdateProfile(context.Background(), userID, &UpdateStudentRequest{PhoneNumber: &phone})
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	studentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddDefaultAddressClearsOthers(t *testing.T) {
	studentRepo := new(MockStudentRepository)

	userID := uuid.New()
	student := &model.Student{ID: uuid.New(), UserID: userID}
	studentRepo.On("GetByUserID", mock.Anything, userID).Return(student, nil)
	studentRepo.On("AddAddress", mock.Anything, mock.AnythingOfType("*model.Address")).Return(nil)
	studentRepo.On("ClearDefaultAddresses", mock.Anything, student.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)

	svc := NewStudentService(studentRepo)

	address, err := svc.AddAddress(context.Background(), userID, &AddressRequest{
		Street:     "Hostel Block C",
		City:       "Pune",
		State:      "Maharashtra",
		PostalCode: "411001",
		IsDefault:  true,
	})
	require.NoError(t, err)
	require.True(t, address.IsDefault)
	require.Equal(t, student.ID, address.StudentID)
	studentRepo.AssertExpectations(t)
}

func TestAddNonDefaultAddress(t *testing.T) {
	studentRepo := new(MockStudentRepository)

	userID := uuid.New()
	student := &model.Student{ID: uuid.New(), UserID: userID}
	studentRepo.On("GetByUserID", mock.Anything, userID).Return(student, nil)
	studentRepo.On("AddAddress", mock.Anything, mock.AnythingOfType("*model.Address")).Return(nil)

	svc := NewStudentService(studentRepo)

	_, err := svc.AddAddress(context.Background(), userID, &AddressRequest{
		Street:     "Hostel Block C",
		City:       "Pune",
		State:      "Maharashtra",
		PostalCode: "411001",
	})
	require.NoError(t, err)
	studentRepo.AssertNotCalled(t, "ClearDefaultAddresses", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUnknownAddress(t *testing.T) {
	studentRepo := new(MockStudentRepository)

	userID := uuid.New()
	addressID := uuid.New()
	student := &model.Student{ID: uuid.New(), UserID: userID}
	studentRepo.On("GetByUserID", mock.Anything, userID).Return(student, nil)
	studentRepo.On("DeleteAddress", mock.Anything, student.ID, addressID).Return(repository.ErrNotFound)

	svc := NewStudentService(studentRepo)

	err := svc.DeleteAddress(context.Background(), userID, addressID)
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}
