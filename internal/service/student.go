package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
	"example.com/campusdrop/internal/utils"
)

// UpdateStudentRequest defines the mutable fields of a student profile
type UpdateStudentRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	ProfilePicture *string `json:"profile_picture"`
}

// AddressRequest defines an address book entry
type AddressRequest struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	IsDefault  bool   `json:"is_default"`
}

// StudentService handles student profiles and their address books
type StudentService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Student, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateStudentRequest) (*model.Student, error)
	AddAddress(ctx context.Context, userID uuid.UUID, req *AddressRequest) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req *AddressRequest) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

type studentService struct {
	students repository.StudentRepository
}

// NewStudentService creates a new student service
func NewStudentService(students repository.StudentRepository) StudentService {
	return &studentService{students: students}
}

func (s *studentService) profile(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Student profile not found")
		}
		return nil, internal(err, "Error fetching student profile")
	}
	return student, nil
}

func (s *studentService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	return s.profile(ctx, userID)
}

func (s *studentService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateStudentRequest) (*model.Student, error) {
	student, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		if !utils.IsValidPhoneNumber(*req.PhoneNumber) {
			return nil, validation("Invalid phone number")
		}
		student.PhoneNumber = *req.PhoneNumber
	}
	if req.ProfilePicture != nil {
		student.ProfilePicture = *req.ProfilePicture
	}

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictField("phoneNumber", student.PhoneNumber, "Phone number is already registered")
		}
		return nil, internal(err, "Error updating student profile")
	}
	return student, nil
}

// AddAddress appends an address; marking it default clears the flag on
// every other address so at most one default exists.
func (s *studentService) AddAddress(ctx context.Context, userID uuid.UUID, req *AddressRequest) (*model.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validation("Missing required address fields: %v", err)
	}

	student, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	address := &model.Address{
		StudentID:  student.ID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
	if err := s.students.AddAddress(ctx, address); err != nil {
		return nil, internal(err, "Error adding address")
	}

	if req.IsDefault {
		if err := s.students.ClearDefaultAddresses(ctx, student.ID, address.ID); err != nil {
			return nil, internal(err, "Error adding address")
		}
	}
	return address, nil
}

func (s *studentService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req *AddressRequest) (*model.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validation("Missing required address fields: %v", err)
	}

	student, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	address, err := s.students.GetAddress(ctx, student.ID, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Address not found")
		}
		return nil, internal(err, "Error fetching address")
	}

	address.Street = req.Street
	address.City = req.City
	address.State = req.State
	address.PostalCode = req.PostalCode
	address.IsDefault = req.IsDefault

	if err := s.students.UpdateAddress(ctx, address); err != nil {
		return nil, internal(err, "Error updating address")
	}

	if req.IsDefault {
		if err := s.students.ClearDefaultAddresses(ctx, student.ID, address.ID); err != nil {
			return nil, internal(err, "Error updating address")
		}
	}
	return address, nil
}

func (s *studentService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	student, err := s.profile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.students.DeleteAddress(ctx, student.ID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Address not found")
		}
		return internal(err, "Error deleting address")
	}
	return nil
}
