package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/campusdrop/internal/model"
)

// StudentRepository defines data access for student profiles
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error)
	GetByUniversityID(ctx context.Context, universityID string) (*model.Student, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*model.Student, error)
	AddAddress(ctx context.Context, address *model.Address) error
	UpdateAddress(ctx context.Context, address *model.Address) error
	DeleteAddress(ctx context.Context, studentID, addressID uuid.UUID) error
	GetAddress(ctx context.Context, studentID, addressID uuid.UUID) (*model.Address, error)
	ClearDefaultAddresses(ctx context.Context, studentID uuid.UUID, except uuid.UUID) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).Preload("Addresses").Where("id = ?", id).First(&student).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).Preload("Addresses").Where("user_id = ?", userID).First(&student).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetByUniversityID(ctx context.Context, universityID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).Where("university_id = ?", universityID).First(&student).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).First(&student).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) AddAddress(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *studentRepository) UpdateAddress(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *studentRepository) DeleteAddress(ctx context.Context, studentID, addressID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", addressID, studentID).
		Delete(&model.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *studentRepository) GetAddress(ctx context.Context, studentID, addressID uuid.UUID) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", addressID, studentID).
		First(&address).Error
	if err != nil {
		if IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

// ClearDefaultAddresses unsets is_default on every address of the student
// except the given one. Pass uuid.Nil to clear all of them.
func (r *studentRepository) ClearDefaultAddresses(ctx context.Context, studentID uuid.UUID, except uuid.UUID) error {
	q := r.db.WithContext(ctx).Model(&model.Address{}).
		Where("student_id = ? AND is_default = true", studentID)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	return q.Update("is_default", false).Error
}
