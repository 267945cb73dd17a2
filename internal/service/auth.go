package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"example.com/campusdrop/internal/auth"
	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
	"example.com/campusdrop/internal/utils"
)

// RegisterRequest defines the request to create an account with its
// role-specific profile
type RegisterRequest struct {
	Email        string            `json:"email" validate:"required,email"`
	Password     string            `json:"password" validate:"required,min=6"`
	Role         model.Role        `json:"role" validate:"required"`
	FirstName    string            `json:"first_name" validate:"required"`
	LastName     string            `json:"last_name" validate:"required"`
	PhoneNumber  string            `json:"phone_number" validate:"required"`
	UniversityID string            `json:"university_id"`
	VehicleType  model.VehicleType `json:"vehicle_type"`
	VehicleNumber string           `json:"vehicle_number"`
}

// LoginRequest defines the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries the issued token and a user summary
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserSummary is the public view of an account
type UserSummary struct {
	ID   uuid.UUID  `json:"id"`
	Role model.Role `json:"role"`
}

// Profile bundles a user with its role-specific profile for /auth/me
type Profile struct {
	User    *model.User `json:"user"`
	Profile interface{} `json:"profile,omitempty"`
}

// AuthService handles registration, login and identity lookups
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type authService struct {
	users    repository.UserRepository
	students repository.StudentRepository
	partners repository.PartnerRepository
	tokens   *auth.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repository.UserRepository,
	students repository.StudentRepository,
	partners repository.PartnerRepository,
	tokens *auth.TokenManager,
) AuthService {
	return &authService{
		users:    users,
		students: students,
		partners: partners,
		tokens:   tokens,
	}
}

// Register creates the user account and its role profile. A profile
// uniqueness conflict rolls the account back with a compensating delete
// so no orphaned user is left behind.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validation("Missing or invalid registration fields: %v", err)
	}
	if req.Role != model.RoleStudent && req.Role != model.RoleDeliveryPartner {
		return nil, validation("Role must be student or deliveryPartner")
	}
	if !utils.IsValidPhoneNumber(req.PhoneNumber) {
		return nil, validation("Invalid phone number")
	}
	if req.Role == model.RoleStudent && req.UniversityID == "" {
		return nil, validation("University ID is required for students")
	}
	if req.VehicleType != "" && !req.VehicleType.Valid() {
		return nil, validation("Unknown vehicle type %q", req.VehicleType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal(err, "Error creating user")
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictField("email", req.Email, "Email is already registered")
		}
		return nil, internal(err, "Error creating user")
	}

	if err := s.createProfile(ctx, user, req); err != nil {
		// Roll the account back so a profile conflict leaves no orphan
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			log.Error().Err(delErr).Str("user_id", user.ID.String()).Msg("Failed to roll back user after profile conflict")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, internal(err, "Error issuing token")
	}

	return &AuthResult{
		Token: token,
		User:  UserSummary{ID: user.ID, Role: user.Role},
	}, nil
}

func (s *authService) createProfile(ctx context.Context, user *model.User, req *RegisterRequest) error {
	switch req.Role {
	case model.RoleStudent:
		// Precheck the unique fields so the conflict can name the
		// offender; the unique indexes still backstop races
		if _, err := s.students.GetByUniversityID(ctx, req.UniversityID); err == nil {
			return conflictField("universityId", req.UniversityID, "University ID is already registered")
		}
		if _, err := s.students.GetByPhoneNumber(ctx, req.PhoneNumber); err == nil {
			return conflictField("phoneNumber", req.PhoneNumber, "Phone number is already registered")
		}

		student := &model.Student{
			UserID:       user.ID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PhoneNumber:  req.PhoneNumber,
			UniversityID: req.UniversityID,
		}
		if err := s.students.Create(ctx, student); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return conflictField("universityId", req.UniversityID, "University ID or phone number is already registered")
			}
			return internal(err, "Error creating student profile")
		}
	case model.RoleDeliveryPartner:
		partner := &model.DeliveryPartner{
			UserID:        user.ID,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			PhoneNumber:   req.PhoneNumber,
			VehicleType:   req.VehicleType,
			VehicleNumber: req.VehicleNumber,
			IsAvailable:   true,
		}
		if err := s.partners.Create(ctx, partner); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return conflictField("phoneNumber", req.PhoneNumber, "Phone number is already registered")
			}
			return internal(err, "Error creating delivery partner profile")
		}
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validation("Missing or invalid login fields: %v", err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, forbidden("Invalid credentials")
		}
		return nil, internal(err, "Error logging in")
	}
	if !user.IsActive {
		return nil, forbidden("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, forbidden("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, internal(err, "Error issuing token")
	}

	return &AuthResult{
		Token: token,
		User:  UserSummary{ID: user.ID, Role: user.Role},
	}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, internal(err, "Error fetching user")
	}

	result := &Profile{User: user}
	switch user.Role {
	case model.RoleStudent:
		if student, err := s.students.GetByUserID(ctx, userID); err == nil {
			result.Profile = student
		}
	case model.RoleDeliveryPartner:
		if partner, err := s.partners.GetByUserID(ctx, userID); err == nil {
			result.Profile = partner
		}
	}
	return result, nil
}
