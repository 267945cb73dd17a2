package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/campusdrop/internal/cache"
	"example.com/campusdrop/internal/mailer"
	"example.com/campusdrop/internal/model"
	"example.com/campusdrop/internal/repository"
	"example.com/campusdrop/internal/utils"
)

// CreateParcelRequest defines the request to register a parcel for delivery
type CreateParcelRequest struct {
	TrackingNumber    string               `json:"tracking_number" validate:"required"`
	CourierPartner    model.CourierPartner `json:"courier_partner" validate:"required"`
	OrderDetails      model.OrderDetails   `json:"order_details"`
	PickupLongitude   float64              `json:"pickup_longitude"`
	PickupLatitude    float64              `json:"pickup_latitude"`
	PickupAddress     string               `json:"pickup_address" validate:"required"`
	DeliveryAddressID uuid.UUID            `json:"delivery_address_id" validate:"required"`
	Amount            float64              `json:"amount" validate:"required,gt=0"`
	Method            model.PaymentMethod  `json:"method" validate:"required"`
	Notes             string               `json:"notes"`
}

// UpdatePaymentRequest defines the request to update a parcel's payment
type UpdatePaymentRequest struct {
	Method model.PaymentMethod `json:"method" validate:"required"`
	Status model.PaymentStatus `json:"status" validate:"required"`
	UPIID  string              `json:"upi_id"`
}

// ParcelService owns the parcel lifecycle: creation, the claim, the
// delivery OTP sub-state, payment updates and the status machine.
type ParcelService interface {
	Create(ctx context.Context, userID uuid.UUID, req *CreateParcelRequest) (*model.Parcel, error)
	ListForStudent(ctx context.Context, userID uuid.UUID) ([]*model.Parcel, error)
	ListAvailable(ctx context.Context, userID uuid.UUID) ([]*model.Parcel, error)
	Accept(ctx context.Context, parcelID, userID uuid.UUID) (*model.Parcel, error)
	GenerateDeliveryOTP(ctx context.Context, parcelID, userID uuid.UUID) error
	VerifyDeliveryOTP(ctx context.Context, parcelID, userID uuid.UUID, code string) error
	UpdateStatus(ctx context.Context, parcelID, userID uuid.UUID, newStatus model.ParcelStatus) (*model.Parcel, error)
	UpdatePayment(ctx context.Context, parcelID, userID uuid.UUID, req *UpdatePaymentRequest) (*model.Parcel, error)
	Cancel(ctx context.Context, parcelID, userID uuid.UUID, role model.Role) (*model.Parcel, error)
	Get(ctx context.Context, parcelID, userID uuid.UUID, role model.Role) (*model.Parcel, error)
}

type parcelService struct {
	parcels     repository.ParcelRepository
	students    repository.StudentRepository
	partners    repository.PartnerRepository
	mail        mailer.Mailer
	cache       *cache.RedisCache
	otpValidity time.Duration
}

// NewParcelService creates a new parcel service
func NewParcelService(
	parcels repository.ParcelRepository,
	students repository.StudentRepository,
	partners repository.PartnerRepository,
	mail mailer.Mailer,
	redisCache *cache.RedisCache,
	otpValidity time.Duration,
) ParcelService {
	if otpValidity <= 0 {
		otpValidity = 10 * time.Minute
	}
	return &parcelService{
		parcels:     parcels,
		students:    students,
		partners:    partners,
		mail:        mail,
		cache:       redisCache,
		otpValidity: otpValidity,
	}
}

// approvedPartner resolves the caller's partner profile and rejects
// unapproved accounts
func (s *parcelService) approvedPartner(ctx context.Context, userID uuid.UUID) (*model.DeliveryPartner, error) {
	partner, err := s.partners.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, forbidden("Delivery partner profile not found")
		}
		return nil, internal(err, "Error fetching delivery partner profile")
	}
	if !partner.IsApproved {
		return nil, forbidden("Your account is not approved by admin yet! Please contact to admin")
	}
	return partner, nil
}

// assignedTo reports whether the parcel is assigned to the partner
func assignedTo(parcel *model.Parcel, partner *model.DeliveryPartner) bool {
	return parcel.DeliveryPartnerID != nil && *parcel.DeliveryPartnerID == partner.ID
}

func (s *parcelService) Create(ctx context.Context, userID uuid.UUID, req *CreateParcelRequest) (*model.Parcel, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validation("Missing required parcel fields: %v", err)
	}
	if !req.CourierPartner.Valid() {
		return nil, validation("Unknown courier partner %q", req.CourierPartner)
	}
	if !req.Method.Valid() {
		return nil, validation("Unknown payment method %q", req.Method)
	}

	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Student profile not found")
		}
		return nil, internal(err, "Error fetching student profile")
	}

	// The delivery address must come from the student's own address book
	if _, err := s.students.GetAddress(ctx, student.ID, req.DeliveryAddressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validation("Delivery address not found")
		}
		return nil, internal(err, "Error fetching delivery address")
	}

	parcel := &model.Parcel{
		TrackingNumber: req.TrackingNumber,
		CourierPartner: req.CourierPartner,
		OrderDetails:   req.OrderDetails,
		Status:         model.ParcelPending,
		StudentID:      student.ID,
		PickupLocation: model.PickupLocation{
			GeoPoint: model.GeoPoint{Longitude: req.PickupLongitude, Latitude: req.PickupLatitude},
			Address:  req.PickupAddress,
		},
		DeliveryAddressID: req.DeliveryAddressID,
		Payment: model.Payment{
			Amount: req.Amount,
			Status: model.PaymentPending,
			Method: req.Method,
		},
		Notes: req.Notes,
	}

	if err := s.parcels.Create(ctx, parcel); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictField("trackingNumber", req.TrackingNumber, "Tracking number is already registered")
		}
		return nil, internal(err, "Error creating parcel request")
	}
	return parcel, nil
}

func (s *parcelService) ListForStudent(ctx context.Context, userID uuid.UUID) ([]*model.Parcel, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Student profile not found")
		}
		return nil, internal(err, "Error fetching student profile")
	}

	parcels, err := s.parcels.FindByStudent(ctx, student.ID)
	if err != nil {
		return nil, internal(err, "Error fetching parcels")
	}
	return parcels, nil
}

func (s *parcelService) ListAvailable(ctx context.Context, userID uuid.UUID) ([]*model.Parcel, error) {
	if _, err := s.approvedPartner(ctx, userID); err != nil {
		return nil, err
	}

	parcels, err := s.parcels.FindAvailable(ctx)
	if err != nil {
		return nil, internal(err, "Error fetching available parcels")
	}
	return parcels, nil
}

// Accept claims a pending parcel for the calling partner. The claim is a
// single conditional update, so concurrent accepts resolve to exactly
// one winner.
func (s *parcelService) Accept(ctx context.Context, parcelID, userID uuid.UUID) (*model.Parcel, error) {
	partner, err := s.approvedPartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.parcels.GetByID(ctx, parcelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Parcel not found")
		}
		return nil, internal(err, "Error fetching parcel")
	}

	if err := s.parcels.Claim(ctx, parcelID, partner.ID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, precondition("Parcel is not available for pickup")
		}
		return nil, internal(err, "Error accepting parcel")
	}

	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		return nil, internal(err, "Error fetching parcel")
	}
	return parcel, nil
}

// GenerateDeliveryOTP issues a fresh delivery code, overwriting any prior
// one, and emails it to the student. The code stays persisted even when
// the email fails, so generation can simply be retried.
func (s *parcelService) GenerateDeliveryOTP(ctx context.Context, parcelID, userID uuid.UUID) error {
	partner, err := s.approvedPartner(ctx, userID)
	if err != nil {
		return err
	}

	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Parcel not found")
		}
		return internal(err, "Error fetching parcel")
	}
	if !assignedTo(parcel, partner) {
		return forbidden("Not authorized to update this parcel")
	}
	if parcel.Status != model.ParcelOutForDelivery {
		return precondition("Parcel must be out for delivery to generate OTP")
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return internal(err, "Error generating OTP")
	}
	expiresAt := time.Now().Add(s.otpValidity)
	parcel.DeliveryOTP = model.DeliveryOTP{
		Code:      code,
		ExpiresAt: &expiresAt,
		Verified:  false,
	}

	if err := s.parcels.Update(ctx, parcel); err != nil {
		return internal(err, "Error generating OTP")
	}

	if parcel.Student == nil || parcel.Student.User == nil || parcel.Student.User.Email == "" {
		return validation("Student email not found")
	}

	if err := s.mail.SendDeliveryOTP(parcel.Student.User.Email, code, s.otpValidity); err != nil {
		return notification(err, "Failed to send OTP email")
	}

	log.Info().
		Str("parcel_id", parcelID.String()).
		Time("expires_at", expiresAt).
		Msg("Delivery OTP generated")
	return nil
}

// VerifyDeliveryOTP checks the supplied code against the stored one.
// Verification is single-use: once verified, further calls conflict.
func (s *parcelService) VerifyDeliveryOTP(ctx context.Context, parcelID, userID uuid.UUID, code string) error {
	partner, err := s.approvedPartner(ctx, userID)
	if err != nil {
		return err
	}

	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Parcel not found")
		}
		return internal(err, "Error fetching parcel")
	}
	if !assignedTo(parcel, partner) {
		return forbidden("Not authorized to update this parcel")
	}

	otp := parcel.DeliveryOTP
	if !otp.Generated() {
		return notFound("No OTP generated for this parcel")
	}
	if otp.Verified {
		return conflict("OTP already verified")
	}
	if otp.ExpiresAt == nil || time.Now().After(*otp.ExpiresAt) {
		return expired("OTP has expired")
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		return validation("Invalid OTP")
	}

	parcel.DeliveryOTP.Verified = true
	if err := s.parcels.Update(ctx, parcel); err != nil {
		return internal(err, "Error verifying OTP")
	}
	return nil
}

// UpdateStatus advances the parcel through the delivery sequence. The
// delivered transition requires a verified OTP and a completed payment,
// stamps deliveredAt, and credits the partner's earnings exactly once.
func (s *parcelService) UpdateStatus(ctx context.Context, parcelID, userID uuid.UUID, newStatus model.ParcelStatus) (*model.Parcel, error) {
	if !newStatus.Valid() {
		return nil, validation("Unknown parcel status %q", newStatus)
	}

	partner, err := s.approvedPartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Parcel not found")
		}
		return nil, internal(err, "Error fetching parcel")
	}
	if !assignedTo(parcel, partner) {
		return nil, forbidden("Not authorized to update this parcel")
	}

	// Transitions proceed strictly through the delivery sequence
	next, ok := parcel.Status.Next()
	if !ok || newStatus != next {
		return nil, precondition("Cannot move parcel from %s to %s", parcel.Status, newStatus)
	}

	if newStatus == model.ParcelDelivered {
		if !parcel.DeliveryOTP.Verified {
			return nil, precondition("OTP verification required before marking as delivered")
		}
		if parcel.Payment.Status != model.PaymentCompleted {
			return nil, precondition("Payment must be completed before marking as delivered")
		}

		deliveredAt := time.Now()
		if err := s.parcels.MarkDelivered(ctx, parcelID, partner.ID, deliveredAt); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return nil, precondition("Parcel is no longer out for delivery")
			}
			return nil, internal(err, "Error updating parcel status")
		}

		// The delivered transition above is single-shot, so this credit
		// cannot be applied twice for the same parcel
		if err := s.partners.CreditDelivery(ctx, partner.ID, parcel.Payment.Amount); err != nil {
			return nil, internal(err, "Error crediting delivery earnings")
		}
		s.invalidateStats(ctx, partner.ID)
	} else {
		if err := s.parcels.AdvanceStatus(ctx, parcelID, parcel.Status, newStatus); err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				return nil, precondition("Parcel status changed, please retry")
			}
			return nil, internal(err, "Error updating parcel status")
		}
	}

	updated, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		return nil, internal(err, "Error fetching parcel")
	}
	return updated, nil
}

// UpdatePayment replaces the payment method, status and UPI id. The
// amount is fixed at creation and never changes here.
func (s *parcelService) UpdatePayment(ctx context.Context, parcelID, userID uuid.UUID, req *UpdatePaymentRequest) (*model.Parcel, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validation("Missing required payment fields: %v", err)
	}
	if !req.Method.Valid() {
		return nil, validation("Unknown payment method %q", req.Method)
	}
	if !req.Status.Valid() {
		return nil, validation("Unknown payment status %q", req.Status)
	}

	partner, err := s.approvedPartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Parcel not found")
		}
		return nil, internal(err, "Error fetching parcel")
	}
	if !assignedTo(parcel, partner) {
		return nil, forbidden("Not authorized to update this parcel")
	}

	parcel.Payment.Method = req.Method
	parcel.Payment.Status = req.Status
	parcel.Payment.UPIID = req.UPIID
	if req.Status == model.PaymentCompleted {
		now := time.Now()
		parcel.Payment.CompletedAt = &now
	} else {
		parcel.Payment.CompletedAt = nil
	}

	if err := s.parcels.Update(ctx, parcel); err != nil {
		return nil, internal(err, "Error updating payment status")
	}
	return parcel, nil
}

// Cancel moves a non-terminal parcel to cancelled. The owning student
// may cancel at any point; the assigned partner may cancel after the
// claim. Cancellation is not gated by OTP or payment.
func (s *parcelService) Cancel(ctx context.Context, parcelID, userID uuid.UUID, role model.Role) (*model.Parcel, error) {
	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Parcel not found")
		}
		return nil, internal(err, "Error fetching parcel")
	}

	switch role {
	case model.RoleStudent:
		student, err := s.students.GetByUserID(ctx, userID)
		if err != nil {
			return nil, forbidden("Student profile not found")
		}
		if parcel.StudentID != student.ID {
			return nil, forbidden("Not authorized to cancel this parcel")
		}
	case model.RoleDeliveryPartner:
		partner, err := s.partners.GetByUserID(ctx, userID)
		if err != nil {
			return nil, forbidden("Delivery partner profile not found")
		}
		if !assignedTo(parcel, partner) {
			return nil, forbidden("Not authorized to cancel this parcel")
		}
	default:
		return nil, forbidden("Not authorized to cancel this parcel")
	}

	if parcel.Status.Terminal() {
		return nil, precondition("Cannot cancel a %s parcel", parcel.Status)
	}

	if err := s.parcels.Cancel(ctx, parcelID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, precondition("Parcel reached a terminal status, please refresh")
		}
		return nil, internal(err, "Error cancelling parcel")
	}

	updated, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		return nil, internal(err, "Error fetching parcel")
	}
	return updated, nil
}

func (s *parcelService) Get(ctx context.Context, parcelID, userID uuid.UUID, role model.Role) (*model.Parcel, error) {
	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Parcel not found")
		}
		return nil, internal(err, "Error fetching parcel")
	}

	switch role {
	case model.RoleAdmin:
		return parcel, nil
	case model.RoleStudent:
		student, err := s.students.GetByUserID(ctx, userID)
		if err != nil {
			return nil, forbidden("Student profile not found")
		}
		if parcel.StudentID != student.ID {
			return nil, forbidden("Not authorized to view this parcel")
		}
		return parcel, nil
	case model.RoleDeliveryPartner:
		partner, err := s.approvedPartner(ctx, userID)
		if err != nil {
			return nil, err
		}
		if parcel.DeliveryPartnerID != nil && *parcel.DeliveryPartnerID != partner.ID {
			return nil, forbidden("Not authorized to view this parcel")
		}
		return parcel, nil
	}
	return nil, forbidden("Not authorized to view this parcel")
}

func (s *parcelService) invalidateStats(ctx context.Context, partnerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.PartnerStatsKey(partnerID), cache.AdminStatsKey()); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate statistics cache")
	}
}
