package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParcelStatus defines the status of a parcel
type ParcelStatus string

const (
	// ParcelPending means the parcel is waiting for a delivery partner
	ParcelPending ParcelStatus = "pending"
	// ParcelAccepted means a delivery partner has claimed the parcel
	ParcelAccepted ParcelStatus = "accepted"
	// ParcelPickedUp means the partner has collected the parcel
	ParcelPickedUp ParcelStatus = "picked_up"
	// ParcelOutForDelivery means the parcel is on its way to the student
	ParcelOutForDelivery ParcelStatus = "out_for_delivery"
	// ParcelDelivered is a terminal status
	ParcelDelivered ParcelStatus = "delivered"
	// ParcelCancelled is a terminal status
	ParcelCancelled ParcelStatus = "cancelled"
)

// Valid reports whether the status is a known value
func (s ParcelStatus) Valid() bool {
	switch s {
	case ParcelPending, ParcelAccepted, ParcelPickedUp, ParcelOutForDelivery, ParcelDelivered, ParcelCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status is terminal
func (s ParcelStatus) Terminal() bool {
	return s == ParcelDelivered || s == ParcelCancelled
}

// Next returns the status that follows s in the delivery sequence.
// Terminal statuses and pending (which advances via claim, not a status
// update) have no successor.
func (s ParcelStatus) Next() (ParcelStatus, bool) {
	switch s {
	case ParcelAccepted:
		return ParcelPickedUp, true
	case ParcelPickedUp:
		return ParcelOutForDelivery, true
	case ParcelOutForDelivery:
		return ParcelDelivered, true
	}
	return "", false
}

// PaymentStatus defines the status of a parcel's payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Valid reports whether the payment status is a known value
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentFailed
}

// PaymentMethod defines how a parcel is paid for
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
	PaymentUPI    PaymentMethod = "upi"
)

// Valid reports whether the payment method is a known value
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentOnline || m == PaymentUPI
}

// CourierPartner identifies the courier that shipped the parcel to campus
type CourierPartner string

const (
	CourierAmazon   CourierPartner = "amazon"
	CourierFlipkart CourierPartner = "flipkart"
	CourierOther    CourierPartner = "other"
)

// Valid reports whether the courier partner is a known value
func (c CourierPartner) Valid() bool {
	return c == CourierAmazon || c == CourierFlipkart || c == CourierOther
}

// Payment is the payment sub-record of a parcel. Amount is fixed at
// parcel creation; status and method may change afterwards.
type Payment struct {
	Amount      float64       `gorm:"not null" json:"amount"`
	Status      PaymentStatus `gorm:"not null;default:pending" json:"status"`
	Method      PaymentMethod `gorm:"not null" json:"method"`
	UPIID       string        `gorm:"column:upi_id" json:"upi_id,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// DeliveryOTP is the delivery confirmation sub-record, present once OTP
// generation has been requested. Regeneration overwrites it wholesale.
type DeliveryOTP struct {
	Code      string     `json:"-"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Verified  bool       `gorm:"not null;default:false" json:"verified"`
}

// Generated reports whether an OTP has ever been issued for the parcel
func (o DeliveryOTP) Generated() bool {
	return o.Code != ""
}

// PickupLocation is a geo point with a free-text address
type PickupLocation struct {
	GeoPoint
	Address string `json:"address"`
}

// OrderDetails carries courier order metadata supplied by the student
type OrderDetails struct {
	OrderID               string     `json:"order_id,omitempty"`
	OrderDate             *time.Time `json:"order_date,omitempty"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
}

// Parcel is the central entity of the system. DeliveryPartnerID is unset
// while status is pending and, once set by a claim, never changes.
type Parcel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	TrackingNumber    string           `gorm:"not null;uniqueIndex" json:"tracking_number"`
	CourierPartner    CourierPartner   `gorm:"not null" json:"courier_partner"`
	OrderDetails      OrderDetails     `gorm:"embedded;embeddedPrefix:order_" json:"order_details"`
	Status            ParcelStatus     `gorm:"not null;default:pending;index" json:"status"`
	StudentID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"student_id"`
	Student           *Student         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	DeliveryPartnerID *uuid.UUID       `gorm:"type:uuid;index" json:"delivery_partner_id,omitempty"`
	DeliveryPartner   *DeliveryPartner `gorm:"foreignKey:DeliveryPartnerID" json:"delivery_partner,omitempty"`
	PickupLocation    PickupLocation   `gorm:"embedded;embeddedPrefix:pickup_" json:"pickup_location"`
	DeliveryAddressID uuid.UUID        `gorm:"type:uuid;not null" json:"delivery_address_id"`
	Payment           Payment          `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	DeliveryOTP       DeliveryOTP      `gorm:"embedded;embeddedPrefix:otp_" json:"delivery_otp"`
	Notes             string           `json:"notes,omitempty"`
	DeliveredAt       *time.Time       `json:"delivered_at,omitempty"`
}

// BeforeCreate assigns a UUID primary key
func (p *Parcel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
