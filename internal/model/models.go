package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role defines the role of a user account
type Role string

const (
	// RoleStudent represents a student account
	RoleStudent Role = "student"
	// RoleDeliveryPartner represents a delivery partner account
	RoleDeliveryPartner Role = "deliveryPartner"
	// RoleAdmin represents an administrator account
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one a user may register with
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleDeliveryPartner || r == RoleAdmin
}

// User represents an authentication account
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Address is a delivery address in a student's address book
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Street     string    `gorm:"not null" json:"street"`
	City       string    `gorm:"not null" json:"city"`
	State      string    `gorm:"not null" json:"state"`
	PostalCode string    `gorm:"not null" json:"postal_code"`
	IsDefault  bool      `gorm:"not null;default:false" json:"is_default"`
}

// BeforeCreate assigns a UUID primary key
func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Student represents a student profile
type Student struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"-"`
	FirstName      string    `gorm:"not null" json:"first_name"`
	LastName       string    `gorm:"not null" json:"last_name"`
	PhoneNumber    string    `gorm:"not null;uniqueIndex" json:"phone_number"`
	UniversityID   string    `gorm:"column:university_id;not null;uniqueIndex" json:"university_id"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Addresses      []Address `gorm:"foreignKey:StudentID" json:"addresses"`
}

// BeforeCreate assigns a UUID primary key
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// VehicleType defines the vehicle a delivery partner operates
type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleCar     VehicleType = "car"
	VehicleScooter VehicleType = "scooter"
)

// Valid reports whether the vehicle type is a known value
func (v VehicleType) Valid() bool {
	return v == VehicleBike || v == VehicleCar || v == VehicleScooter
}

// GeoPoint is a longitude/latitude pair
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// DeliveryPartner represents a delivery partner profile.
// Approval and rejection are mutually exclusive: approving clears the
// rejection fields, rejecting clears approval and stamps them.
type DeliveryPartner struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User              *User       `gorm:"foreignKey:UserID" json:"-"`
	FirstName         string      `gorm:"not null" json:"first_name"`
	LastName          string      `gorm:"not null" json:"last_name"`
	PhoneNumber       string      `gorm:"not null" json:"phone_number"`
	VehicleType       VehicleType `json:"vehicle_type,omitempty"`
	VehicleNumber     string      `json:"vehicle_number,omitempty"`
	ProfilePicture    string      `json:"profile_picture,omitempty"`
	IsApproved        bool        `gorm:"not null;default:false" json:"is_approved"`
	RejectionReason   *string     `json:"rejection_reason,omitempty"`
	RejectionDate     *time.Time  `json:"rejection_date,omitempty"`
	ReapplicationDate *time.Time  `json:"reapplication_date,omitempty"`
	Rating            float64     `gorm:"not null;default:0" json:"rating"`
	TotalDeliveries   int         `gorm:"not null;default:0" json:"total_deliveries"`
	TotalEarnings     float64     `gorm:"not null;default:0" json:"total_earnings"`
	CurrentLocation   GeoPoint    `gorm:"embedded;embeddedPrefix:location_" json:"current_location"`
	IsAvailable       bool        `gorm:"not null;default:true" json:"is_available"`
}

// BeforeCreate assigns a UUID primary key
func (p *DeliveryPartner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
