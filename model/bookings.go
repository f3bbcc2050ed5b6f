package model

import "time"

// StatusPending is the status assigned to newly submitted bookings.
const StatusPending = "pending"

// BookingSubmittedMessage is the message returned to the customer when a booking is accepted.
const BookingSubmittedMessage = "Booking submitted successfully"

// Booking represents a scheduling request for a studio session.
type Booking struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Size        string    `json:"size"`
	Placement   string    `json:"placement"`
	Design      string    `json:"design"`
	ServiceType string    `json:"serviceType"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookingRequest is the body of a booking submission.
type BookingRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Size        string `json:"size,omitempty"`
	Placement   string `json:"placement,omitempty"`
	Design      string `json:"design,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
}

// NewBooking builds a pending booking from a submission, applying the default service type.
func NewBooking(req BookingRequest, now time.Time) *Booking {
	return &Booking{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Date:        req.Date,
		Time:        req.Time,
		Size:        req.Size,
		Placement:   req.Placement,
		Design:      req.Design,
		ServiceType: ServiceTypeOrDefault(req.ServiceType),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ServiceTypeOrDefault returns the service type, or DefaultCategory if it's empty.
func ServiceTypeOrDefault(serviceType string) string {
	if serviceType == "" {
		return DefaultCategory
	}
	return serviceType
}

// BookingReceipt is returned when a booking is submitted.
type BookingReceipt struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// StatusUpdate is the body of a booking status change.
type StatusUpdate struct {
	Status string `json:"status"`
}

// StatusResult is the acknowledgement returned when a booking status changes.
type StatusResult struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Status  string `json:"status"`
}

// LoginRequest is the body of an admin login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResult is returned by a successful admin login.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}
