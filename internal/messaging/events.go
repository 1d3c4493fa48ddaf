package messaging

import (
	"time"

	"github.com/google/uuid"
)

// ServiceName identifies this service in published events
const ServiceName = "hospital-service"

// Event routing keys as constants
const (
	// User events (all roles)
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventUserStatusChanged = "user.status_changed"

	// Profile events
	EventDoctorCreated  = "doctor.created"
	EventDoctorUpdated  = "doctor.updated"
	EventPatientCreated = "patient.created"
	EventPatientUpdated = "patient.updated"

	// Appointment events
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentUpdated       = "appointment.updated"
	EventAppointmentStatusChanged = "appointment.status_changed"

	// Catalog events
	EventSpecializationCreated = "specialization.created"
	EventSpecializationUpdated = "specialization.updated"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// UserEvent is published when a user is created or changed
type UserEvent struct {
	BaseEvent
	Data UserEventData `json:"data"`
}

type UserEventData struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"` // admin, doctor, receptionist, patient
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStatusChangedEvent represents a user status change event
type UserStatusChangedEvent struct {
	BaseEvent
	Data UserStatusChangedData `json:"data"`
}

type UserStatusChangedData struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	OldStatus string    `json:"old_status"` // "active" or "inactive"
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

// DoctorEvent is published when a doctor profile is created or changed
type DoctorEvent struct {
	BaseEvent
	Data DoctorEventData `json:"data"`
}

type DoctorEventData struct {
	DoctorID       string `json:"doctor_id"`
	UserID         string `json:"user_id"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`
	Experience     int    `json:"experience"`
}

// PatientEvent is published when a patient profile is created or changed
type PatientEvent struct {
	BaseEvent
	Data PatientEventData `json:"data"`
}

type PatientEventData struct {
	PatientID   string `json:"patient_id"`
	UserID      string `json:"user_id"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender"`
	BloodType   string `json:"blood_type,omitempty"`
}

// AppointmentEvent is published when an appointment is created or changed
type AppointmentEvent struct {
	BaseEvent
	Data AppointmentEventData `json:"data"`
}

type AppointmentEventData struct {
	AppointmentID int    `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	DoctorID      string `json:"doctor_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Duration      int    `json:"duration"`
	Status        string `json:"status"`
	Type          string `json:"type"`
}

// AppointmentStatusChangedEvent represents an appointment status change event
type AppointmentStatusChangedEvent struct {
	BaseEvent
	Data AppointmentStatusChangedData `json:"data"`
}

type AppointmentStatusChangedData struct {
	AppointmentID int       `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	DoctorID      string    `json:"doctor_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}

// SpecializationEvent is published when a catalog entry is created or changed
type SpecializationEvent struct {
	BaseEvent
	Data SpecializationEventData `json:"data"`
}

type SpecializationEventData struct {
	SpecializationID int    `json:"specialization_id"`
	Name             string `json:"name"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(), // Explicitly set to UTC
		ServiceName: ServiceName,
	}
}
