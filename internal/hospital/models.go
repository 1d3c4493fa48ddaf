package hospital

import "time"

// Role determines the user ID prefix and which profile a user owns.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// AppointmentStatus follows scheduled -> confirmed -> in-progress -> completed,
// with cancelled reachable from any non-terminal state. Transitions are not
// enforced by the repository.
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in-progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
)

type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentFollowUp     AppointmentType = "follow-up"
	AppointmentEmergency    AppointmentType = "emergency"
	AppointmentRoutine      AppointmentType = "routine"
)

// Default values applied on create when the input omits them
const (
	DefaultAppointmentDuration = 30
	DefaultDoctorExperience    = 0
)

// User represents an identity record. Password is stored as given.
type User struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Doctor is the doctor profile of a user. ID always equals UserID.
type Doctor struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
	Experience     int    `json:"experience"`
}

// Patient is the patient profile of a user. ID always equals UserID.
type Patient struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	DateOfBirth      string     `json:"dateOfBirth"`
	Gender           Gender     `json:"gender"`
	EmergencyContact *string    `json:"emergencyContact,omitempty"`
	BloodType        *BloodType `json:"bloodType,omitempty"`
}

type Appointment struct {
	ID        int               `json:"id"`
	PatientID string            `json:"patientId"`
	DoctorID  string            `json:"doctorId"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Duration  int               `json:"duration"`
	Reason    string            `json:"reason"`
	Status    AppointmentStatus `json:"status"`
	Type      AppointmentType   `json:"type"`
	Notes     *string           `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type Specialization struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UserWithRole is a user plus the profile matching its role, if any.
type UserWithRole struct {
	User
	DoctorInfo  *Doctor  `json:"doctorInfo,omitempty"`
	PatientInfo *Patient `json:"patientInfo,omitempty"`
}

type DoctorWithUser struct {
	Doctor
	User User `json:"user"`
}

type PatientWithUser struct {
	Patient
	User User `json:"user"`
}

// AppointmentWithDetails joins an appointment with the patient's user record
// and the doctor's user record carrying the doctor profile.
type AppointmentWithDetails struct {
	Appointment
	Patient User         `json:"patient"`
	Doctor  UserWithRole `json:"doctor"`
}

// CreateUserInput carries the fields for a new user. Status defaults to active.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   string
	Role      Role
	Status    UserStatus
}

type CreateDoctorInput struct {
	UserID         string
	Specialization string
	LicenseNumber  string
	Experience     *int
}

type CreatePatientInput struct {
	UserID           string
	DateOfBirth      string
	Gender           Gender
	EmergencyContact *string
	BloodType        *BloodType
}

type CreateAppointmentInput struct {
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Duration  *int
	Reason    string
	Status    AppointmentStatus
	Type      AppointmentType
	Notes     *string
}

type CreateSpecializationInput struct {
	Name        string
	Description *string
}

// Update types hold only the fields to change; nil means "leave as is".

type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Phone     *string
	Address   *string
	Role      *Role
	Status    *UserStatus
}

type DoctorUpdate struct {
	Specialization *string
	LicenseNumber  *string
	Experience     *int
}

type PatientUpdate struct {
	DateOfBirth      *string
	Gender           *Gender
	EmergencyContact *string
	BloodType        *BloodType
}

type AppointmentUpdate struct {
	PatientID *string
	DoctorID  *string
	Date      *string
	Time      *string
	Duration  *int
	Reason    *string
	Status    *AppointmentStatus
	Type      *AppointmentType
	Notes     *string
}

type SpecializationUpdate struct {
	Name        *string
	Description *string
}
