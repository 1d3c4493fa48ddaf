package hospital

import "context"

// ServiceInterface defines the contract for hospital business logic operations
type ServiceInterface interface {
	Login(ctx context.Context, userID, password string) (*UserWithRole, error)
	RegisterUser(ctx context.Context, in RegisterInput) (*UserWithRole, error)

	ListUsers(ctx context.Context, role Role) ([]User, error)
	GetUser(ctx context.Context, id string) (*UserWithRole, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error)

	ListDoctors(ctx context.Context) ([]DoctorWithUser, error)
	GetDoctor(ctx context.Context, id string) (*DoctorWithUser, error)
	CreateDoctor(ctx context.Context, in CreateDoctorInput) (*Doctor, error)
	UpdateDoctor(ctx context.Context, id string, upd DoctorUpdate) (*Doctor, error)

	ListPatients(ctx context.Context) ([]PatientWithUser, error)
	GetPatient(ctx context.Context, id string) (*PatientWithUser, error)
	CreatePatient(ctx context.Context, in CreatePatientInput) (*Patient, error)
	UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (*Patient, error)

	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]AppointmentWithDetails, error)
	GetAppointment(ctx context.Context, id int) (*Appointment, error)
	CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error)
	CancelAppointment(ctx context.Context, id int) (*Appointment, error)

	ListSpecializations(ctx context.Context) ([]Specialization, error)
	GetSpecialization(ctx context.Context, id int) (*Specialization, error)
	CreateSpecialization(ctx context.Context, in CreateSpecializationInput) (*Specialization, error)
	UpdateSpecialization(ctx context.Context, id int, upd SpecializationUpdate) (*Specialization, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)

// MetricsRecorder records business metrics. *telemetry.Metrics satisfies it.
type MetricsRecorder interface {
	RecordOperation(ctx context.Context, entity, operation string)
	RecordLoginFailure(ctx context.Context, reason string)
}

// RegisterInput creates a user and, for doctors and patients, the matching
// profile in one call.
type RegisterInput struct {
	User    CreateUserInput
	Doctor  *CreateDoctorInput
	Patient *CreatePatientInput
}

// AppointmentFilter narrows ListAppointments. PatientID wins when both are set.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
}
