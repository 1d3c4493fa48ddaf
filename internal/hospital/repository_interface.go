package hospital

import "context"

// RepositoryInterface defines the contract for hospital data access.
//
// Lookups by primary key return (nil, nil) when the record does not exist.
// Listings of joined views leave out records whose linked records are missing.
type RepositoryInterface interface {
	UserIDLister

	GenerateUserID(ctx context.Context, role Role) (string, error)

	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUsers(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error)

	GetDoctor(ctx context.Context, id string) (*Doctor, error)
	GetDoctors(ctx context.Context) ([]DoctorWithUser, error)
	CreateDoctor(ctx context.Context, in CreateDoctorInput) (*Doctor, error)
	UpdateDoctor(ctx context.Context, id string, upd DoctorUpdate) (*Doctor, error)

	GetPatient(ctx context.Context, id string) (*Patient, error)
	GetPatients(ctx context.Context) ([]PatientWithUser, error)
	CreatePatient(ctx context.Context, in CreatePatientInput) (*Patient, error)
	UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (*Patient, error)

	GetAppointment(ctx context.Context, id int) (*Appointment, error)
	GetAppointments(ctx context.Context) ([]AppointmentWithDetails, error)
	GetAppointmentsByPatient(ctx context.Context, patientID string) ([]AppointmentWithDetails, error)
	GetAppointmentsByDoctor(ctx context.Context, doctorID string) ([]AppointmentWithDetails, error)
	CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error)

	GetSpecialization(ctx context.Context, id int) (*Specialization, error)
	GetSpecializations(ctx context.Context) ([]Specialization, error)
	CreateSpecialization(ctx context.Context, in CreateSpecializationInput) (*Specialization, error)
	UpdateSpecialization(ctx context.Context, id int, upd SpecializationUpdate) (*Specialization, error)

	AuthenticateUser(ctx context.Context, id, password string) (*UserWithRole, error)
}

// Ensure both stores implement RepositoryInterface
var (
	_ RepositoryInterface = (*Repository)(nil)
	_ RepositoryInterface = (*MemoryRepository)(nil)
)
