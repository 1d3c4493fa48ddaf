package hospital

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/hospital-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMetrics struct {
	mu            sync.Mutex
	operations    []string
	loginFailures []string
}

func (m *mockMetrics) RecordOperation(ctx context.Context, entity, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, entity+"."+operation)
}

func (m *mockMetrics) RecordLoginFailure(ctx context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginFailures = append(m.loginFailures, reason)
}

// failingRepository wraps a MemoryRepository and lets a test replace single
// methods.
type failingRepository struct {
	*MemoryRepository
	getUsersFunc          func(ctx context.Context) ([]User, error)
	createUserFunc        func(ctx context.Context, in CreateUserInput) (*User, error)
	createDoctorFunc      func(ctx context.Context, in CreateDoctorInput) (*Doctor, error)
	getAppointmentFunc    func(ctx context.Context, id int) (*Appointment, error)
	updateAppointmentFunc func(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error)
}

func (f *failingRepository) GetUsers(ctx context.Context) ([]User, error) {
	if f.getUsersFunc != nil {
		return f.getUsersFunc(ctx)
	}
	return f.MemoryRepository.GetUsers(ctx)
}

func (f *failingRepository) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	if f.createUserFunc != nil {
		return f.createUserFunc(ctx, in)
	}
	return f.MemoryRepository.CreateUser(ctx, in)
}

func (f *failingRepository) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*Doctor, error) {
	if f.createDoctorFunc != nil {
		return f.createDoctorFunc(ctx, in)
	}
	return f.MemoryRepository.CreateDoctor(ctx, in)
}

func (f *failingRepository) GetAppointment(ctx context.Context, id int) (*Appointment, error) {
	if f.getAppointmentFunc != nil {
		return f.getAppointmentFunc(ctx, id)
	}
	return f.MemoryRepository.GetAppointment(ctx, id)
}

func (f *failingRepository) UpdateAppointment(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error) {
	if f.updateAppointmentFunc != nil {
		return f.updateAppointmentFunc(ctx, id, upd)
	}
	return f.MemoryRepository.UpdateAppointment(ctx, id, upd)
}

type serviceFixture struct {
	service   *Service
	repo      *MemoryRepository
	publisher *testutil.MockPublisher
	metrics   *mockMetrics
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := newTestRepo()
	_, err := InitializeDefaults(context.Background(), repo, DefaultSeed())
	require.NoError(t, err)

	publisher := testutil.NewMockPublisher()
	metrics := &mockMetrics{}
	return &serviceFixture{
		service:   NewService(repo, publisher, metrics),
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
	}
}

func doctorRegistration(email string) RegisterInput {
	return RegisterInput{
		User: CreateUserInput{
			FirstName: "Gregory",
			LastName:  "House",
			Email:     email,
			Password:  "vicodin",
			Role:      RoleDoctor,
		},
		Doctor: &CreateDoctorInput{Specialization: "Diagnostics", LicenseNumber: "MD-42"},
	}
}

func TestService_Login(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	user, err := f.service.Login(ctx, "ADM0001", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "ADM0001", user.ID)
	assert.Nil(t, user.DoctorInfo)
	assert.Nil(t, user.PatientInfo)

	doctor, err := f.service.Login(ctx, "DOC0001", "doctor123")
	require.NoError(t, err)
	require.NotNil(t, doctor.DoctorInfo)
	assert.Equal(t, "DOC0001", doctor.DoctorInfo.UserID)

	assert.Contains(t, f.metrics.operations, "user.login")
	f.publisher.AssertNothingPublished(t)
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	f := newServiceFixture(t)

	tests := []struct {
		name     string
		userID   string
		password string
	}{
		{"wrong password", "ADM0001", "admin1234"},
		{"unknown user", "ADM0099", "admin123"},
		{"case sensitive", "adm0001", "admin123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.service.Login(context.Background(), tt.userID, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, user)
		})
	}

	assert.Len(t, f.metrics.loginFailures, len(tests))
}

func TestService_RegisterDoctor(t *testing.T) {
	f := newServiceFixture(t)

	user, err := f.service.RegisterUser(context.Background(), doctorRegistration("house@hospital.local"))
	require.NoError(t, err)

	assert.Equal(t, "DOC0002", user.ID)
	assert.Equal(t, UserStatusActive, user.Status)
	require.NotNil(t, user.DoctorInfo)
	assert.Equal(t, user.ID, user.DoctorInfo.ID)
	assert.Equal(t, user.ID, user.DoctorInfo.UserID)
	assert.Equal(t, DefaultDoctorExperience, user.DoctorInfo.Experience)

	assert.Equal(t, []string{messaging.EventUserCreated, messaging.EventDoctorCreated}, f.publisher.Keys())

	var event messaging.UserEvent
	f.publisher.DecodeLast(t, messaging.EventUserCreated, &event)
	assert.Equal(t, "DOC0002", event.Data.UserID)
	assert.Equal(t, "doctor", event.Data.Role)
	assert.Equal(t, messaging.ServiceName, event.ServiceName)
}

func TestService_RegisterPatient(t *testing.T) {
	f := newServiceFixture(t)

	user, err := f.service.RegisterUser(context.Background(), RegisterInput{
		User: CreateUserInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: "secret1", Role: RolePatient},
		Patient: &CreatePatientInput{
			UserID:      "ignored",
			DateOfBirth: "1992-07-14",
			Gender:      GenderFemale,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PAT0002", user.ID)
	require.NotNil(t, user.PatientInfo)
	assert.Equal(t, "PAT0002", user.PatientInfo.UserID)
	assert.Nil(t, user.DoctorInfo)

	stored, err := f.repo.GetPatient(context.Background(), "PAT0002")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestService_RegisterUserRejected(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "invalid role",
			input:   RegisterInput{User: CreateUserInput{Email: "n@hospital.local", Role: "nurse"}},
			wantErr: ErrInvalidRole,
		},
		{
			name:    "doctor without profile",
			input:   RegisterInput{User: CreateUserInput{Email: "d@hospital.local", Role: RoleDoctor}},
			wantErr: ErrProfileMissing,
		},
		{
			name:    "patient without profile",
			input:   RegisterInput{User: CreateUserInput{Email: "p@hospital.local", Role: RolePatient}},
			wantErr: ErrProfileMissing,
		},
		{
			name: "receptionist with patient profile",
			input: RegisterInput{
				User:    CreateUserInput{Email: "r@hospital.local", Role: RoleReceptionist},
				Patient: &CreatePatientInput{DateOfBirth: "1990-01-01", Gender: GenderMale},
			},
			wantErr: ErrProfileRoleMismatch,
		},
		{
			name:    "email taken",
			input:   doctorRegistration("admin@hospital.local"),
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)

			user, err := f.service.RegisterUser(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, user)

			count, err := f.repo.CountUsers(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 4, count)
			f.publisher.AssertNothingPublished(t)
		})
	}
}

func TestService_RegisterUserRepositoryError(t *testing.T) {
	repo := &failingRepository{
		MemoryRepository: newTestRepo(),
		createUserFunc: func(ctx context.Context, in CreateUserInput) (*User, error) {
			return nil, errors.New("disk full")
		},
	}
	publisher := testutil.NewMockPublisher()
	service := NewService(repo, publisher, nil)

	_, err := service.RegisterUser(context.Background(), RegisterInput{
		User: CreateUserInput{Email: "a@hospital.local", Role: RoleAdmin},
	})
	assert.EqualError(t, err, "disk full")
	publisher.AssertNothingPublished(t)
}

func TestService_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newServiceFixture(t)
	f.publisher.Err = errors.New("broker down")

	spec, err := f.service.CreateSpecialization(context.Background(), CreateSpecializationInput{Name: "Oncology"})
	require.NoError(t, err)
	assert.Equal(t, 7, spec.ID)
}

func TestService_NilPublisherAndMetrics(t *testing.T) {
	service := NewService(newTestRepo(), nil, nil)

	user, err := service.RegisterUser(context.Background(), RegisterInput{
		User: CreateUserInput{Email: "admin@x.local", Password: "pw", Role: RoleAdmin},
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), user.ID, "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ListUsersByRole(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	all, err := f.service.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	doctors, err := f.service.ListUsers(ctx, RoleDoctor)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "DOC0001", doctors[0].ID)
}

func TestService_RegisterDoctorProfileFailure(t *testing.T) {
	repo := &failingRepository{
		MemoryRepository: newTestRepo(),
		createDoctorFunc: func(ctx context.Context, in CreateDoctorInput) (*Doctor, error) {
			return nil, errors.New("license index unavailable")
		},
	}
	publisher := testutil.NewMockPublisher()
	service := NewService(repo, publisher, nil)
	ctx := context.Background()

	result, err := service.RegisterUser(ctx, doctorRegistration("house@hospital.local"))
	require.EqualError(t, err, "license index unavailable")
	require.NotNil(t, result)
	assert.Equal(t, "DOC0001", result.ID)
	assert.Nil(t, result.DoctorInfo)

	stored, err := repo.GetUser(ctx, "DOC0001")
	require.NoError(t, err)
	require.NotNil(t, stored)

	_, err = service.RegisterUser(ctx, doctorRegistration("house@hospital.local"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	publisher.AssertPublished(t, messaging.EventUserCreated, 1)
	publisher.AssertPublished(t, messaging.EventDoctorCreated, 0)
}

func TestService_ListUsersRepositoryError(t *testing.T) {
	repo := &failingRepository{
		MemoryRepository: newTestRepo(),
		getUsersFunc: func(ctx context.Context) ([]User, error) {
			return nil, errors.New("connection reset")
		},
	}
	service := NewService(repo, nil, nil)

	_, err := service.ListUsers(context.Background(), "")
	assert.EqualError(t, err, "connection reset")
}

func TestService_GetUser(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	patient, err := f.service.GetUser(ctx, "PAT0001")
	require.NoError(t, err)
	require.NotNil(t, patient.PatientInfo)
	assert.Nil(t, patient.DoctorInfo)

	_, err = f.service.GetUser(ctx, "PAT0404")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_UpdateUserStatus(t *testing.T) {
	f := newServiceFixture(t)

	inactive := UserStatusInactive
	user, err := f.service.UpdateUser(context.Background(), "REC0001", UserUpdate{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, UserStatusInactive, user.Status)

	assert.Equal(t, []string{messaging.EventUserUpdated, messaging.EventUserStatusChanged}, f.publisher.Keys())

	var event messaging.UserStatusChangedEvent
	f.publisher.DecodeLast(t, messaging.EventUserStatusChanged, &event)
	assert.Equal(t, "active", event.Data.OldStatus)
	assert.Equal(t, "inactive", event.Data.NewStatus)
}

func TestService_UpdateUserErrors(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	taken := "admin@hospital.local"
	_, err := f.service.UpdateUser(ctx, "REC0001", UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	same := "emily.davis@hospital.local"
	_, err = f.service.UpdateUser(ctx, "REC0001", UserUpdate{Email: &same})
	assert.NoError(t, err)

	role := Role("janitor")
	_, err = f.service.UpdateUser(ctx, "REC0001", UserUpdate{Role: &role})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = f.service.UpdateUser(ctx, "REC0404", UserUpdate{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_CreateDoctorProfileOwner(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateDoctor(ctx, CreateDoctorInput{UserID: "REC0001", Specialization: "X", LicenseNumber: "Y"})
	assert.ErrorIs(t, err, ErrProfileRoleMismatch)

	_, err = f.service.CreateDoctor(ctx, CreateDoctorInput{UserID: "DOC0404", Specialization: "X", LicenseNumber: "Y"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.service.CreatePatient(ctx, CreatePatientInput{UserID: "DOC0001", DateOfBirth: "1990-01-01", Gender: GenderMale})
	assert.ErrorIs(t, err, ErrProfileRoleMismatch)

	f.publisher.AssertNothingPublished(t)
}

func TestService_GetDoctorAndPatient(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	doctor, err := f.service.GetDoctor(ctx, "DOC0001")
	require.NoError(t, err)
	assert.Equal(t, "Sarah", doctor.User.FirstName)

	_, err = f.service.GetDoctor(ctx, "DOC0404")
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	patient, err := f.service.GetPatient(ctx, "PAT0001")
	require.NoError(t, err)
	assert.Equal(t, "Michael", patient.User.FirstName)

	_, err = f.service.GetPatient(ctx, "PAT0404")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestService_UpdateProfiles(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	years := 13
	doctor, err := f.service.UpdateDoctor(ctx, "DOC0001", DoctorUpdate{Experience: &years})
	require.NoError(t, err)
	assert.Equal(t, 13, doctor.Experience)
	assert.Equal(t, "Cardiology", doctor.Specialization)

	_, err = f.service.UpdateDoctor(ctx, "DOC0404", DoctorUpdate{Experience: &years})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	contact := "+1-555-0000"
	patient, err := f.service.UpdatePatient(ctx, "PAT0001", PatientUpdate{EmergencyContact: &contact})
	require.NoError(t, err)
	require.NotNil(t, patient.EmergencyContact)
	assert.Equal(t, contact, *patient.EmergencyContact)

	_, err = f.service.UpdatePatient(ctx, "PAT0404", PatientUpdate{})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	f.publisher.AssertPublished(t, messaging.EventDoctorUpdated, 1)
	f.publisher.AssertPublished(t, messaging.EventPatientUpdated, 1)
}

func TestService_CreateAppointment(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	appt, err := f.service.CreateAppointment(ctx, CreateAppointmentInput{
		PatientID: "PAT0001",
		DoctorID:  "DOC0001",
		Date:      "2024-06-01",
		Time:      "14:00",
		Reason:    "Annual checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, AppointmentScheduled, appt.Status)
	assert.Equal(t, 30, appt.Duration)
	f.publisher.AssertPublished(t, messaging.EventAppointmentCreated, 1)
	assert.Contains(t, f.metrics.operations, "appointment.create")

	_, err = f.service.CreateAppointment(ctx, CreateAppointmentInput{PatientID: "PAT0404", DoctorID: "DOC0001"})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = f.service.CreateAppointment(ctx, CreateAppointmentInput{PatientID: "PAT0001", DoctorID: "DOC0404"})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestService_CancelAppointment(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	appt, err := f.service.CreateAppointment(ctx, CreateAppointmentInput{PatientID: "PAT0001", DoctorID: "DOC0001", Date: "2024-06-01", Time: "14:00"})
	require.NoError(t, err)
	f.publisher.Reset()

	cancelled, err := f.service.CancelAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, AppointmentCancelled, cancelled.Status)
	assert.Equal(t, appt.Date, cancelled.Date)

	assert.Equal(t, []string{messaging.EventAppointmentUpdated, messaging.EventAppointmentStatusChanged}, f.publisher.Keys())
	var event messaging.AppointmentStatusChangedEvent
	f.publisher.DecodeLast(t, messaging.EventAppointmentStatusChanged, &event)
	assert.Equal(t, "scheduled", event.Data.OldStatus)
	assert.Equal(t, "cancelled", event.Data.NewStatus)

	_, err = f.service.CancelAppointment(ctx, 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_UpdateAppointmentChecksParticipants(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	appt, err := f.service.CreateAppointment(ctx, CreateAppointmentInput{PatientID: "PAT0001", DoctorID: "DOC0001"})
	require.NoError(t, err)

	ghost := "DOC0404"
	_, err = f.service.UpdateAppointment(ctx, appt.ID, AppointmentUpdate{DoctorID: &ghost})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	reason := "Follow-up on results"
	updated, err := f.service.UpdateAppointment(ctx, appt.ID, AppointmentUpdate{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, reason, updated.Reason)
	f.publisher.AssertPublished(t, messaging.EventAppointmentStatusChanged, 0)
}

func TestService_UpdateAppointmentVanished(t *testing.T) {
	repo := &failingRepository{
		MemoryRepository: newTestRepo(),
		getAppointmentFunc: func(ctx context.Context, id int) (*Appointment, error) {
			return &Appointment{ID: id, Status: AppointmentScheduled}, nil
		},
		updateAppointmentFunc: func(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error) {
			return nil, nil
		},
	}
	service := NewService(repo, nil, nil)

	_, err := service.CancelAppointment(context.Background(), 5)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_ListAppointmentsFilter(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	other, err := f.service.RegisterUser(ctx, RegisterInput{
		User:    CreateUserInput{Email: "other@example.com", Password: "secret1", Role: RolePatient},
		Patient: &CreatePatientInput{DateOfBirth: "2001-02-03", Gender: GenderOther},
	})
	require.NoError(t, err)

	for _, pid := range []string{"PAT0001", other.ID, "PAT0001"} {
		_, err := f.service.CreateAppointment(ctx, CreateAppointmentInput{PatientID: pid, DoctorID: "DOC0001"})
		require.NoError(t, err)
	}

	all, err := f.service.ListAppointments(ctx, AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.service.ListAppointments(ctx, AppointmentFilter{PatientID: "PAT0001"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	both, err := f.service.ListAppointments(ctx, AppointmentFilter{PatientID: other.ID, DoctorID: "DOC0001"})
	require.NoError(t, err)
	assert.Len(t, both, 1)

	byDoctor, err := f.service.ListAppointments(ctx, AppointmentFilter{DoctorID: "DOC0001"})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 3)
}

func TestService_Specializations(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	spec, err := f.service.GetSpecialization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", spec.Name)

	_, err = f.service.GetSpecialization(ctx, 99)
	assert.ErrorIs(t, err, ErrSpecializationNotFound)

	desc := "Heart, blood vessels and circulation"
	updated, err := f.service.UpdateSpecialization(ctx, 1, SpecializationUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", updated.Name)
	assert.Equal(t, desc, *updated.Description)

	_, err = f.service.UpdateSpecialization(ctx, 99, SpecializationUpdate{Description: &desc})
	assert.ErrorIs(t, err, ErrSpecializationNotFound)

	specs, err := f.service.ListSpecializations(ctx)
	require.NoError(t, err)
	assert.Len(t, specs, 6)

	f.publisher.AssertPublished(t, messaging.EventSpecializationUpdated, 1)
}
