package hospital

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps every collection in process memory. It backs tests
// and standalone mode; nothing survives a restart.
//
// The mutex only keeps the maps safe under concurrent HTTP handlers. Each
// method applies its change in full or not at all, with no cross-call
// transactions, and email or specialization names are not checked for
// uniqueness.
type MemoryRepository struct {
	mu sync.RWMutex

	users     map[string]User
	userOrder []string

	doctors     map[string]Doctor
	doctorOrder []string

	patients     map[string]Patient
	patientOrder []string

	appointments      map[int]Appointment
	appointmentOrder  []int
	lastAppointmentID int

	specializations      map[int]Specialization
	specializationOrder  []int
	lastSpecializationID int

	ids IDGenerator
	now func() time.Time
}

// MemoryOption configures a MemoryRepository.
type MemoryOption func(*MemoryRepository)

// WithIDGenerator replaces the default per-role counter.
func WithIDGenerator(g IDGenerator) MemoryOption {
	return func(r *MemoryRepository) {
		r.ids = g
	}
}

// WithScanIDs allocates user IDs by scanning the stored IDs instead of
// keeping counters.
func WithScanIDs() MemoryOption {
	return func(r *MemoryRepository) {
		r.ids = NewScanIDGenerator(r)
	}
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryRepository) {
		r.now = now
	}
}

func NewMemoryRepository(opts ...MemoryOption) *MemoryRepository {
	r := &MemoryRepository{
		users:           make(map[string]User),
		doctors:         make(map[string]Doctor),
		patients:        make(map[string]Patient),
		appointments:    make(map[int]Appointment),
		specializations: make(map[int]Specialization),
		ids:             NewCounterIDGenerator(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UseIDGenerator replaces the allocator. Call it before the store is shared.
func (r *MemoryRepository) UseIDGenerator(g IDGenerator) {
	r.ids = g
}

func (r *MemoryRepository) GenerateUserID(ctx context.Context, role Role) (string, error) {
	return r.ids.NextUserID(ctx, role)
}

func (r *MemoryRepository) ListUserIDs(ctx context.Context, prefix string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, id := range r.userOrder {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ==================== USERS ====================

func (r *MemoryRepository) GetUser(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.userOrder {
		if user := r.users[id]; user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		users = append(users, r.users[id])
	}
	return users, nil
}

func (r *MemoryRepository) CountUsers(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users), nil
}

func (r *MemoryRepository) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	id, err := r.GenerateUserID(ctx, in.Role)
	if err != nil {
		return nil, err
	}

	user := newUser(id, in, r.now())

	r.mu.Lock()
	defer r.mu.Unlock()

	// Two scans can hand out the same id; the later insert loses.
	if _, exists := r.users[id]; exists {
		return nil, fmt.Errorf("failed to create user %s: %w", id, ErrDuplicateUserID)
	}
	r.users[id] = user
	r.userOrder = append(r.userOrder, id)

	return &user, nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	upd.apply(&user)
	r.users[id] = user

	return &user, nil
}

// ==================== DOCTORS ====================

func (r *MemoryRepository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctor, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	return &doctor, nil
}

func (r *MemoryRepository) GetDoctors(ctx context.Context) ([]DoctorWithUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctors := make([]DoctorWithUser, 0, len(r.doctorOrder))
	for _, id := range r.doctorOrder {
		doctor := r.doctors[id]
		user, ok := r.users[doctor.UserID]
		if !ok {
			continue
		}
		doctors = append(doctors, DoctorWithUser{Doctor: doctor, User: user})
	}
	return doctors, nil
}

func (r *MemoryRepository) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*Doctor, error) {
	doctor := newDoctor(in)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.doctors[doctor.ID]; !exists {
		r.doctorOrder = append(r.doctorOrder, doctor.ID)
	}
	r.doctors[doctor.ID] = doctor

	return &doctor, nil
}

func (r *MemoryRepository) UpdateDoctor(ctx context.Context, id string, upd DoctorUpdate) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doctor, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	upd.apply(&doctor)
	r.doctors[id] = doctor

	return &doctor, nil
}

// ==================== PATIENTS ====================

func (r *MemoryRepository) GetPatient(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patient, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	patient = patient.clone()
	return &patient, nil
}

func (r *MemoryRepository) GetPatients(ctx context.Context) ([]PatientWithUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patients := make([]PatientWithUser, 0, len(r.patientOrder))
	for _, id := range r.patientOrder {
		patient := r.patients[id]
		user, ok := r.users[patient.UserID]
		if !ok {
			continue
		}
		patients = append(patients, PatientWithUser{Patient: patient.clone(), User: user})
	}
	return patients, nil
}

func (r *MemoryRepository) CreatePatient(ctx context.Context, in CreatePatientInput) (*Patient, error) {
	patient := newPatient(in)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.patients[patient.ID]; !exists {
		r.patientOrder = append(r.patientOrder, patient.ID)
	}
	r.patients[patient.ID] = patient

	patient = patient.clone()
	return &patient, nil
}

func (r *MemoryRepository) UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	patient, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	upd.apply(&patient)
	r.patients[id] = patient

	patient = patient.clone()
	return &patient, nil
}

// ==================== APPOINTMENTS ====================

func (r *MemoryRepository) GetAppointment(ctx context.Context, id int) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	appt = appt.clone()
	return &appt, nil
}

func (r *MemoryRepository) GetAppointments(ctx context.Context) ([]AppointmentWithDetails, error) {
	return r.appointmentsWhere(func(Appointment) bool { return true }), nil
}

func (r *MemoryRepository) GetAppointmentsByPatient(ctx context.Context, patientID string) ([]AppointmentWithDetails, error) {
	return r.appointmentsWhere(func(a Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *MemoryRepository) GetAppointmentsByDoctor(ctx context.Context, doctorID string) ([]AppointmentWithDetails, error) {
	return r.appointmentsWhere(func(a Appointment) bool { return a.DoctorID == doctorID }), nil
}

// appointmentsWhere assembles the joined view for every appointment matching
// keep. An appointment is skipped when its patient, the patient's user, its
// doctor or the doctor's user is missing.
func (r *MemoryRepository) appointmentsWhere(keep func(Appointment) bool) []AppointmentWithDetails {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]AppointmentWithDetails, 0)
	for _, id := range r.appointmentOrder {
		appt := r.appointments[id]
		if !keep(appt) {
			continue
		}

		patient, ok := r.patients[appt.PatientID]
		if !ok {
			continue
		}
		patientUser, ok := r.users[patient.UserID]
		if !ok {
			continue
		}
		doctor, ok := r.doctors[appt.DoctorID]
		if !ok {
			continue
		}
		doctorUser, ok := r.users[doctor.UserID]
		if !ok {
			continue
		}

		result = append(result, AppointmentWithDetails{
			Appointment: appt.clone(),
			Patient:     patientUser,
			Doctor:      UserWithRole{User: doctorUser, DoctorInfo: &doctor},
		})
	}
	return result
}

func (r *MemoryRepository) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastAppointmentID++
	appt := newAppointment(r.lastAppointmentID, in, r.now())

	r.appointments[appt.ID] = appt
	r.appointmentOrder = append(r.appointmentOrder, appt.ID)

	appt = appt.clone()
	return &appt, nil
}

func (r *MemoryRepository) UpdateAppointment(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	upd.apply(&appt)
	r.appointments[id] = appt

	appt = appt.clone()
	return &appt, nil
}

// ==================== SPECIALIZATIONS ====================

func (r *MemoryRepository) GetSpecialization(ctx context.Context, id int) (*Specialization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specializations[id]
	if !ok {
		return nil, nil
	}
	spec = spec.clone()
	return &spec, nil
}

func (r *MemoryRepository) GetSpecializations(ctx context.Context) ([]Specialization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Specialization, 0, len(r.specializationOrder))
	for _, id := range r.specializationOrder {
		specs = append(specs, r.specializations[id].clone())
	}
	return specs, nil
}

func (r *MemoryRepository) CreateSpecialization(ctx context.Context, in CreateSpecializationInput) (*Specialization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSpecializationID++
	spec := Specialization{
		ID:          r.lastSpecializationID,
		Name:        in.Name,
		Description: copyPtr(in.Description),
	}

	r.specializations[spec.ID] = spec
	r.specializationOrder = append(r.specializationOrder, spec.ID)

	spec = spec.clone()
	return &spec, nil
}

func (r *MemoryRepository) UpdateSpecialization(ctx context.Context, id int, upd SpecializationUpdate) (*Specialization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec, ok := r.specializations[id]
	if !ok {
		return nil, nil
	}
	upd.apply(&spec)
	r.specializations[id] = spec

	spec = spec.clone()
	return &spec, nil
}

// ==================== AUTHENTICATION ====================

func (r *MemoryRepository) AuthenticateUser(ctx context.Context, id, password string) (*UserWithRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok || user.Password != password {
		return nil, nil
	}

	result := &UserWithRole{User: user}
	switch user.Role {
	case RoleDoctor:
		if doctor, ok := r.doctors[user.ID]; ok {
			result.DoctorInfo = &doctor
		}
	case RolePatient:
		if patient, ok := r.patients[user.ID]; ok {
			patient = patient.clone()
			result.PatientInfo = &patient
		}
	}
	return result, nil
}
