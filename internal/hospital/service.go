package hospital

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/messaging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/hospital-service/hospital")

// Service turns repository absence into not-found errors, checks references
// across records, and publishes an event for every write.
type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
}

// NewService creates a Service. publisher and metrics may be nil.
func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "hospital."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service) record(ctx context.Context, entity, operation string) {
	if s.metrics != nil {
		s.metrics.RecordOperation(ctx, entity, operation)
	}
}

func (s *Service) publish(ctx context.Context, routingKey string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// Login checks the credentials and returns the user with its role profile
func (s *Service) Login(ctx context.Context, userID, password string) (result *UserWithRole, err error) {
	ctx, span := startSpan(ctx, "Login", attribute.String("user.id", userID))
	defer func() { finishSpan(span, err) }()

	user, err := s.repo.AuthenticateUser(ctx, userID, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure(ctx, "invalid_credentials")
		}
		log.Printf("Failed login attempt for user %s", userID)
		return nil, ErrInvalidCredentials
	}
	if user.Status == UserStatusInactive {
		log.Printf("Inactive user %s logged in", user.ID)
	}

	s.record(ctx, "user", "login")
	return user, nil
}

// RegisterUser creates a user and the profile its role requires. Doctors need
// doctor details and patients need patient details; other roles take neither.
//
// The two writes are not atomic. When the profile write fails the stored user
// is returned together with the error, and it stays in the store.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (result *UserWithRole, err error) {
	ctx, span := startSpan(ctx, "RegisterUser", attribute.String("user.role", string(in.User.Role)))
	defer func() { finishSpan(span, err) }()

	if _, err := ParseRole(string(in.User.Role)); err != nil {
		return nil, err
	}
	if err := checkProfile(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByEmail(ctx, in.User.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user, err := s.repo.CreateUser(ctx, in.User)
	if err != nil {
		return nil, err
	}
	log.Printf("Created %s user %s", user.Role, user.ID)
	s.record(ctx, "user", "create")
	s.publish(ctx, messaging.EventUserCreated, userEvent(messaging.EventUserCreated, user))

	result = &UserWithRole{User: *user}

	if in.Doctor != nil {
		doctorIn := *in.Doctor
		doctorIn.UserID = user.ID
		doctor, err := s.createDoctor(ctx, doctorIn)
		if err != nil {
			log.Printf("Warning: user %s created without doctor profile: %v", user.ID, err)
			return result, err
		}
		result.DoctorInfo = doctor
	}

	if in.Patient != nil {
		patientIn := *in.Patient
		patientIn.UserID = user.ID
		patient, err := s.createPatient(ctx, patientIn)
		if err != nil {
			log.Printf("Warning: user %s created without patient profile: %v", user.ID, err)
			return result, err
		}
		result.PatientInfo = patient
	}

	return result, nil
}

func checkProfile(in RegisterInput) error {
	switch in.User.Role {
	case RoleDoctor:
		if in.Doctor == nil {
			return ErrProfileMissing
		}
		if in.Patient != nil {
			return ErrProfileRoleMismatch
		}
	case RolePatient:
		if in.Patient == nil {
			return ErrProfileMissing
		}
		if in.Doctor != nil {
			return ErrProfileRoleMismatch
		}
	default:
		if in.Doctor != nil || in.Patient != nil {
			return ErrProfileRoleMismatch
		}
	}
	return nil
}

// ListUsers returns all users in insertion order, optionally narrowed to one role
func (s *Service) ListUsers(ctx context.Context, role Role) (result []User, err error) {
	ctx, span := startSpan(ctx, "ListUsers")
	defer func() { finishSpan(span, err) }()

	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return users, nil
	}

	filtered := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// GetUser returns the user with the profile matching its role attached
func (s *Service) GetUser(ctx context.Context, id string) (result *UserWithRole, err error) {
	ctx, span := startSpan(ctx, "GetUser", attribute.String("user.id", id))
	defer func() { finishSpan(span, err) }()

	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	result = &UserWithRole{User: *user}
	switch user.Role {
	case RoleDoctor:
		if result.DoctorInfo, err = s.repo.GetDoctor(ctx, user.ID); err != nil {
			return nil, err
		}
	case RolePatient:
		if result.PatientInfo, err = s.repo.GetPatient(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UpdateUser applies a partial update. A new email must not belong to another user.
func (s *Service) UpdateUser(ctx context.Context, id string, upd UserUpdate) (result *User, err error) {
	ctx, span := startSpan(ctx, "UpdateUser", attribute.String("user.id", id))
	defer func() { finishSpan(span, err) }()

	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrUserNotFound
	}

	if upd.Role != nil {
		if _, err := ParseRole(string(*upd.Role)); err != nil {
			return nil, err
		}
	}
	if upd.Email != nil && *upd.Email != current.Email {
		other, err := s.repo.GetUserByEmail(ctx, *upd.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailTaken
		}
	}

	user, err := s.repo.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.record(ctx, "user", "update")
	s.publish(ctx, messaging.EventUserUpdated, userEvent(messaging.EventUserUpdated, user))

	if user.Status != current.Status {
		s.publish(ctx, messaging.EventUserStatusChanged, messaging.UserStatusChangedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventUserStatusChanged),
			Data: messaging.UserStatusChangedData{
				UserID:    user.ID,
				Role:      string(user.Role),
				OldStatus: string(current.Status),
				NewStatus: string(user.Status),
				ChangedAt: time.Now().UTC(),
			},
		})
	}

	return user, nil
}

func (s *Service) ListDoctors(ctx context.Context) (result []DoctorWithUser, err error) {
	ctx, span := startSpan(ctx, "ListDoctors")
	defer func() { finishSpan(span, err) }()

	return s.repo.GetDoctors(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (result *DoctorWithUser, err error) {
	ctx, span := startSpan(ctx, "GetDoctor", attribute.String("doctor.id", id))
	defer func() { finishSpan(span, err) }()

	doctor, err := s.repo.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	user, err := s.repo.GetUser(ctx, doctor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &DoctorWithUser{Doctor: *doctor, User: *user}, nil
}

// CreateDoctor adds the doctor profile of an existing doctor user
func (s *Service) CreateDoctor(ctx context.Context, in CreateDoctorInput) (result *Doctor, err error) {
	ctx, span := startSpan(ctx, "CreateDoctor", attribute.String("user.id", in.UserID))
	defer func() { finishSpan(span, err) }()

	if err := s.checkProfileOwner(ctx, in.UserID, RoleDoctor); err != nil {
		return nil, err
	}
	return s.createDoctor(ctx, in)
}

func (s *Service) createDoctor(ctx context.Context, in CreateDoctorInput) (*Doctor, error) {
	doctor, err := s.repo.CreateDoctor(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Printf("Created doctor profile %s", doctor.ID)
	s.record(ctx, "doctor", "create")
	s.publish(ctx, messaging.EventDoctorCreated, doctorEvent(messaging.EventDoctorCreated, doctor))
	return doctor, nil
}

// checkProfileOwner makes sure the user exists and holds the role the profile belongs to
func (s *Service) checkProfileOwner(ctx context.Context, userID string, role Role) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Role != role {
		return fmt.Errorf("%w: user %s is %s", ErrProfileRoleMismatch, user.ID, user.Role)
	}
	return nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id string, upd DoctorUpdate) (result *Doctor, err error) {
	ctx, span := startSpan(ctx, "UpdateDoctor", attribute.String("doctor.id", id))
	defer func() { finishSpan(span, err) }()

	doctor, err := s.repo.UpdateDoctor(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	s.record(ctx, "doctor", "update")
	s.publish(ctx, messaging.EventDoctorUpdated, doctorEvent(messaging.EventDoctorUpdated, doctor))
	return doctor, nil
}

func (s *Service) ListPatients(ctx context.Context) (result []PatientWithUser, err error) {
	ctx, span := startSpan(ctx, "ListPatients")
	defer func() { finishSpan(span, err) }()

	return s.repo.GetPatients(ctx)
}

func (s *Service) GetPatient(ctx context.Context, id string) (result *PatientWithUser, err error) {
	ctx, span := startSpan(ctx, "GetPatient", attribute.String("patient.id", id))
	defer func() { finishSpan(span, err) }()

	patient, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	user, err := s.repo.GetUser(ctx, patient.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &PatientWithUser{Patient: *patient, User: *user}, nil
}

// CreatePatient adds the patient profile of an existing patient user
func (s *Service) CreatePatient(ctx context.Context, in CreatePatientInput) (result *Patient, err error) {
	ctx, span := startSpan(ctx, "CreatePatient", attribute.String("user.id", in.UserID))
	defer func() { finishSpan(span, err) }()

	if err := s.checkProfileOwner(ctx, in.UserID, RolePatient); err != nil {
		return nil, err
	}
	return s.createPatient(ctx, in)
}

func (s *Service) createPatient(ctx context.Context, in CreatePatientInput) (*Patient, error) {
	patient, err := s.repo.CreatePatient(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Printf("Created patient profile %s", patient.ID)
	s.record(ctx, "patient", "create")
	s.publish(ctx, messaging.EventPatientCreated, patientEvent(messaging.EventPatientCreated, patient))
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (result *Patient, err error) {
	ctx, span := startSpan(ctx, "UpdatePatient", attribute.String("patient.id", id))
	defer func() { finishSpan(span, err) }()

	patient, err := s.repo.UpdatePatient(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	s.record(ctx, "patient", "update")
	s.publish(ctx, messaging.EventPatientUpdated, patientEvent(messaging.EventPatientUpdated, patient))
	return patient, nil
}

// ListAppointments returns the joined appointment view, filtered by patient or doctor
func (s *Service) ListAppointments(ctx context.Context, filter AppointmentFilter) (result []AppointmentWithDetails, err error) {
	ctx, span := startSpan(ctx, "ListAppointments",
		attribute.String("patient.id", filter.PatientID),
		attribute.String("doctor.id", filter.DoctorID),
	)
	defer func() { finishSpan(span, err) }()

	switch {
	case filter.PatientID != "":
		return s.repo.GetAppointmentsByPatient(ctx, filter.PatientID)
	case filter.DoctorID != "":
		return s.repo.GetAppointmentsByDoctor(ctx, filter.DoctorID)
	default:
		return s.repo.GetAppointments(ctx)
	}
}

func (s *Service) GetAppointment(ctx context.Context, id int) (result *Appointment, err error) {
	ctx, span := startSpan(ctx, "GetAppointment", attribute.Int("appointment.id", id))
	defer func() { finishSpan(span, err) }()

	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

// CreateAppointment books an appointment between an existing patient and doctor
func (s *Service) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (result *Appointment, err error) {
	ctx, span := startSpan(ctx, "CreateAppointment",
		attribute.String("patient.id", in.PatientID),
		attribute.String("doctor.id", in.DoctorID),
	)
	defer func() { finishSpan(span, err) }()

	if err := s.checkParticipants(ctx, in.PatientID, in.DoctorID); err != nil {
		return nil, err
	}

	appt, err := s.repo.CreateAppointment(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Printf("Created appointment %d for patient %s with doctor %s", appt.ID, appt.PatientID, appt.DoctorID)
	s.record(ctx, "appointment", "create")
	s.publish(ctx, messaging.EventAppointmentCreated, appointmentEvent(messaging.EventAppointmentCreated, appt))
	return appt, nil
}

func (s *Service) checkParticipants(ctx context.Context, patientID, doctorID string) error {
	if patientID != "" {
		patient, err := s.repo.GetPatient(ctx, patientID)
		if err != nil {
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
	}
	if doctorID != "" {
		doctor, err := s.repo.GetDoctor(ctx, doctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
	}
	return nil
}

// UpdateAppointment applies a partial update. Any status may be written; the
// lifecycle order is not enforced.
func (s *Service) UpdateAppointment(ctx context.Context, id int, upd AppointmentUpdate) (result *Appointment, err error) {
	ctx, span := startSpan(ctx, "UpdateAppointment", attribute.Int("appointment.id", id))
	defer func() { finishSpan(span, err) }()

	current, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}

	var patientID, doctorID string
	if upd.PatientID != nil {
		patientID = *upd.PatientID
	}
	if upd.DoctorID != nil {
		doctorID = *upd.DoctorID
	}
	if err := s.checkParticipants(ctx, patientID, doctorID); err != nil {
		return nil, err
	}

	appt, err := s.repo.UpdateAppointment(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	s.record(ctx, "appointment", "update")
	s.publish(ctx, messaging.EventAppointmentUpdated, appointmentEvent(messaging.EventAppointmentUpdated, appt))

	if appt.Status != current.Status {
		log.Printf("Appointment %d status %s -> %s", appt.ID, current.Status, appt.Status)
		s.publish(ctx, messaging.EventAppointmentStatusChanged, messaging.AppointmentStatusChangedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentStatusChanged),
			Data: messaging.AppointmentStatusChangedData{
				AppointmentID: appt.ID,
				PatientID:     appt.PatientID,
				DoctorID:      appt.DoctorID,
				OldStatus:     string(current.Status),
				NewStatus:     string(appt.Status),
				ChangedAt:     time.Now().UTC(),
			},
		})
	}

	return appt, nil
}

// CancelAppointment sets the status to cancelled
func (s *Service) CancelAppointment(ctx context.Context, id int) (*Appointment, error) {
	status := AppointmentCancelled
	return s.UpdateAppointment(ctx, id, AppointmentUpdate{Status: &status})
}

func (s *Service) ListSpecializations(ctx context.Context) (result []Specialization, err error) {
	ctx, span := startSpan(ctx, "ListSpecializations")
	defer func() { finishSpan(span, err) }()

	return s.repo.GetSpecializations(ctx)
}

func (s *Service) GetSpecialization(ctx context.Context, id int) (result *Specialization, err error) {
	ctx, span := startSpan(ctx, "GetSpecialization", attribute.Int("specialization.id", id))
	defer func() { finishSpan(span, err) }()

	spec, err := s.repo.GetSpecialization(ctx, id)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, ErrSpecializationNotFound
	}
	return spec, nil
}

func (s *Service) CreateSpecialization(ctx context.Context, in CreateSpecializationInput) (result *Specialization, err error) {
	ctx, span := startSpan(ctx, "CreateSpecialization", attribute.String("specialization.name", in.Name))
	defer func() { finishSpan(span, err) }()

	spec, err := s.repo.CreateSpecialization(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "specialization", "create")
	s.publish(ctx, messaging.EventSpecializationCreated, specializationEvent(messaging.EventSpecializationCreated, spec))
	return spec, nil
}

func (s *Service) UpdateSpecialization(ctx context.Context, id int, upd SpecializationUpdate) (result *Specialization, err error) {
	ctx, span := startSpan(ctx, "UpdateSpecialization", attribute.Int("specialization.id", id))
	defer func() { finishSpan(span, err) }()

	spec, err := s.repo.UpdateSpecialization(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, ErrSpecializationNotFound
	}
	s.record(ctx, "specialization", "update")
	s.publish(ctx, messaging.EventSpecializationUpdated, specializationEvent(messaging.EventSpecializationUpdated, spec))
	return spec, nil
}
