package hospital

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Repository is the PostgreSQL-backed store. All tables live in one schema.
type Repository struct {
	db     *sql.DB
	schema string
	ids    IDGenerator
}

// NewRepository creates a Repository that allocates user IDs by scanning the
// users table.
func NewRepository(db *sql.DB, schemaName string) *Repository {
	r := &Repository{
		db:     db,
		schema: pq.QuoteIdentifier(schemaName),
	}
	r.ids = NewScanIDGenerator(r)
	return r
}

// UseIDGenerator replaces the scan-based allocator, e.g. with a Redis sequence.
func (r *Repository) UseIDGenerator(g IDGenerator) {
	r.ids = g
}

func (r *Repository) table(name string) string {
	return r.schema + "." + name
}

var (
	userColumns           = []string{"id", "first_name", "last_name", "email", "password", "phone", "address", "role", "status", "created_at"}
	doctorColumns         = []string{"id", "user_id", "specialization", "license_number", "experience"}
	patientColumns        = []string{"id", "user_id", "date_of_birth", "gender", "emergency_contact", "blood_type"}
	appointmentColumns    = []string{"id", "patient_id", "doctor_id", "date", "time", "duration", "reason", "status", "type", "notes", "created_at"}
	specializationColumns = []string{"id", "name", "description"}
)

// selectList renders columns qualified with alias, or bare when alias is empty.
func selectList(alias string, columns []string) string {
	if alias == "" {
		return strings.Join(columns, ", ")
	}
	qualified := make([]string, len(columns))
	for i, c := range columns {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

func userDest(u *User) []any {
	return []any{&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Phone, &u.Address, &u.Role, &u.Status, &u.CreatedAt}
}

func doctorDest(d *Doctor) []any {
	return []any{&d.ID, &d.UserID, &d.Specialization, &d.LicenseNumber, &d.Experience}
}

type patientRow struct {
	patient          Patient
	emergencyContact sql.NullString
	bloodType        sql.NullString
}

func (row *patientRow) dest() []any {
	p := &row.patient
	return []any{&p.ID, &p.UserID, &p.DateOfBirth, &p.Gender, &row.emergencyContact, &row.bloodType}
}

func (row *patientRow) result() Patient {
	p := row.patient
	if row.emergencyContact.Valid {
		p.EmergencyContact = &row.emergencyContact.String
	}
	if row.bloodType.Valid {
		bt := BloodType(row.bloodType.String)
		p.BloodType = &bt
	}
	return p
}

type appointmentRow struct {
	appt  Appointment
	notes sql.NullString
}

func (row *appointmentRow) dest() []any {
	a := &row.appt
	return []any{&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time, &a.Duration, &a.Reason, &a.Status, &a.Type, &row.notes, &a.CreatedAt}
}

func (row *appointmentRow) result() Appointment {
	a := row.appt
	if row.notes.Valid {
		a.Notes = &row.notes.String
	}
	return a
}

type specializationRow struct {
	spec        Specialization
	description sql.NullString
}

func (row *specializationRow) dest() []any {
	return []any{&row.spec.ID, &row.spec.Name, &row.description}
}

func (row *specializationRow) result() Specialization {
	s := row.spec
	if row.description.Valid {
		s.Description = &row.description.String
	}
	return s
}

// setClause accumulates "column = $n" assignments for partial updates.
type setClause struct {
	parts []string
	args  []any
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) empty() bool {
	return len(s.parts) == 0
}

// where appends the key argument and returns the SET list plus its placeholder.
func (s *setClause) where(key any) (string, string) {
	s.args = append(s.args, key)
	return strings.Join(s.parts, ", "), fmt.Sprintf("$%d", len(s.args))
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullBloodType(p *BloodType) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func (r *Repository) GenerateUserID(ctx context.Context, role Role) (string, error) {
	return r.ids.NextUserID(ctx, role)
}

func (r *Repository) ListUserIDs(ctx context.Context, prefix string) ([]string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE id LIKE $1`, r.table("users"))

	rows, err := r.db.QueryContext(ctx, query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ids: %w", err)
	}

	return ids, nil
}

// ==================== USERS ====================

func (r *Repository) GetUser(ctx context.Context, id string) (*User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUserBy(ctx, "email", email)
}

func (r *Repository) getUserBy(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`, selectList("", userColumns), r.table("users"), column)

	var user User
	err := r.db.QueryRowContext(ctx, query, value).Scan(userDest(&user)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

func (r *Repository) GetUsers(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at, id
	`, selectList("", userColumns), r.table("users"))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := rows.Scan(userDest(&user)...); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table("users"))

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *Repository) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	id, err := r.GenerateUserID(ctx, in.Role)
	if err != nil {
		return nil, err
	}

	user := newUser(id, in, time.Now())

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, r.table("users"), selectList("", userColumns), selectList("", userColumns))

	var created User
	err = r.db.QueryRowContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password,
		user.Phone,
		user.Address,
		user.Role,
		user.Status,
		user.CreatedAt,
	).Scan(userDest(&created)...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &created, nil
}

func (r *Repository) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	var set setClause
	if upd.FirstName != nil {
		set.add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		set.add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		set.add("email", *upd.Email)
	}
	if upd.Password != nil {
		set.add("password", *upd.Password)
	}
	if upd.Phone != nil {
		set.add("phone", *upd.Phone)
	}
	if upd.Address != nil {
		set.add("address", *upd.Address)
	}
	if upd.Role != nil {
		set.add("role", *upd.Role)
	}
	if upd.Status != nil {
		set.add("status", *upd.Status)
	}

	if set.empty() {
		return r.GetUser(ctx, id)
	}

	assignments, key := set.where(id)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = %s
		RETURNING %s
	`, r.table("users"), assignments, key, selectList("", userColumns))

	var user User
	err := r.db.QueryRowContext(ctx, query, set.args...).Scan(userDest(&user)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

// ==================== DOCTORS ====================

func (r *Repository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, selectList("", doctorColumns), r.table("doctors"))

	var doctor Doctor
	err := r.db.QueryRowContext(ctx, query, id).Scan(doctorDest(&doctor)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query doctor: %w", err)
	}

	return &doctor, nil
}

func (r *Repository) GetDoctors(ctx context.Context) ([]DoctorWithUser, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s d
		JOIN %s u ON u.id = d.user_id
		ORDER BY d.id
	`, selectList("d", doctorColumns), selectList("u", userColumns), r.table("doctors"), r.table("users"))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]DoctorWithUser, 0)
	for rows.Next() {
		var d DoctorWithUser
		dest := append(doctorDest(&d.Doctor), userDest(&d.User)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctors: %w", err)
	}

	return doctors, nil
}

func (r *Repository) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*Doctor, error) {
	doctor := newDoctor(in)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, r.table("doctors"), selectList("", doctorColumns), selectList("", doctorColumns))

	var created Doctor
	err := r.db.QueryRowContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.Experience,
	).Scan(doctorDest(&created)...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert doctor: %w", err)
	}

	return &created, nil
}

func (r *Repository) UpdateDoctor(ctx context.Context, id string, upd DoctorUpdate) (*Doctor, error) {
	var set setClause
	if upd.Specialization != nil {
		set.add("specialization", *upd.Specialization)
	}
	if upd.LicenseNumber != nil {
		set.add("license_number", *upd.LicenseNumber)
	}
	if upd.Experience != nil {
		set.add("experience", *upd.Experience)
	}

	if set.empty() {
		return r.GetDoctor(ctx, id)
	}

	assignments, key := set.where(id)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = %s
		RETURNING %s
	`, r.table("doctors"), assignments, key, selectList("", doctorColumns))

	var doctor Doctor
	err := r.db.QueryRowContext(ctx, query, set.args...).Scan(doctorDest(&doctor)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	return &doctor, nil
}

// ==================== PATIENTS ====================

func (r *Repository) GetPatient(ctx context.Context, id string) (*Patient, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, selectList("", patientColumns), r.table("patients"))

	var row patientRow
	err := r.db.QueryRowContext(ctx, query, id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}

	patient := row.result()
	return &patient, nil
}

func (r *Repository) GetPatients(ctx context.Context) ([]PatientWithUser, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s p
		JOIN %s u ON u.id = p.user_id
		ORDER BY p.id
	`, selectList("p", patientColumns), selectList("u", userColumns), r.table("patients"), r.table("users"))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients := make([]PatientWithUser, 0)
	for rows.Next() {
		var row patientRow
		var user User
		if err := rows.Scan(append(row.dest(), userDest(&user)...)...); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, PatientWithUser{Patient: row.result(), User: user})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, nil
}

func (r *Repository) CreatePatient(ctx context.Context, in CreatePatientInput) (*Patient, error) {
	patient := newPatient(in)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, r.table("patients"), selectList("", patientColumns), selectList("", patientColumns))

	var row patientRow
	err := r.db.QueryRowContext(ctx, query,
		patient.ID,
		patient.UserID,
		patient.DateOfBirth,
		patient.Gender,
		nullString(patient.EmergencyContact),
		nullBloodType(patient.BloodType),
	).Scan(row.dest()...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert patient: %w", err)
	}

	created := row.result()
	return &created, nil
}

func (r *Repository) UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (*Patient, error) {
	var set setClause
	if upd.DateOfBirth != nil {
		set.add("date_of_birth", *upd.DateOfBirth)
	}
	if upd.Gender != nil {
		set.add("gender", *upd.Gender)
	}
	if upd.EmergencyContact != nil {
		set.add("emergency_contact", *upd.EmergencyContact)
	}
	if upd.BloodType != nil {
		set.add("blood_type", string(*upd.BloodType))
	}

	if set.empty() {
		return r.GetPatient(ctx, id)
	}

	assignments, key := set.where(id)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = %s
		RETURNING %s
	`, r.table("patients"), assignments, key, selectList("", patientColumns))

	var row patientRow
	err := r.db.QueryRowContext(ctx, query, set.args...).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	patient := row.result()
	return &patient, nil
}

// ==================== APPOINTMENTS ====================

func (r *Repository) GetAppointment(ctx context.Context, id int) (*Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, selectList("", appointmentColumns), r.table("appointments"))

	var row appointmentRow
	err := r.db.QueryRowContext(ctx, query, id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query appointment: %w", err)
	}

	appt := row.result()
	return &appt, nil
}

func (r *Repository) GetAppointments(ctx context.Context) ([]AppointmentWithDetails, error) {
	return r.queryAppointmentDetails(ctx, "", nil)
}

func (r *Repository) GetAppointmentsByPatient(ctx context.Context, patientID string) ([]AppointmentWithDetails, error) {
	return r.queryAppointmentDetails(ctx, "WHERE a.patient_id = $1", patientID)
}

func (r *Repository) GetAppointmentsByDoctor(ctx context.Context, doctorID string) ([]AppointmentWithDetails, error) {
	return r.queryAppointmentDetails(ctx, "WHERE a.doctor_id = $1", doctorID)
}

// queryAppointmentDetails inner-joins appointments with patient, patient user,
// doctor and doctor user, so rows with a missing link drop out.
func (r *Repository) queryAppointmentDetails(ctx context.Context, filter string, arg any) ([]AppointmentWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s a
		JOIN %s p ON p.id = a.patient_id
		JOIN %s pu ON pu.id = p.user_id
		JOIN %s d ON d.id = a.doctor_id
		JOIN %s du ON du.id = d.user_id
		%s
		ORDER BY a.id
	`,
		selectList("a", appointmentColumns),
		selectList("pu", userColumns),
		selectList("d", doctorColumns),
		selectList("du", userColumns),
		r.table("appointments"),
		r.table("patients"),
		r.table("users"),
		r.table("doctors"),
		r.table("users"),
		filter,
	)

	var args []any
	if filter != "" {
		args = append(args, arg)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]AppointmentWithDetails, 0)
	for rows.Next() {
		var (
			row        appointmentRow
			patient    User
			doctor     Doctor
			doctorUser User
		)
		dest := row.dest()
		dest = append(dest, userDest(&patient)...)
		dest = append(dest, doctorDest(&doctor)...)
		dest = append(dest, userDest(&doctorUser)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}

		appointments = append(appointments, AppointmentWithDetails{
			Appointment: row.result(),
			Patient:     patient,
			Doctor:      UserWithRole{User: doctorUser, DoctorInfo: &doctor},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}

func (r *Repository) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*Appointment, error) {
	appt := newAppointment(0, in, time.Now())

	query := fmt.Sprintf(`
		INSERT INTO %s (patient_id, doctor_id, date, time, duration, reason, status, type, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, r.table("appointments"), selectList("", appointmentColumns))

	var row appointmentRow
	err := r.db.QueryRowContext(ctx, query,
		appt.PatientID,
		appt.DoctorID,
		appt.Date,
		appt.Time,
		appt.Duration,
		appt.Reason,
		appt.Status,
		appt.Type,
		nullString(appt.Notes),
		appt.CreatedAt,
	).Scan(row.dest()...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}

	created := row.result()
	return &created, nil
}

func (r *Repository) UpdateAppointment(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error) {
	var set setClause
	if upd.PatientID != nil {
		set.add("patient_id", *upd.PatientID)
	}
	if upd.DoctorID != nil {
		set.add("doctor_id", *upd.DoctorID)
	}
	if upd.Date != nil {
		set.add("date", *upd.Date)
	}
	if upd.Time != nil {
		set.add("time", *upd.Time)
	}
	if upd.Duration != nil {
		set.add("duration", *upd.Duration)
	}
	if upd.Reason != nil {
		set.add("reason", *upd.Reason)
	}
	if upd.Status != nil {
		set.add("status", *upd.Status)
	}
	if upd.Type != nil {
		set.add("type", *upd.Type)
	}
	if upd.Notes != nil {
		set.add("notes", *upd.Notes)
	}

	if set.empty() {
		return r.GetAppointment(ctx, id)
	}

	assignments, key := set.where(id)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = %s
		RETURNING %s
	`, r.table("appointments"), assignments, key, selectList("", appointmentColumns))

	var row appointmentRow
	err := r.db.QueryRowContext(ctx, query, set.args...).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	appt := row.result()
	return &appt, nil
}

// ==================== SPECIALIZATIONS ====================

func (r *Repository) GetSpecialization(ctx context.Context, id int) (*Specialization, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, selectList("", specializationColumns), r.table("specializations"))

	var row specializationRow
	err := r.db.QueryRowContext(ctx, query, id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query specialization: %w", err)
	}

	spec := row.result()
	return &spec, nil
}

func (r *Repository) GetSpecializations(ctx context.Context) ([]Specialization, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY id
	`, selectList("", specializationColumns), r.table("specializations"))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query specializations: %w", err)
	}
	defer rows.Close()

	specs := make([]Specialization, 0)
	for rows.Next() {
		var row specializationRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan specialization: %w", err)
		}
		specs = append(specs, row.result())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating specializations: %w", err)
	}

	return specs, nil
}

// CreateSpecialization inserts a catalog entry. A duplicate name surfaces as
// the driver's unique_violation error; see IsUniqueViolation.
func (r *Repository) CreateSpecialization(ctx context.Context, in CreateSpecializationInput) (*Specialization, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description)
		VALUES ($1, $2)
		RETURNING %s
	`, r.table("specializations"), selectList("", specializationColumns))

	var row specializationRow
	err := r.db.QueryRowContext(ctx, query, in.Name, nullString(in.Description)).Scan(row.dest()...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert specialization: %w", err)
	}

	spec := row.result()
	return &spec, nil
}

func (r *Repository) UpdateSpecialization(ctx context.Context, id int, upd SpecializationUpdate) (*Specialization, error) {
	var set setClause
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.Description != nil {
		set.add("description", *upd.Description)
	}

	if set.empty() {
		return r.GetSpecialization(ctx, id)
	}

	assignments, key := set.where(id)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = %s
		RETURNING %s
	`, r.table("specializations"), assignments, key, selectList("", specializationColumns))

	var row specializationRow
	err := r.db.QueryRowContext(ctx, query, set.args...).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update specialization: %w", err)
	}

	spec := row.result()
	return &spec, nil
}

// ==================== AUTHENTICATION ====================

func (r *Repository) AuthenticateUser(ctx context.Context, id, password string) (*UserWithRole, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != password {
		return nil, nil
	}

	result := &UserWithRole{User: *user}
	switch user.Role {
	case RoleDoctor:
		result.DoctorInfo, err = r.GetDoctor(ctx, user.ID)
	case RolePatient:
		result.PatientInfo, err = r.GetPatient(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}
