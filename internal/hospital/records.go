package hospital

import "time"

// Builders and mergers shared by both repository implementations.

func newUser(id string, in CreateUserInput, now time.Time) User {
	status := in.Status
	if status == "" {
		status = UserStatusActive
	}
	return User{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Phone:     in.Phone,
		Address:   in.Address,
		Role:      in.Role,
		Status:    status,
		CreatedAt: now,
	}
}

func newDoctor(in CreateDoctorInput) Doctor {
	experience := DefaultDoctorExperience
	if in.Experience != nil {
		experience = *in.Experience
	}
	return Doctor{
		ID:             in.UserID,
		UserID:         in.UserID,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		Experience:     experience,
	}
}

func newPatient(in CreatePatientInput) Patient {
	return Patient{
		ID:               in.UserID,
		UserID:           in.UserID,
		DateOfBirth:      in.DateOfBirth,
		Gender:           in.Gender,
		EmergencyContact: copyPtr(in.EmergencyContact),
		BloodType:        copyPtr(in.BloodType),
	}
}

func newAppointment(id int, in CreateAppointmentInput, now time.Time) Appointment {
	duration := DefaultAppointmentDuration
	if in.Duration != nil {
		duration = *in.Duration
	}
	status := in.Status
	if status == "" {
		status = AppointmentScheduled
	}
	typ := in.Type
	if typ == "" {
		typ = AppointmentConsultation
	}
	return Appointment{
		ID:        id,
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		Time:      in.Time,
		Duration:  duration,
		Reason:    in.Reason,
		Status:    status,
		Type:      typ,
		Notes:     copyPtr(in.Notes),
		CreatedAt: now,
	}
}

func (u UserUpdate) apply(user *User) {
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Password != nil {
		user.Password = *u.Password
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
	if u.Status != nil {
		user.Status = *u.Status
	}
}

func (u DoctorUpdate) apply(doctor *Doctor) {
	if u.Specialization != nil {
		doctor.Specialization = *u.Specialization
	}
	if u.LicenseNumber != nil {
		doctor.LicenseNumber = *u.LicenseNumber
	}
	if u.Experience != nil {
		doctor.Experience = *u.Experience
	}
}

func (u PatientUpdate) apply(patient *Patient) {
	if u.DateOfBirth != nil {
		patient.DateOfBirth = *u.DateOfBirth
	}
	if u.Gender != nil {
		patient.Gender = *u.Gender
	}
	if u.EmergencyContact != nil {
		patient.EmergencyContact = copyPtr(u.EmergencyContact)
	}
	if u.BloodType != nil {
		patient.BloodType = copyPtr(u.BloodType)
	}
}

func (u AppointmentUpdate) apply(appt *Appointment) {
	if u.PatientID != nil {
		appt.PatientID = *u.PatientID
	}
	if u.DoctorID != nil {
		appt.DoctorID = *u.DoctorID
	}
	if u.Date != nil {
		appt.Date = *u.Date
	}
	if u.Time != nil {
		appt.Time = *u.Time
	}
	if u.Duration != nil {
		appt.Duration = *u.Duration
	}
	if u.Reason != nil {
		appt.Reason = *u.Reason
	}
	if u.Status != nil {
		appt.Status = *u.Status
	}
	if u.Type != nil {
		appt.Type = *u.Type
	}
	if u.Notes != nil {
		appt.Notes = copyPtr(u.Notes)
	}
}

func (u SpecializationUpdate) apply(spec *Specialization) {
	if u.Name != nil {
		spec.Name = *u.Name
	}
	if u.Description != nil {
		spec.Description = copyPtr(u.Description)
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (p Patient) clone() Patient {
	p.EmergencyContact = copyPtr(p.EmergencyContact)
	p.BloodType = copyPtr(p.BloodType)
	return p
}

func (a Appointment) clone() Appointment {
	a.Notes = copyPtr(a.Notes)
	return a
}

func (s Specialization) clone() Specialization {
	s.Description = copyPtr(s.Description)
	return s
}
