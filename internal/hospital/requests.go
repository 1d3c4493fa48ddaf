package hospital

// Request bodies accepted by the HTTP handlers. Field rules use validator tags;
// see Handler.decode.

type LoginRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type DoctorProfileRequest struct {
	Specialization string `json:"specialization" validate:"required"`
	LicenseNumber  string `json:"licenseNumber" validate:"required"`
	Experience     *int   `json:"experience" validate:"omitempty,min=0"`
}

type PatientProfileRequest struct {
	DateOfBirth      string     `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender           Gender     `json:"gender" validate:"required,oneof=male female other"`
	EmergencyContact *string    `json:"emergencyContact"`
	BloodType        *BloodType `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
}

// RegisterRequest creates a user. Doctors must send doctorInfo and patients
// must send patientInfo.
type RegisterRequest struct {
	FirstName string                 `json:"firstName" validate:"required"`
	LastName  string                 `json:"lastName" validate:"required"`
	Email     string                 `json:"email" validate:"required,email"`
	Password  string                 `json:"password" validate:"required,min=6"`
	Phone     string                 `json:"phone"`
	Address   string                 `json:"address"`
	Role      Role                   `json:"role" validate:"required,oneof=admin doctor receptionist patient"`
	Status    UserStatus             `json:"status" validate:"omitempty,oneof=active inactive"`
	Doctor    *DoctorProfileRequest  `json:"doctorInfo"`
	Patient   *PatientProfileRequest `json:"patientInfo"`
}

func (r RegisterRequest) toInput() RegisterInput {
	in := RegisterInput{
		User: CreateUserInput{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Password:  r.Password,
			Phone:     r.Phone,
			Address:   r.Address,
			Role:      r.Role,
			Status:    r.Status,
		},
	}
	if r.Doctor != nil {
		doctor := r.Doctor.toInput("")
		in.Doctor = &doctor
	}
	if r.Patient != nil {
		patient := r.Patient.toInput("")
		in.Patient = &patient
	}
	return in
}

func (r DoctorProfileRequest) toInput(userID string) CreateDoctorInput {
	return CreateDoctorInput{
		UserID:         userID,
		Specialization: r.Specialization,
		LicenseNumber:  r.LicenseNumber,
		Experience:     r.Experience,
	}
}

func (r PatientProfileRequest) toInput(userID string) CreatePatientInput {
	return CreatePatientInput{
		UserID:           userID,
		DateOfBirth:      r.DateOfBirth,
		Gender:           r.Gender,
		EmergencyContact: r.EmergencyContact,
		BloodType:        r.BloodType,
	}
}

type UpdateUserRequest struct {
	FirstName *string     `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string     `json:"lastName" validate:"omitempty,min=1"`
	Email     *string     `json:"email" validate:"omitempty,email"`
	Password  *string     `json:"password" validate:"omitempty,min=6"`
	Phone     *string     `json:"phone"`
	Address   *string     `json:"address"`
	Role      *Role       `json:"role" validate:"omitempty,oneof=admin doctor receptionist patient"`
	Status    *UserStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r UpdateUserRequest) toUpdate() UserUpdate {
	return UserUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		Phone:     r.Phone,
		Address:   r.Address,
		Role:      r.Role,
		Status:    r.Status,
	}
}

type CreateDoctorRequest struct {
	UserID string `json:"userId" validate:"required"`
	DoctorProfileRequest
}

type UpdateDoctorRequest struct {
	Specialization *string `json:"specialization" validate:"omitempty,min=1"`
	LicenseNumber  *string `json:"licenseNumber" validate:"omitempty,min=1"`
	Experience     *int    `json:"experience" validate:"omitempty,min=0"`
}

func (r UpdateDoctorRequest) toUpdate() DoctorUpdate {
	return DoctorUpdate{
		Specialization: r.Specialization,
		LicenseNumber:  r.LicenseNumber,
		Experience:     r.Experience,
	}
}

type CreatePatientRequest struct {
	UserID string `json:"userId" validate:"required"`
	PatientProfileRequest
}

type UpdatePatientRequest struct {
	DateOfBirth      *string    `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender           *Gender    `json:"gender" validate:"omitempty,oneof=male female other"`
	EmergencyContact *string    `json:"emergencyContact"`
	BloodType        *BloodType `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
}

func (r UpdatePatientRequest) toUpdate() PatientUpdate {
	return PatientUpdate{
		DateOfBirth:      r.DateOfBirth,
		Gender:           r.Gender,
		EmergencyContact: r.EmergencyContact,
		BloodType:        r.BloodType,
	}
}

type CreateAppointmentRequest struct {
	PatientID string            `json:"patientId" validate:"required"`
	DoctorID  string            `json:"doctorId" validate:"required"`
	Date      string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string            `json:"time" validate:"required,datetime=15:04"`
	Duration  *int              `json:"duration" validate:"omitempty,min=1"`
	Reason    string            `json:"reason" validate:"required"`
	Status    AppointmentStatus `json:"status" validate:"omitempty,oneof=scheduled confirmed in-progress completed cancelled"`
	Type      AppointmentType   `json:"type" validate:"omitempty,oneof=consultation follow-up emergency routine"`
	Notes     *string           `json:"notes"`
}

func (r CreateAppointmentRequest) toInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		PatientID: r.PatientID,
		DoctorID:  r.DoctorID,
		Date:      r.Date,
		Time:      r.Time,
		Duration:  r.Duration,
		Reason:    r.Reason,
		Status:    r.Status,
		Type:      r.Type,
		Notes:     r.Notes,
	}
}

type UpdateAppointmentRequest struct {
	PatientID *string            `json:"patientId" validate:"omitempty,min=1"`
	DoctorID  *string            `json:"doctorId" validate:"omitempty,min=1"`
	Date      *string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time      *string            `json:"time" validate:"omitempty,datetime=15:04"`
	Duration  *int               `json:"duration" validate:"omitempty,min=1"`
	Reason    *string            `json:"reason" validate:"omitempty,min=1"`
	Status    *AppointmentStatus `json:"status" validate:"omitempty,oneof=scheduled confirmed in-progress completed cancelled"`
	Type      *AppointmentType   `json:"type" validate:"omitempty,oneof=consultation follow-up emergency routine"`
	Notes     *string            `json:"notes"`
}

func (r UpdateAppointmentRequest) toUpdate() AppointmentUpdate {
	return AppointmentUpdate{
		PatientID: r.PatientID,
		DoctorID:  r.DoctorID,
		Date:      r.Date,
		Time:      r.Time,
		Duration:  r.Duration,
		Reason:    r.Reason,
		Status:    r.Status,
		Type:      r.Type,
		Notes:     r.Notes,
	}
}

type SpecializationRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type UpdateSpecializationRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}
