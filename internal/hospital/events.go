package hospital

import "github.com/WailSalutem-Health-Care/hospital-service/internal/messaging"

func userEvent(eventType string, u *User) messaging.UserEvent {
	return messaging.UserEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.UserEventData{
			UserID:    u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      string(u.Role),
			Status:    string(u.Status),
			CreatedAt: u.CreatedAt,
		},
	}
}

func doctorEvent(eventType string, d *Doctor) messaging.DoctorEvent {
	return messaging.DoctorEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.DoctorEventData{
			DoctorID:       d.ID,
			UserID:         d.UserID,
			Specialization: d.Specialization,
			LicenseNumber:  d.LicenseNumber,
			Experience:     d.Experience,
		},
	}
}

func patientEvent(eventType string, p *Patient) messaging.PatientEvent {
	data := messaging.PatientEventData{
		PatientID:   p.ID,
		UserID:      p.UserID,
		DateOfBirth: p.DateOfBirth,
		Gender:      string(p.Gender),
	}
	if p.BloodType != nil {
		data.BloodType = string(*p.BloodType)
	}
	return messaging.PatientEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data:      data,
	}
}

func appointmentEvent(eventType string, a *Appointment) messaging.AppointmentEvent {
	return messaging.AppointmentEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.AppointmentEventData{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			DoctorID:      a.DoctorID,
			Date:          a.Date,
			Time:          a.Time,
			Duration:      a.Duration,
			Status:        string(a.Status),
			Type:          string(a.Type),
		},
	}
}

func specializationEvent(eventType string, s *Specialization) messaging.SpecializationEvent {
	return messaging.SpecializationEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.SpecializationEventData{
			SpecializationID: s.ID,
			Name:             s.Name,
		},
	}
}
