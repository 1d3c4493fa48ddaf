package hospital

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

// mockService implements ServiceInterface. Methods without a func field set
// panic through the nil embedded interface.
type mockService struct {
	ServiceInterface

	loginFunc             func(ctx context.Context, userID, password string) (*UserWithRole, error)
	registerUserFunc      func(ctx context.Context, in RegisterInput) (*UserWithRole, error)
	listUsersFunc         func(ctx context.Context, role Role) ([]User, error)
	getUserFunc           func(ctx context.Context, id string) (*UserWithRole, error)
	updatePatientFunc     func(ctx context.Context, id string, upd PatientUpdate) (*Patient, error)
	listAppointmentsFunc  func(ctx context.Context, filter AppointmentFilter) ([]AppointmentWithDetails, error)
	getAppointmentFunc    func(ctx context.Context, id int) (*Appointment, error)
	createAppointmentFunc func(ctx context.Context, in CreateAppointmentInput) (*Appointment, error)
	updateAppointmentFunc func(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error)
	cancelAppointmentFunc func(ctx context.Context, id int) (*Appointment, error)
}

func (m *mockService) Login(ctx context.Context, userID, password string) (*UserWithRole, error) {
	return m.loginFunc(ctx, userID, password)
}

func (m *mockService) RegisterUser(ctx context.Context, in RegisterInput) (*UserWithRole, error) {
	return m.registerUserFunc(ctx, in)
}

func (m *mockService) ListUsers(ctx context.Context, role Role) ([]User, error) {
	return m.listUsersFunc(ctx, role)
}

func (m *mockService) GetUser(ctx context.Context, id string) (*UserWithRole, error) {
	return m.getUserFunc(ctx, id)
}

func (m *mockService) UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (*Patient, error) {
	return m.updatePatientFunc(ctx, id, upd)
}

func (m *mockService) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]AppointmentWithDetails, error) {
	return m.listAppointmentsFunc(ctx, filter)
}

func (m *mockService) GetAppointment(ctx context.Context, id int) (*Appointment, error) {
	return m.getAppointmentFunc(ctx, id)
}

func (m *mockService) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*Appointment, error) {
	return m.createAppointmentFunc(ctx, in)
}

func (m *mockService) UpdateAppointment(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error) {
	return m.updateAppointmentFunc(ctx, id, upd)
}

func (m *mockService) CancelAppointment(ctx context.Context, id int) (*Appointment, error) {
	return m.cancelAppointmentFunc(ctx, id)
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("Failed to encode body: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp
}

func TestHandlerLogin_Success(t *testing.T) {
	handler := NewHandler(&mockService{
		loginFunc: func(ctx context.Context, userID, password string) (*UserWithRole, error) {
			if userID != "DOC0001" || password != "doctor123" {
				t.Errorf("Unexpected credentials %s/%s", userID, password)
			}
			return &UserWithRole{
				User:       User{ID: userID, Role: RoleDoctor, Password: password},
				DoctorInfo: &Doctor{ID: userID, UserID: userID, Specialization: "Cardiology"},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Login(rec, jsonRequest(t, http.MethodPost, "/auth/login", LoginRequest{UserID: "DOC0001", Password: "doctor123"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "doctor123") {
		t.Error("Response must not contain the password")
	}
	if !strings.Contains(body, `"doctorInfo"`) || strings.Contains(body, `"patientInfo"`) {
		t.Errorf("Expected only doctorInfo in response, got %s", body)
	}
}

func TestHandlerLogin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{"invalid json", "{not json", nil, http.StatusBadRequest, "invalid_request"},
		{"missing password", LoginRequest{UserID: "ADM0001"}, nil, http.StatusBadRequest, "validation_error"},
		{"bad credentials", LoginRequest{UserID: "ADM0001", Password: "nope"}, ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"store failure", LoginRequest{UserID: "ADM0001", Password: "nope"}, errors.New("db down"), http.StatusInternalServerError, "log_in_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := NewHandler(&mockService{
				loginFunc: func(ctx context.Context, userID, password string) (*UserWithRole, error) {
					called = true
					return nil, tt.serviceErr
				},
			})

			rec := httptest.NewRecorder()
			handler.Login(rec, jsonRequest(t, http.MethodPost, "/auth/login", tt.body))

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error != tt.wantError {
				t.Errorf("Expected error '%s', got '%s'", tt.wantError, resp.Error)
			}
			if called != (tt.serviceErr != nil) {
				t.Errorf("Service called = %t, want %t", called, tt.serviceErr != nil)
			}
		})
	}
}

func TestHandlerRegister_Doctor(t *testing.T) {
	var got RegisterInput
	handler := NewHandler(&mockService{
		registerUserFunc: func(ctx context.Context, in RegisterInput) (*UserWithRole, error) {
			got = in
			doctor := Doctor{
				ID:             "DOC0002",
				UserID:         "DOC0002",
				Specialization: in.Doctor.Specialization,
				LicenseNumber:  in.Doctor.LicenseNumber,
			}
			if in.Doctor.Experience != nil {
				doctor.Experience = *in.Doctor.Experience
			}
			return &UserWithRole{User: User{ID: "DOC0002", Role: in.User.Role}, DoctorInfo: &doctor}, nil
		},
	})

	body := map[string]interface{}{
		"firstName": "Gregory",
		"lastName":  "House",
		"email":     "house@hospital.local",
		"password":  "vicodin",
		"role":      "doctor",
		"doctorInfo": map[string]interface{}{
			"specialization": "Diagnostics",
			"licenseNumber":  "MD-42",
			"experience":     20,
		},
	}

	rec := httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/auth/register", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.User.Role != RoleDoctor || got.Doctor == nil || got.Patient != nil {
		t.Fatalf("Unexpected register input: %+v", got)
	}
	if got.Doctor.Experience == nil || *got.Doctor.Experience != 20 {
		t.Errorf("Expected experience 20, got %v", got.Doctor.Experience)
	}

	var resp UserWithRole
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.ID != "DOC0002" || resp.DoctorInfo == nil {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestHandlerRegister_Errors(t *testing.T) {
	valid := RegisterRequest{
		FirstName: "Amy",
		LastName:  "Pond",
		Email:     "amy@hospital.local",
		Password:  "secret1",
		Role:      RoleReceptionist,
	}
	badEmail := valid
	badEmail.Email = "not-an-email"
	badRole := valid
	badRole.Role = "nurse"
	shortPassword := valid
	shortPassword.Password = "abc"
	badDOB := valid
	badDOB.Role = RolePatient
	badDOB.Patient = &PatientProfileRequest{DateOfBirth: "12/31/1990", Gender: GenderFemale}

	tests := []struct {
		name       string
		body       RegisterRequest
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{"bad email", badEmail, nil, http.StatusBadRequest, "validation_error"},
		{"bad role", badRole, nil, http.StatusBadRequest, "validation_error"},
		{"short password", shortPassword, nil, http.StatusBadRequest, "validation_error"},
		{"bad date of birth", badDOB, nil, http.StatusBadRequest, "validation_error"},
		{"email taken", valid, ErrEmailTaken, http.StatusConflict, "conflict"},
		{"unique violation", valid, &pq.Error{Code: "23505"}, http.StatusConflict, "conflict"},
		{"duplicate user id", valid, fmt.Errorf("failed to create user PAT0002: %w", ErrDuplicateUserID), http.StatusConflict, "conflict"},
		{"profile missing", valid, ErrProfileMissing, http.StatusBadRequest, "validation_error"},
		{"profile mismatch", valid, ErrProfileRoleMismatch, http.StatusBadRequest, "validation_error"},
		{"unexpected", valid, errors.New("boom"), http.StatusInternalServerError, "create_user_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&mockService{
				registerUserFunc: func(ctx context.Context, in RegisterInput) (*UserWithRole, error) {
					if tt.serviceErr == nil {
						t.Error("Service should not be called for invalid input")
					}
					return nil, tt.serviceErr
				},
			})

			rec := httptest.NewRecorder()
			handler.Register(rec, jsonRequest(t, http.MethodPost, "/auth/register", tt.body))

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error != tt.wantError {
				t.Errorf("Expected error '%s', got '%s' (%s)", tt.wantError, resp.Error, resp.Message)
			}
		})
	}
}

func TestHandlerListUsers_RoleAndPagination(t *testing.T) {
	var gotRole Role
	handler := NewHandler(&mockService{
		listUsersFunc: func(ctx context.Context, role Role) ([]User, error) {
			gotRole = role
			return []User{{ID: "DOC0001"}, {ID: "DOC0002"}, {ID: "DOC0003"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/users?role=doctor&page=2&limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if gotRole != RoleDoctor {
		t.Errorf("Expected role filter doctor, got %q", gotRole)
	}

	var resp struct {
		Users      []User `json:"users"`
		Pagination struct {
			CurrentPage  int  `json:"currentPage"`
			TotalPages   int  `json:"totalPages"`
			TotalRecords int  `json:"totalRecords"`
			HasNext      bool `json:"hasNext"`
		} `json:"pagination"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)

	if len(resp.Users) != 1 || resp.Users[0].ID != "DOC0003" {
		t.Errorf("Expected only DOC0003 on page 2, got %+v", resp.Users)
	}
	if resp.Pagination.TotalRecords != 3 || resp.Pagination.TotalPages != 2 || resp.Pagination.HasNext {
		t.Errorf("Unexpected pagination: %+v", resp.Pagination)
	}
}

func TestHandlerListUsers_InvalidRole(t *testing.T) {
	handler := NewHandler(&mockService{})

	rec := httptest.NewRecorder()
	handler.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/users?role=nurse", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandlerGetUser_NotFound(t *testing.T) {
	handler := NewHandler(&mockService{
		getUserFunc: func(ctx context.Context, id string) (*UserWithRole, error) {
			if id != "PAT0404" {
				t.Errorf("Expected id PAT0404, got %s", id)
			}
			return nil, ErrUserNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/users/PAT0404", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "PAT0404"})
	rec := httptest.NewRecorder()
	handler.GetUser(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "not_found" {
		t.Errorf("Expected error 'not_found', got '%s'", resp.Error)
	}
}

func TestHandlerUpdatePatient_InvalidBloodType(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := jsonRequest(t, http.MethodPut, "/patients/PAT0001", map[string]string{"bloodType": "C+"})
	req = mux.SetURLVars(req, map[string]string{"id": "PAT0001"})
	rec := httptest.NewRecorder()
	handler.UpdatePatient(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandlerUpdatePatient_PartialUpdate(t *testing.T) {
	var got PatientUpdate
	handler := NewHandler(&mockService{
		updatePatientFunc: func(ctx context.Context, id string, upd PatientUpdate) (*Patient, error) {
			got = upd
			return &Patient{ID: id, UserID: id, BloodType: upd.BloodType}, nil
		},
	})

	req := jsonRequest(t, http.MethodPut, "/patients/PAT0001", map[string]string{"bloodType": "AB-"})
	req = mux.SetURLVars(req, map[string]string{"id": "PAT0001"})
	rec := httptest.NewRecorder()
	handler.UpdatePatient(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.BloodType == nil || *got.BloodType != BloodTypeABNeg {
		t.Errorf("Expected blood type AB-, got %v", got.BloodType)
	}
	if got.DateOfBirth != nil || got.Gender != nil || got.EmergencyContact != nil {
		t.Errorf("Expected untouched fields to stay nil, got %+v", got)
	}
}

func TestHandlerGetAppointment_InvalidID(t *testing.T) {
	handler := NewHandler(&mockService{})

	for _, id := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil)
		req = mux.SetURLVars(req, map[string]string{"id": id})
		rec := httptest.NewRecorder()
		handler.GetAppointment(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected status 400, got %d", id, rec.Code)
		}
		if resp := decodeError(t, rec); resp.Error != "invalid_id" {
			t.Errorf("id %q: expected error 'invalid_id', got '%s'", id, resp.Error)
		}
	}
}

func TestHandlerListAppointments_Filters(t *testing.T) {
	var got AppointmentFilter
	handler := NewHandler(&mockService{
		listAppointmentsFunc: func(ctx context.Context, filter AppointmentFilter) ([]AppointmentWithDetails, error) {
			got = filter
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.ListAppointments(rec, httptest.NewRequest(http.MethodGet, "/appointments?patientId=PAT0001&doctorId=DOC0001", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got.PatientID != "PAT0001" || got.DoctorID != "DOC0001" {
		t.Errorf("Unexpected filter: %+v", got)
	}
	if !strings.Contains(rec.Body.String(), `"appointments":[]`) {
		t.Errorf("Expected empty appointments array, got %s", rec.Body.String())
	}
}

func TestHandlerCreateAppointment(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "valid",
			body:       map[string]interface{}{"patientId": "PAT0001", "doctorId": "DOC0001", "date": "2024-06-01", "time": "09:30", "reason": "Checkup"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing reason",
			body:       map[string]interface{}{"patientId": "PAT0001", "doctorId": "DOC0001", "date": "2024-06-01", "time": "09:30"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank reason",
			body:       map[string]interface{}{"patientId": "PAT0001", "doctorId": "DOC0001", "date": "2024-06-01", "time": "09:30", "reason": ""},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad time",
			body:       map[string]interface{}{"patientId": "PAT0001", "doctorId": "DOC0001", "date": "2024-06-01", "time": "25:00", "reason": "Checkup"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad status",
			body:       map[string]interface{}{"patientId": "PAT0001", "doctorId": "DOC0001", "date": "2024-06-01", "time": "09:30", "status": "lost", "reason": "Checkup"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero duration",
			body:       map[string]interface{}{"patientId": "PAT0001", "doctorId": "DOC0001", "date": "2024-06-01", "time": "09:30", "duration": 0, "reason": "Checkup"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing doctor",
			body:       map[string]interface{}{"patientId": "PAT0001", "date": "2024-06-01", "time": "09:30"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&mockService{
				createAppointmentFunc: func(ctx context.Context, in CreateAppointmentInput) (*Appointment, error) {
					return &Appointment{ID: 1, PatientID: in.PatientID, DoctorID: in.DoctorID, Status: AppointmentScheduled}, nil
				},
			})

			rec := httptest.NewRecorder()
			handler.CreateAppointment(rec, jsonRequest(t, http.MethodPost, "/appointments", tt.body))

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandlerCreateAppointment_UnknownPatient(t *testing.T) {
	handler := NewHandler(&mockService{
		createAppointmentFunc: func(ctx context.Context, in CreateAppointmentInput) (*Appointment, error) {
			return nil, ErrPatientNotFound
		},
	})

	body := map[string]interface{}{"patientId": "PAT0404", "doctorId": "DOC0001", "date": "2024-06-01", "time": "09:30", "reason": "Checkup"}
	rec := httptest.NewRecorder()
	handler.CreateAppointment(rec, jsonRequest(t, http.MethodPost, "/appointments", body))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestHandlerUpdateAppointment_Reason(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCalled bool
	}{
		{"blank reason", map[string]interface{}{"reason": ""}, http.StatusBadRequest, false},
		{"new reason", map[string]interface{}{"reason": "Follow-up on results"}, http.StatusOK, true},
		{"reason untouched", map[string]interface{}{"status": "confirmed"}, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := NewHandler(&mockService{
				updateAppointmentFunc: func(ctx context.Context, id int, upd AppointmentUpdate) (*Appointment, error) {
					called = true
					return &Appointment{ID: id, Reason: "Checkup", Status: AppointmentScheduled}, nil
				},
			})

			req := jsonRequest(t, http.MethodPatch, "/appointments/1", tt.body)
			req = mux.SetURLVars(req, map[string]string{"id": "1"})
			rec := httptest.NewRecorder()
			handler.UpdateAppointment(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if called != tt.wantCalled {
				t.Errorf("Service called = %t, want %t", called, tt.wantCalled)
			}
		})
	}
}

func TestHandlerCancelAppointment(t *testing.T) {
	handler := NewHandler(&mockService{
		cancelAppointmentFunc: func(ctx context.Context, id int) (*Appointment, error) {
			if id != 7 {
				return nil, ErrAppointmentNotFound
			}
			return &Appointment{ID: id, Status: AppointmentCancelled}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/appointments/7/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "7"})
	rec := httptest.NewRecorder()
	handler.CancelAppointment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var appt Appointment
	json.NewDecoder(rec.Body).Decode(&appt)
	if appt.Status != AppointmentCancelled {
		t.Errorf("Expected status cancelled, got %s", appt.Status)
	}

	req = httptest.NewRequest(http.MethodPost, "/appointments/8/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "8"})
	rec = httptest.NewRecorder()
	handler.CancelAppointment(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
