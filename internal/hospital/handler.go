package hospital

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

func NewHandler(service ServiceInterface) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		service:  service,
		validate: v,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}

// respondServiceError maps service errors onto HTTP statuses. Anything not
// recognised is logged and reported as a generic failure.
func respondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrDoctorNotFound),
		errors.Is(err, ErrPatientNotFound),
		errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrSpecializationNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrProfileMissing),
		errors.Is(err, ErrProfileRoleMismatch):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrDuplicateUserID), IsUniqueViolation(err):
		respondError(w, http.StatusConflict, "conflict", conflictMessage(err))
	default:
		log.Printf("Failed to %s: %v", action, err)
		respondError(w, http.StatusInternalServerError, strings.ReplaceAll(action, " ", "_")+"_failed", "failed to "+action)
	}
}

func conflictMessage(err error) string {
	if errors.Is(err, ErrEmailTaken) {
		return err.Error()
	}
	return "a record with the same unique value already exists"
}

// decode reads a JSON body into req and runs the struct validation rules.
// It writes the 400 response itself and reports whether the caller may go on.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func intID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func respondPage[T any](w http.ResponseWriter, r *http.Request, key string, items []T) {
	page, meta := pagination.Slice(items, pagination.ParseParams(r))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		key:          page,
		"pagination": meta,
	})
}

// Auth

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		respondServiceError(w, err, "log in")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Register serves both self-registration and admin user creation.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.toInput())
	if err != nil {
		respondServiceError(w, err, "create user")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Users

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role Role
	if v := r.URL.Query().Get("role"); v != "" {
		parsed, err := ParseRole(v)
		if err != nil {
			respondServiceError(w, err, "list users")
			return
		}
		role = parsed
	}

	users, err := h.service.ListUsers(r.Context(), role)
	if err != nil {
		respondServiceError(w, err, "list users")
		return
	}
	respondPage(w, r, "users", users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err, "get user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), mux.Vars(r)["id"], req.toUpdate())
	if err != nil {
		respondServiceError(w, err, "update user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Doctors

func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.service.ListDoctors(r.Context())
	if err != nil {
		respondServiceError(w, err, "list doctors")
		return
	}
	respondPage(w, r, "doctors", doctors)
}

func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.service.GetDoctor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err, "get doctor")
		return
	}
	respondJSON(w, http.StatusOK, doctor)
}

func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if !h.decode(w, r, &req) {
		return
	}

	doctor, err := h.service.CreateDoctor(r.Context(), req.toInput(req.UserID))
	if err != nil {
		respondServiceError(w, err, "create doctor")
		return
	}
	respondJSON(w, http.StatusCreated, doctor)
}

func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	var req UpdateDoctorRequest
	if !h.decode(w, r, &req) {
		return
	}

	doctor, err := h.service.UpdateDoctor(r.Context(), mux.Vars(r)["id"], req.toUpdate())
	if err != nil {
		respondServiceError(w, err, "update doctor")
		return
	}
	respondJSON(w, http.StatusOK, doctor)
}

// Patients

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.ListPatients(r.Context())
	if err != nil {
		respondServiceError(w, err, "list patients")
		return
	}
	respondPage(w, r, "patients", patients)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.GetPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err, "get patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if !h.decode(w, r, &req) {
		return
	}

	patient, err := h.service.CreatePatient(r.Context(), req.toInput(req.UserID))
	if err != nil {
		respondServiceError(w, err, "create patient")
		return
	}
	respondJSON(w, http.StatusCreated, patient)
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var req UpdatePatientRequest
	if !h.decode(w, r, &req) {
		return
	}

	patient, err := h.service.UpdatePatient(r.Context(), mux.Vars(r)["id"], req.toUpdate())
	if err != nil {
		respondServiceError(w, err, "update patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

// Appointments

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := AppointmentFilter{
		PatientID: q.Get("patientId"),
		DoctorID:  q.Get("doctorId"),
	}

	appts, err := h.service.ListAppointments(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, "list appointments")
		return
	}
	respondPage(w, r, "appointments", appts)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(w, r)
	if !ok {
		return
	}

	appt, err := h.service.GetAppointment(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get appointment")
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	appt, err := h.service.CreateAppointment(r.Context(), req.toInput())
	if err != nil {
		respondServiceError(w, err, "create appointment")
		return
	}
	respondJSON(w, http.StatusCreated, appt)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(w, r)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	appt, err := h.service.UpdateAppointment(r.Context(), id, req.toUpdate())
	if err != nil {
		respondServiceError(w, err, "update appointment")
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(w, r)
	if !ok {
		return
	}

	appt, err := h.service.CancelAppointment(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "cancel appointment")
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

// Specializations

func (h *Handler) ListSpecializations(w http.ResponseWriter, r *http.Request) {
	specs, err := h.service.ListSpecializations(r.Context())
	if err != nil {
		respondServiceError(w, err, "list specializations")
		return
	}
	respondPage(w, r, "specializations", specs)
}

func (h *Handler) GetSpecialization(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(w, r)
	if !ok {
		return
	}

	spec, err := h.service.GetSpecialization(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get specialization")
		return
	}
	respondJSON(w, http.StatusOK, spec)
}

func (h *Handler) CreateSpecialization(w http.ResponseWriter, r *http.Request) {
	var req SpecializationRequest
	if !h.decode(w, r, &req) {
		return
	}

	spec, err := h.service.CreateSpecialization(r.Context(), CreateSpecializationInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, err, "create specialization")
		return
	}
	respondJSON(w, http.StatusCreated, spec)
}

func (h *Handler) UpdateSpecialization(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(w, r)
	if !ok {
		return
	}

	var req UpdateSpecializationRequest
	if !h.decode(w, r, &req) {
		return
	}

	spec, err := h.service.UpdateSpecialization(r.Context(), id, SpecializationUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, err, "update specialization")
		return
	}
	respondJSON(w, http.StatusOK, spec)
}
