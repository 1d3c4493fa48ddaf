package http

import (
	"net/http"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/hospital"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// SetupRouter initializes all routes for the application. metrics may be nil.
func SetupRouter(handler *hospital.Handler, metrics HTTPMetricsRecorder, serviceName string) *mux.Router {
	r := mux.NewRouter()

	r.Use(otelmux.Middleware(serviceName))
	if metrics != nil {
		r.Use(MetricsMiddleware(metrics))
	}

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"` + serviceName + `"}`))
	}).Methods("GET")

	// Auth
	r.HandleFunc("/auth/login", handler.Login).Methods("POST")
	r.HandleFunc("/auth/register", handler.Register).Methods("POST")

	// Users
	r.HandleFunc("/users", handler.Register).Methods("POST")
	r.HandleFunc("/users", handler.ListUsers).Methods("GET")
	r.HandleFunc("/users/{id}", handler.GetUser).Methods("GET")
	r.HandleFunc("/users/{id}", handler.UpdateUser).Methods("PATCH")

	// Doctors
	r.HandleFunc("/doctors", handler.CreateDoctor).Methods("POST")
	r.HandleFunc("/doctors", handler.ListDoctors).Methods("GET")
	r.HandleFunc("/doctors/{id}", handler.GetDoctor).Methods("GET")
	r.HandleFunc("/doctors/{id}", handler.UpdateDoctor).Methods("PATCH")

	// Patients
	r.HandleFunc("/patients", handler.CreatePatient).Methods("POST")
	r.HandleFunc("/patients", handler.ListPatients).Methods("GET")
	r.HandleFunc("/patients/{id}", handler.GetPatient).Methods("GET")
	r.HandleFunc("/patients/{id}", handler.UpdatePatient).Methods("PATCH")

	// Appointments
	r.HandleFunc("/appointments", handler.CreateAppointment).Methods("POST")
	r.HandleFunc("/appointments", handler.ListAppointments).Methods("GET")
	r.HandleFunc("/appointments/{id}", handler.GetAppointment).Methods("GET")
	r.HandleFunc("/appointments/{id}", handler.UpdateAppointment).Methods("PATCH")
	r.HandleFunc("/appointments/{id}/cancel", handler.CancelAppointment).Methods("POST")

	// Specializations
	r.HandleFunc("/specializations", handler.CreateSpecialization).Methods("POST")
	r.HandleFunc("/specializations", handler.ListSpecializations).Methods("GET")
	r.HandleFunc("/specializations/{id}", handler.GetSpecialization).Methods("GET")
	r.HandleFunc("/specializations/{id}", handler.UpdateSpecialization).Methods("PATCH")

	return r
}
