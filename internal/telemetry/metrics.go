package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	UserTotal           metric.Int64Counter
	DoctorTotal         metric.Int64Counter
	PatientTotal        metric.Int64Counter
	AppointmentTotal    metric.Int64Counter
	SpecializationTotal metric.Int64Counter

	// Auth metrics
	LoginFailuresTotal metric.Int64Counter
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/WailSalutem-Health-Care/hospital-service")

	// HTTP request counter
	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	// HTTP duration histogram
	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	operationCounter := func(name, entity string) (metric.Int64Counter, error) {
		return meter.Int64Counter(
			name,
			metric.WithDescription("Total number of "+entity+" operations"),
			metric.WithUnit("{operation}"),
		)
	}

	userTotal, err := operationCounter("user_total", "user")
	if err != nil {
		return nil, err
	}
	doctorTotal, err := operationCounter("doctor_total", "doctor")
	if err != nil {
		return nil, err
	}
	patientTotal, err := operationCounter("patient_total", "patient")
	if err != nil {
		return nil, err
	}
	appointmentTotal, err := operationCounter("appointment_total", "appointment")
	if err != nil {
		return nil, err
	}
	specializationTotal, err := operationCounter("specialization_total", "specialization")
	if err != nil {
		return nil, err
	}

	// Login failures counter
	loginFailuresTotal, err := meter.Int64Counter(
		"login_failures_total",
		metric.WithDescription("Total number of failed login attempts"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPDurationMs:      httpDurationMs,
		UserTotal:           userTotal,
		DoctorTotal:         doctorTotal,
		PatientTotal:        patientTotal,
		AppointmentTotal:    appointmentTotal,
		SpecializationTotal: specializationTotal,
		LoginFailuresTotal:  loginFailuresTotal,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordOperation records a repository operation for one entity type
func (m *Metrics) RecordOperation(ctx context.Context, entity, operation string) {
	var counter metric.Int64Counter
	switch entity {
	case "user":
		counter = m.UserTotal
	case "doctor":
		counter = m.DoctorTotal
	case "patient":
		counter = m.PatientTotal
	case "appointment":
		counter = m.AppointmentTotal
	case "specialization":
		counter = m.SpecializationTotal
	default:
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordLoginFailure records a failed login attempt
func (m *Metrics) RecordLoginFailure(ctx context.Context, reason string) {
	m.LoginFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}
