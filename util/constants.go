package util

// Roles
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Appointment statuses
const (
	StatusPending           = "pending"
	StatusConfirmed         = "confirmed"
	StatusVideoConsultation = "videoconsultation"
)

// Billing statuses
const (
	BillingPaid   = "paid"
	BillingUnpaid = "unpaid"
)

// Collections
const (
	DoctorCollection       = "doctors"
	PatientCollection      = "patients"
	AppointmentCollection  = "appointments"
	HealthRecordCollection = "healthrecords"
	BillingCollection      = "billings"
)

// Cache keys
const (
	SessionKey     = "SESSION:"
	DoctorTodayKey = "DOCTOR_TODAY:"
)

// Error messages
const (
	DOCTOR_NOT_FOUND                  = "doctor not found"
	PATIENT_NOT_FOUND                 = "patient not found"
	APPOINTMENT_NOT_FOUND             = "appointment not found"
	HEALTH_RECORD_NOT_FOUND           = "health record not found"
	BILLING_NOT_FOUND                 = "billing not found"
	USERNAME_ALREADY_TAKEN            = "username already taken"
	EMAIL_ALREADY_TAKEN               = "email already taken"
	USERNAME_OR_PASSWORD_NOT_PROVIDED = "username or password not provided"
	INVALID_CREDENTIALS               = "invalid username or password"
	SESSION_EXPIRED_OR_REVOKED        = "session expired or revoked"
	DISEASE_AND_SYMPTOMS_REQUIRED     = "disease and symptoms are required"
	INVALID_APPOINTMENT_DATE          = "invalid appointment date"
	INVALID_OBJECT_ID                 = "invalid id"
)
