package controllers

import "Aarogyam/services"

// Handlers bundles every controller with its dependencies wired, so routes
// registration takes a single argument.
type Handlers struct {
	Auth        *AuthController
	Patient     *PatientController
	Doctor      *DoctorController
	Video       *VideoController
	Certificate *CertificateController

	AuthService *services.AuthService
}

func New(
	auth *services.AuthService,
	appointments *services.AppointmentService,
	queries *services.QueryService,
	certificates *services.CertificateService,
	files *services.FileStore,
) *Handlers {
	return &Handlers{
		Auth:        NewAuthController(auth, files),
		Patient:     NewPatientController(appointments, queries),
		Doctor:      NewDoctorController(appointments, queries, files),
		Video:       NewVideoController(appointments, queries),
		Certificate: NewCertificateController(certificates),
		AuthService: auth,
	}
}
