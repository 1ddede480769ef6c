package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"Aarogyam/models"
	"Aarogyam/store"
	"Aarogyam/util"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentService is the lifecycle coordinator: it owns appointment state
// transitions and the cross-entity effects each transition implies.
type AppointmentService struct {
	store       store.Store
	meetBaseURL string
}

func NewAppointmentService(s store.Store, meetBaseURL string) *AppointmentService {
	return &AppointmentService{store: s, meetBaseURL: meetBaseURL}
}

// ClinicalInput carries the clinical-data form for attach and edit. The
// attachment fields hold tokens already produced by the file store; nil means
// the field was not supplied.
type ClinicalInput struct {
	Disease      string
	Symptoms     string
	Prescription string
	Reports      []string
	Bill         string
}

/*
* Validate both principals exist
* Parse the date
* Create the appointment in state pending
* Appointment lists on principals are derived views, not stored arrays,
* so booking writes exactly one document
 */
func (s *AppointmentService) Book(ctx context.Context, patientID, doctorID primitive.ObjectID, date, timeSlot, reason string) (*models.Appointment, error) {
	if _, err := s.store.PatientByID(ctx, patientID); err != nil {
		log.Println("Error while validating patient for booking: ", err)
		return nil, err
	}
	if _, err := s.store.DoctorByID(ctx, doctorID); err != nil {
		log.Println("Error while validating doctor for booking: ", err)
		return nil, err
	}
	when, err := parseAppointmentDate(date)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		Date:        when,
		TimeSlot:    timeSlot,
		Status:      util.StatusPending,
		Reason:      reason,
		Attachments: []string{},
	}
	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

/*
* Same validation as Book
* Enters the videoconsultation terminal state directly, bypassing pending
* Generates and persists the external meeting link
 */
func (s *AppointmentService) BookVideoConsultation(ctx context.Context, patientID, doctorID primitive.ObjectID, date, timeSlot, symptoms string) (*models.Appointment, error) {
	if _, err := s.store.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	if _, err := s.store.DoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	when, err := parseAppointmentDate(date)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		Date:        when,
		TimeSlot:    timeSlot,
		Status:      util.StatusVideoConsultation,
		Reason:      "Video Consultation",
		Summary:     symptoms,
		Attachments: []string{},
		MeetingLink: s.newMeetingLink(),
	}
	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

/*
* Set status to confirmed
* Cross-link the pair with set semantics, so a second confirm is a no-op
 */
func (s *AppointmentService) Confirm(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error) {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	appointment.Status = util.StatusConfirmed
	if err := s.store.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	if err := s.store.AddPatientRef(ctx, appointment.DoctorID, appointment.PatientID); err != nil {
		return nil, err
	}
	if err := s.store.AddDoctorRef(ctx, appointment.PatientID, appointment.DoctorID); err != nil {
		return nil, err
	}
	return appointment, nil
}

/*
* Fan-out of one clinical encounter, inside one transaction:
* 1. appointment disease/summary updated, prescription appended if supplied
* 2. new health record for the encounter with the report attachments
* 3. new billing with a fresh invoice number, zero amount, bill attachment
 */
func (s *AppointmentService) AttachClinicalData(ctx context.Context, appointmentID primitive.ObjectID, in ClinicalInput) (*models.Appointment, error) {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	// The transaction callback can run more than once on transient errors,
	// so the new attachment list is computed once, outside it.
	attachments := append([]string(nil), appointment.Attachments...)
	if in.Prescription != "" {
		attachments = append(attachments, in.Prescription)
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		appointment.Disease = in.Disease
		appointment.Summary = in.Symptoms
		appointment.Attachments = attachments
		if err := s.store.UpdateAppointment(ctx, appointment); err != nil {
			return err
		}

		record := &models.HealthRecord{
			PatientID:     appointment.PatientID,
			DoctorID:      appointment.DoctorID,
			AppointmentID: appointment.ID,
			Disease:       in.Disease,
			Symptoms:      in.Symptoms,
			Attachments:   in.Reports,
			Date:          time.Now(),
		}
		if err := s.store.CreateHealthRecord(ctx, record); err != nil {
			return err
		}

		billing := &models.Billing{
			PatientID:     appointment.PatientID,
			DoctorID:      appointment.DoctorID,
			AppointmentID: appointment.ID,
			InvoiceNo:     NewInvoiceNo(),
			Date:          time.Now(),
			Amount:        0,
			Reason:        in.Disease,
			Status:        util.BillingUnpaid,
			PaymentMethod: "cash",
		}
		if in.Bill != "" {
			billing.Attachments = []string{in.Bill}
		}
		return s.store.CreateBilling(ctx, billing)
	})
	if err != nil {
		log.Println("Error from clinical fan-out: ", err)
		return nil, err
	}
	return appointment, nil
}

/*
* Re-invocation of attach for an existing encounter: update in place
* Disease and symptoms are required, checked before any mutation
* A new prescription replaces the attachment list instead of appending
* Health record and billing are resolved by appointment id
 */
func (s *AppointmentService) EditClinicalData(ctx context.Context, appointmentID primitive.ObjectID, in ClinicalInput) (*models.Appointment, error) {
	if strings.TrimSpace(in.Disease) == "" || strings.TrimSpace(in.Symptoms) == "" {
		return nil, fmt.Errorf("%w: %s", util.ErrValidationFailed, util.DISEASE_AND_SYMPTOMS_REQUIRED)
	}
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		appointment.Disease = in.Disease
		appointment.Summary = in.Symptoms
		if in.Prescription != "" {
			appointment.Attachments = []string{in.Prescription}
		}
		if err := s.store.UpdateAppointment(ctx, appointment); err != nil {
			return err
		}

		record, err := s.store.HealthRecordByAppointment(ctx, appointment.ID)
		switch {
		case err == nil:
			record.Disease = in.Disease
			record.Symptoms = in.Symptoms
			if len(in.Reports) > 0 {
				record.Attachments = in.Reports
			}
			if err := s.store.UpdateHealthRecord(ctx, record); err != nil {
				return err
			}
		case !errors.Is(err, util.ErrNotFound):
			return err
		}

		billing, err := s.store.BillingByAppointment(ctx, appointment.ID)
		switch {
		case err == nil:
			billing.Reason = in.Disease
			if in.Bill != "" {
				billing.Attachments = []string{in.Bill}
			}
			if err := s.store.UpdateBilling(ctx, billing); err != nil {
				return err
			}
		case !errors.Is(err, util.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		log.Println("Error from clinical edit: ", err)
		return nil, err
	}
	return appointment, nil
}

// Cancel hard-deletes the appointment. Nothing else to retract: principal
// appointment lists are derived, so no stale reference survives.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID primitive.ObjectID) error {
	return s.store.DeleteAppointment(ctx, appointmentID)
}

// RemoveAttachment filters the token out of the appointment's attachment
// list by exact match. An absent token is a no-op.
func (s *AppointmentService) RemoveAttachment(ctx context.Context, appointmentID primitive.ObjectID, token string) error {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	appointment.Attachments = removeToken(appointment.Attachments, token)
	return s.store.UpdateAppointment(ctx, appointment)
}

func (s *AppointmentService) RemoveBillingAttachment(ctx context.Context, billingID primitive.ObjectID, token string) error {
	billing, err := s.store.BillingByID(ctx, billingID)
	if err != nil {
		return err
	}
	billing.Attachments = removeToken(billing.Attachments, token)
	return s.store.UpdateBilling(ctx, billing)
}

func (s *AppointmentService) MeetingRoom(ctx context.Context, appointmentID primitive.ObjectID) (string, error) {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return "", err
	}
	return appointment.MeetingLink, nil
}

func removeToken(attachments []string, token string) []string {
	out := attachments[:0]
	for _, a := range attachments {
		if a != token {
			out = append(out, a)
		}
	}
	return out
}

// NewInvoiceNo draws a 4-digit number uniformly from [1000, 9999]. There is
// no uniqueness check against existing invoices; two rapid encounters can
// collide.
func NewInvoiceNo() string {
	return fmt.Sprintf("INV-%d", rand.Intn(9000)+1000)
}

func (s *AppointmentService) newMeetingLink() string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/room-%d-%s", s.meetBaseURL, time.Now().UnixMilli(), suffix)
}

/*
* Accept the HTML date input format first, then RFC 3339
 */
func parseAppointmentDate(date string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", util.ErrValidationFailed, util.INVALID_APPOINTMENT_DATE)
	}
	return t, nil
}
