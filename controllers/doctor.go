package controllers

import (
	"log"
	"mime/multipart"
	"net/http"

	"Aarogyam/services"
	"Aarogyam/util"

	"github.com/gin-gonic/gin"
)

const maxMedicalReports = 5

type DoctorController struct {
	appointments *services.AppointmentService
	queries      *services.QueryService
	files        *services.FileStore
}

func NewDoctorController(appointments *services.AppointmentService, queries *services.QueryService, files *services.FileStore) *DoctorController {
	return &DoctorController{appointments: appointments, queries: queries, files: files}
}

func (dc *DoctorController) Routes(r *gin.RouterGroup) {
	doctor := r.Group("/doctor", RequireRole(util.RoleDoctor))
	{
		doctor.GET("/dashboard", dc.Dashboard)
		doctor.GET("/appointments", dc.Appointments)
		doctor.GET("/appointments/addAppointmentDetails/:id", dc.AppointmentDetails)
		doctor.POST("/appointments/addAppointmentDetails/:id", dc.AttachClinicalData)
		doctor.GET("/appointments/edit/:id", dc.EditForm)
		doctor.POST("/appointments/edit/:id", dc.EditClinicalData)
		doctor.POST("/appointments/confirm/:id", dc.ConfirmAppointment)
		doctor.GET("/patients", dc.Patients)
		doctor.GET("/patient/:id/healthrecords", dc.PatientHealthRecords)
		doctor.GET("/patient/:id/prescriptions", dc.PairPrescriptions)
	}
}

/*
* Doctor profile plus today's appointments, through the warmed cache
 */
func (dc *DoctorController) Dashboard(c *gin.Context) {
	doctorID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	doctor, err := dc.queries.Doctor(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	today, err := dc.queries.DoctorTodayAppointments(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"doctor": doctor, "todaysAppointments": today}))
}

func (dc *DoctorController) Appointments(c *gin.Context) {
	doctorID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointments, err := dc.queries.DoctorAppointments(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointments))
}

func (dc *DoctorController) AppointmentDetails(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointment, err := dc.queries.AppointmentWithPatient(c.Request.Context(), id)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

/*
* Multipart form: clinical text plus up to three attachment groups
* Store the uploads, then hand their tokens to the fan-out
 */
func (dc *DoctorController) AttachClinicalData(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	input, err := dc.clinicalInput(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointment, err := dc.appointments.AttachClinicalData(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

// EditForm returns the appointment together with the health record and
// billing derived from it, the data the edit screen needs prefilled.
func (dc *DoctorController) EditForm(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	bundle, err := dc.queries.EncounterBundle(c.Request.Context(), id)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(bundle))
}

func (dc *DoctorController) EditClinicalData(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	input, err := dc.clinicalInput(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointment, err := dc.appointments.EditClinicalData(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

func (dc *DoctorController) ConfirmAppointment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointment, err := dc.appointments.Confirm(c.Request.Context(), id)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

func (dc *DoctorController) Patients(c *gin.Context) {
	doctorID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	patients, err := dc.queries.DoctorPatients(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(patients))
}

func (dc *DoctorController) PatientHealthRecords(c *gin.Context) {
	patientID, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	records, err := dc.queries.PatientHealthRecords(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(records))
}

// PairPrescriptions lists the appointment history between the logged-in
// doctor and one patient, where the prescription tokens live.
func (dc *DoctorController) PairPrescriptions(c *gin.Context) {
	doctorID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	patientID, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointments, err := dc.queries.PairAppointments(c.Request.Context(), doctorID, patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointments))
}

/*
* Text fields and file fields both come under the patient group
* patient[prescription] and patient[bill] carry one file, medicalReports up
* to five
 */
func (dc *DoctorController) clinicalInput(c *gin.Context) (services.ClinicalInput, error) {
	input := services.ClinicalInput{
		Disease:  formField(c, "patient", "disease"),
		Symptoms: formField(c, "patient", "symptoms"),
	}

	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body: text-only submission is still valid.
		return input, nil
	}

	if fh := firstFile(form, "patient[prescription]"); fh != nil {
		token, err := dc.files.Store(fh)
		if err != nil {
			return input, err
		}
		input.Prescription = token
	}

	reports := form.File["patient[medicalReports]"]
	if len(reports) > maxMedicalReports {
		reports = reports[:maxMedicalReports]
	}
	for _, fh := range reports {
		token, err := dc.files.Store(fh)
		if err != nil {
			log.Println("Error while storing medical report: ", err)
			return input, err
		}
		input.Reports = append(input.Reports, token)
	}

	if fh := firstFile(form, "patient[bill]"); fh != nil {
		token, err := dc.files.Store(fh)
		if err != nil {
			return input, err
		}
		input.Bill = token
	}
	return input, nil
}

func firstFile(form *multipart.Form, key string) *multipart.FileHeader {
	if files := form.File[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}
