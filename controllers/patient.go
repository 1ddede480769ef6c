package controllers

import (
	"net/http"

	"Aarogyam/services"
	"Aarogyam/util"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	appointments *services.AppointmentService
	queries      *services.QueryService
}

func NewPatientController(appointments *services.AppointmentService, queries *services.QueryService) *PatientController {
	return &PatientController{appointments: appointments, queries: queries}
}

func (pc *PatientController) Routes(r *gin.RouterGroup) {
	patient := r.Group("/patient", RequireRole(util.RolePatient))
	{
		patient.GET("/dashboard", pc.Dashboard)
		patient.GET("/appointments", pc.SearchAppointments)
		patient.GET("/todaysappointments", pc.Appointments)
		patient.DELETE("/todaysappointments/cancel/:id", pc.CancelAppointment)
		patient.GET("/healthrecords", pc.HealthRecords)
		patient.GET("/prescriptions", pc.Prescriptions)
		patient.POST("/prescriptions/delete/:id", pc.DeletePrescription)
		patient.GET("/billings", pc.Billings)
		patient.POST("/billings/delete/:id", pc.DeleteBillAttachment)
		patient.GET("/doctors", pc.Doctors)
	}
	r.POST("/bookappointment", RequireRole(util.RolePatient), pc.BookAppointment)
}

/*
* Three upcoming appointments, three recent records, three recent bills
 */
func (pc *PatientController) Dashboard(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	dash, err := pc.queries.PatientDashboard(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(dash))
}

/*
* Structured filters from the query string, free-text search after the join
 */
func (pc *PatientController) SearchAppointments(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	query := services.SearchQuery{
		Date:     c.Query("date"),
		Status:   c.Query("status"),
		TimeSlot: c.Query("timeSlot"),
		Search:   c.Query("search"),
	}
	appointments, err := pc.queries.SearchAppointments(c.Request.Context(), patientID, query)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointments))
}

func (pc *PatientController) Appointments(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointments, err := pc.queries.PatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointments))
}

/*
* Booking form fields come namespaced under the patient group
 */
func (pc *PatientController) BookAppointment(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	doctorID, err := hexID(formField(c, "patient", "doctorId"))
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointment, err := pc.appointments.Book(c.Request.Context(),
		patientID,
		doctorID,
		formField(c, "patient", "appointmentDate"),
		formField(c, "patient", "timeSlot"),
		formField(c, "patient", "reason"),
	)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

func (pc *PatientController) CancelAppointment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	if err := pc.appointments.Cancel(c.Request.Context(), id); err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse("appointment canceled"))
}

func (pc *PatientController) HealthRecords(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	records, err := pc.queries.PatientHealthRecords(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(records))
}

// Prescriptions live on the appointments as attachment tokens.
func (pc *PatientController) Prescriptions(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointments, err := pc.queries.PatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointments))
}

/*
* Remove a prescription token from the appointment's attachment list
* The token comes from the file query param; unknown tokens are a no-op
 */
func (pc *PatientController) DeletePrescription(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	if err := pc.appointments.RemoveAttachment(c.Request.Context(), id, c.Query("file")); err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse("prescription deleted"))
}

func (pc *PatientController) Billings(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	billings, err := pc.queries.PatientBillings(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(billings))
}

func (pc *PatientController) DeleteBillAttachment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	if err := pc.appointments.RemoveBillingAttachment(c.Request.Context(), id, c.Query("file")); err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse("attachment deleted"))
}

func (pc *PatientController) Doctors(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	doctors, err := pc.queries.PatientDoctors(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(doctors))
}
