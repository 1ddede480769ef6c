package controllers

import (
	"net/http"

	"Aarogyam/services"
	"Aarogyam/util"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	appointments *services.AppointmentService
	queries      *services.QueryService
}

func NewVideoController(appointments *services.AppointmentService, queries *services.QueryService) *VideoController {
	return &VideoController{appointments: appointments, queries: queries}
}

func (vc *VideoController) Routes(r *gin.RouterGroup) {
	r.GET("/videoconsultation", vc.Doctors)
	r.POST("/videoconsultation/book", RequireRole(util.RolePatient), vc.Book)
	r.GET("/videoconsultation/room/:appointmentId", vc.Room)
}

// Doctors feeds the booking form's doctor dropdown.
func (vc *VideoController) Doctors(c *gin.Context) {
	doctors, err := vc.queries.ListDoctors(c.Request.Context())
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(doctors))
}

/*
* Books straight into the videoconsultation state and returns the
* appointment carrying its generated meeting link
 */
func (vc *VideoController) Book(c *gin.Context) {
	patientID, err := principalID(c)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	var body struct {
		DoctorID        string `form:"doctorId" json:"doctorId"`
		AppointmentDate string `form:"appointmentDate" json:"appointmentDate"`
		TimeSlot        string `form:"timeSlot" json:"timeSlot"`
		Symptoms        string `form:"symptoms" json:"symptoms"`
	}
	if err := c.Bind(&body); err != nil {
		c.JSON(http.StatusBadRequest, util.FailedResponse(err))
		return
	}
	doctorID, err := hexID(body.DoctorID)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	appointment, err := vc.appointments.BookVideoConsultation(c.Request.Context(),
		patientID, doctorID, body.AppointmentDate, body.TimeSlot, body.Symptoms)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

func (vc *VideoController) Room(c *gin.Context) {
	id, err := paramID(c, "appointmentId")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	link, err := vc.appointments.MeetingRoom(c.Request.Context(), id)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"videoURL": link}))
}
