package controllers

import (
	"net/http"

	"Aarogyam/services"
	"Aarogyam/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	certificates *services.CertificateService
}

func NewCertificateController(certificates *services.CertificateService) *CertificateController {
	return &CertificateController{certificates: certificates}
}

func (cc *CertificateController) Routes(r *gin.RouterGroup) {
	r.POST("/generate-certificate/:patientId", cc.Generate)
}

/*
* Render the certificate and answer with its URL
 */
func (cc *CertificateController) Generate(c *gin.Context) {
	patientID, err := paramID(c, "patientId")
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	var body struct {
		AdmissionDate string `form:"admissionDate" json:"admissionDate"`
		DischargeDate string `form:"dischargeDate" json:"dischargeDate"`
	}
	if err := c.Bind(&body); err != nil {
		c.JSON(http.StatusBadRequest, util.FailedResponse(err))
		return
	}
	fileURL, err := cc.certificates.Generate(c.Request.Context(), patientID, body.AdmissionDate, body.DischargeDate)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"fileUrl": fileURL})
}
