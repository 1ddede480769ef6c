package routes

import (
	"Aarogyam/config"
	"Aarogyam/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, h *controllers.Handlers) {

	// static
	r.Static("/uploads", config.UploadDir())
	r.Static("/certificates", config.CertificateDir())

	// public
	h.Auth.Routes(r)

	// private routes
	private := r.Group("/", controllers.Authenticated(h.AuthService))
	h.Patient.Routes(private)
	h.Doctor.Routes(private)
	h.Video.Routes(private)
	h.Certificate.Routes(private)
}
