package controllers

import (
	"log"
	"net/http"

	"Aarogyam/config"
	"Aarogyam/services"
	"Aarogyam/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth  *services.AuthService
	files *services.FileStore
}

func NewAuthController(auth *services.AuthService, files *services.FileStore) *AuthController {
	return &AuthController{auth: auth, files: files}
}

func (ac *AuthController) Routes(r *gin.Engine) {
	r.POST("/login", ac.Login)
	r.POST("/signup/doctor", ac.SignupDoctor)
	r.POST("/signup/patient", ac.SignupPatient)
	r.GET("/logout", ac.Logout)
}

/*
* Bind the credentials
* Pass to the service, set the 7-day session cookie on success
 */
func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		c.JSON(http.StatusBadRequest, util.FailedResponse(err))
		return
	}
	principal, token, err := ac.auth.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	ac.setSessionCookie(c, token)

	payload := gin.H{"role": principal.Role, "token": token}
	if principal.Doctor != nil {
		payload["doctor"] = principal.Doctor
	} else {
		payload["patient"] = principal.Patient
	}
	c.JSON(http.StatusOK, util.SuccessResponse(payload))
}

/*
* Multipart form: doctor fields plus an optional profile upload
* Store the profile first so the doctor document carries its token
 */
func (ac *AuthController) SignupDoctor(c *gin.Context) {
	var in services.DoctorSignup
	if err := c.Bind(&in); err != nil {
		c.JSON(http.StatusBadRequest, util.FailedResponse(err))
		return
	}

	profileToken := ""
	if fh, err := c.FormFile("profile"); err == nil {
		profileToken, err = ac.files.Store(fh)
		if err != nil {
			log.Println("Error while storing profile upload: ", err)
			c.JSON(util.StatusFor(err), util.FailedResponse(err))
			return
		}
	}

	doctor, token, err := ac.auth.SignupDoctor(c.Request.Context(), in, profileToken)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	ac.setSessionCookie(c, token)
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"doctor": doctor, "token": token}))
}

func (ac *AuthController) SignupPatient(c *gin.Context) {
	var in services.PatientSignup
	if err := c.Bind(&in); err != nil {
		c.JSON(http.StatusBadRequest, util.FailedResponse(err))
		return
	}
	patient, token, err := ac.auth.SignupPatient(c.Request.Context(), in)
	if err != nil {
		c.JSON(util.StatusFor(err), util.FailedResponse(err))
		return
	}
	ac.setSessionCookie(c, token)
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"patient": patient, "token": token}))
}

func (ac *AuthController) Logout(c *gin.Context) {
	if token := tokenFromRequest(c); token != "" {
		if err := ac.auth.Logout(c.Request.Context(), token); err != nil {
			log.Println("Logout error: ", err)
		}
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, util.SuccessResponse("logged out"))
}

func (ac *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(SessionCookie, token, int(config.SessionTTL.Seconds()), "/", "", false, true)
}
