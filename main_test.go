package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"Aarogyam/controllers"
	"Aarogyam/routes"
	"Aarogyam/services"
	"Aarogyam/store"
	"Aarogyam/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the full route surface over in-memory backends, the
// same shape run() builds over Mongo and Redis.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	sessions := store.NewMemorySessions()
	cache := store.NewMemoryCache()

	files := services.NewFileStore(t.TempDir())
	auth := services.NewAuthService(mem, sessions, []byte("test-secret"), time.Hour)
	appointments := services.NewAppointmentService(mem, "https://meet.jit.si")
	queries := services.NewQueryService(mem, cache)
	certificates := services.NewCertificateService(mem, t.TempDir())

	r := gin.New()
	routes.Routes(r, controllers.New(auth, appointments, queries, certificates, files))
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doForm(r *gin.Engine, path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestPrivateRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/patient/dashboard", "/doctor/appointments", "/videoconsultation"} {
		w := doGet(r, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestSignupSetsSessionCookie(t *testing.T) {
	r := newTestRouter(t)

	w := doForm(r, "/signup/patient", "", url.Values{
		"username": {"john"}, "email": {"john@example.com"}, "password": {"hunter2"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookie := ""
	for _, c := range w.Result().Cookies() {
		if c.Name == controllers.SessionCookie {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie, "signup must set the session cookie")

	// The cookie token opens the patient surface.
	req := httptest.NewRequest(http.MethodGet, "/patient/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: controllers.SessionCookie, Value: cookie})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRoleSeparation(t *testing.T) {
	r := newTestRouter(t)

	w := doForm(r, "/signup/doctor", "", url.Values{
		"username": {"drhouse"}, "password": {"vicodin"}, "specialization": {"Diagnostics"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	e := decode(t, w)
	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(e.Data, &payload))

	// A doctor session cannot enter the patient surface, and vice versa.
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/patient/dashboard", payload.Token).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/doctor/appointments", payload.Token).Code)
}

func TestDoctorDashboardCarriesProfile(t *testing.T) {
	r := newTestRouter(t)

	w := doForm(r, "/signup/doctor", "", url.Values{
		"username": {"drhouse"}, "password": {"vicodin"}, "specialization": {"Diagnostics"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var signup struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &signup))

	w = doGet(r, "/doctor/dashboard", signup.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dash struct {
		Doctor struct {
			Username       string `json:"username"`
			Specialization string `json:"specialization"`
		} `json:"doctor"`
		TodaysAppointments []json.RawMessage `json:"todaysAppointments"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &dash))
	assert.Equal(t, "drhouse", dash.Doctor.Username)
	assert.Equal(t, "Diagnostics", dash.Doctor.Specialization)
	assert.Empty(t, dash.TodaysAppointments)
}

func TestBookAppointmentOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doForm(r, "/signup/doctor", "", url.Values{
		"username": {"drhouse"}, "password": {"vicodin"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var doctorPayload struct {
		Token  string `json:"token"`
		Doctor struct {
			ID string `json:"id"`
		} `json:"doctor"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &doctorPayload))

	w = doForm(r, "/signup/patient", "", url.Values{
		"username": {"john"}, "password": {"hunter2"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var patientPayload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &patientPayload))

	w = doForm(r, "/bookappointment", patientPayload.Token, url.Values{
		"patient[doctorId]":        {doctorPayload.Doctor.ID},
		"patient[appointmentDate]": {"2026-09-01"},
		"patient[timeSlot]":        {"10:00"},
		"patient[reason]":          {"checkup"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var appointment struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &appointment))
	assert.Equal(t, util.StatusPending, appointment.Status)

	// Visible on both sides of the relationship.
	w = doGet(r, "/patient/appointments", patientPayload.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var views []json.RawMessage
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &views))
	assert.Len(t, views, 1)

	w = doGet(r, "/doctor/appointments", doctorPayload.Token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &views))
	assert.Len(t, views, 1)
}

func TestLoginRejectsBadPasswordOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doForm(r, "/signup/patient", "", url.Values{
		"username": {"john"}, "password": {"hunter2"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doForm(r, "/login", "", url.Values{"username": {"john"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w).Success)
}
