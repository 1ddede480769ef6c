package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"Aarogyam/models"
	"Aarogyam/store"
	"Aarogyam/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and verifies login sessions. The cookie/header token is
// a signed JWT whose jti keys the revocable server-side session record.
type AuthService struct {
	principals store.PrincipalStore
	sessions   store.SessionStore
	secret     []byte
	ttl        time.Duration
}

func NewAuthService(principals store.PrincipalStore, sessions store.SessionStore, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{principals: principals, sessions: sessions, secret: secret, ttl: ttl}
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type DoctorSignup struct {
	Username       string  `form:"username" json:"username"`
	Email          string  `form:"email" json:"email"`
	Password       string  `form:"password" json:"password"`
	Specialization string  `form:"specialization" json:"specialization"`
	Experience     int     `form:"experience" json:"experience"`
	Hospital       string  `form:"hospital" json:"hospital"`
	ConsultantFees float64 `form:"consultantFees" json:"consultantFees"`
	Phone          string  `form:"phone" json:"phone"`
}

type PatientSignup struct {
	Username  string  `form:"username" json:"username"`
	Email     string  `form:"email" json:"email"`
	Password  string  `form:"password" json:"password"`
	Gender    string  `form:"gender" json:"gender"`
	Age       int     `form:"age" json:"age"`
	Height    float64 `form:"height" json:"height"`
	Weight    float64 `form:"weight" json:"weight"`
	BloodType string  `form:"bloodType" json:"bloodType"`
}

/*
* Reject taken usernames and emails across both principal types
* Hash the password and create the doctor
* Log the new doctor in right away, as signup does
 */
func (s *AuthService) SignupDoctor(ctx context.Context, in DoctorSignup, profileToken string) (*models.Doctor, string, error) {
	if err := s.checkCredentials(ctx, in.Username, in.Email, in.Password); err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	doctor := &models.Doctor{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hash),
		Specialization: in.Specialization,
		Experience:     in.Experience,
		Hospital:       in.Hospital,
		ConsultantFees: in.ConsultantFees,
		Phone:          in.Phone,
		Profile:        profileToken,
	}
	if err := s.principals.CreateDoctor(ctx, doctor); err != nil {
		return nil, "", err
	}
	token, err := s.issueSession(ctx, doctor.ID, util.RoleDoctor)
	if err != nil {
		return nil, "", err
	}
	return doctor, token, nil
}

func (s *AuthService) SignupPatient(ctx context.Context, in PatientSignup) (*models.Patient, string, error) {
	if err := s.checkCredentials(ctx, in.Username, in.Email, in.Password); err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	patient := &models.Patient{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		Gender:    in.Gender,
		Age:       in.Age,
		Height:    in.Height,
		Weight:    in.Weight,
		BloodType: in.BloodType,
	}
	if err := s.principals.CreatePatient(ctx, patient); err != nil {
		return nil, "", err
	}
	token, err := s.issueSession(ctx, patient.ID, util.RolePatient)
	if err != nil {
		return nil, "", err
	}
	return patient, token, nil
}

/*
* One tagged-union lookup decides whether the username is a doctor or a
* patient, no sequential existence probes at the call site
* Compare the bcrypt hash, then issue the session
 */
func (s *AuthService) Login(ctx context.Context, username, password string) (*store.Principal, string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, "", fmt.Errorf("%w: %s", util.ErrValidationFailed, util.USERNAME_OR_PASSWORD_NOT_PROVIDED)
	}

	principal, err := s.principals.ResolveUsername(ctx, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %s", util.ErrUnauthorized, util.INVALID_CREDENTIALS)
		}
		return nil, "", err
	}

	storedHash := ""
	if principal.Doctor != nil {
		storedHash = principal.Doctor.Password
	} else {
		storedHash = principal.Patient.Password
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		log.Println("Password mismatch for user: ", username)
		return nil, "", fmt.Errorf("%w: %s", util.ErrUnauthorized, util.INVALID_CREDENTIALS)
	}

	token, err := s.issueSession(ctx, principal.ID(), principal.Role)
	if err != nil {
		return nil, "", err
	}
	return principal, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, claims.ID)
}

/*
* Verify the signature and expiry on the token
* Then require a live server-side session: tokens die at logout
 */
func (s *AuthService) Verify(ctx context.Context, token string) (*store.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrUnauthorized, util.SESSION_EXPIRED_OR_REVOKED)
	}
	return session, nil
}

/*
* Username must be free across both principal types
* Email likewise, when one is supplied
 */
func (s *AuthService) checkCredentials(ctx context.Context, username, email, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("%w: %s", util.ErrValidationFailed, util.USERNAME_OR_PASSWORD_NOT_PROVIDED)
	}
	_, err := s.principals.ResolveUsername(ctx, username)
	if err == nil {
		return fmt.Errorf("%w: %s", util.ErrValidationFailed, util.USERNAME_ALREADY_TAKEN)
	}
	if !errors.Is(err, util.ErrNotFound) {
		return err
	}
	if email != "" {
		taken, err := s.principals.EmailInUse(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", util.ErrValidationFailed, util.EMAIL_ALREADY_TAKEN)
		}
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, principalID primitive.ObjectID, role string) (string, error) {
	jti := uuid.NewString()
	expiresAt := time.Now().Add(s.ttl)

	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID.Hex(),
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		log.Println("Error while generating the token: ", err)
		return "", err
	}

	session := store.Session{
		Token:       jti,
		PrincipalID: principalID.Hex(),
		Role:        role,
		ExpiresAt:   expiresAt,
	}
	if err := s.sessions.Put(ctx, session, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, util.ErrUnauthorized
	}
	return claims, nil
}
