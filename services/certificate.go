package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"Aarogyam/store"
	"Aarogyam/util"

	"github.com/jung-kurt/gofpdf"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CertificateService renders the medical leave certificate PDF and writes it
// to a statically served directory. The handler returns its URL.
type CertificateService struct {
	principals store.PrincipalStore
	dir        string
}

func NewCertificateService(principals store.PrincipalStore, dir string) *CertificateService {
	return &CertificateService{principals: principals, dir: dir}
}

/*
* Resolve the patient and the first doctor in their relationship set
* Render the fixed-field certificate
* Return the retrievable URL
 */
func (s *CertificateService) Generate(ctx context.Context, patientID primitive.ObjectID, admissionDate, dischargeDate string) (string, error) {
	patient, err := s.principals.PatientByID(ctx, patientID)
	if err != nil {
		return "", err
	}

	doctorName := "N/A"
	if len(patient.Doctors) > 0 {
		if doctor, err := s.principals.DoctorByID(ctx, patient.Doctors[0]); err == nil {
			doctorName = doctor.Username
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Println("Error while creating certificates dir: ", err)
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Medical Leave Certificate", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	line := func(s string) { pdf.CellFormat(0, 8, s, "", 1, "L", false, 0, "") }
	line(fmt.Sprintf("Patient Name: %s", patient.Username))
	line(fmt.Sprintf("Email: %s", patient.Email))
	line(fmt.Sprintf("Gender: %s", patient.Gender))
	line(fmt.Sprintf("Age: %d", patient.Age))
	line(fmt.Sprintf("Blood Type: %s", patient.BloodType))
	line(fmt.Sprintf("Doctor: %s", doctorName))
	line(fmt.Sprintf("Admission Date: %s", admissionDate))
	line(fmt.Sprintf("Discharge Date: %s", dischargeDate))
	pdf.Ln(4)

	pdf.MultiCell(0, 6, fmt.Sprintf(
		"This is to certify that %s was admitted from %s to %s and requires medical leave.",
		patient.Username, admissionDate, dischargeDate), "", "L", false)
	pdf.Ln(8)
	line("_________________________")
	line("Doctor's Signature")

	fileName := fmt.Sprintf("medical_certificate_%s.pdf", patient.ID.Hex())
	if err := pdf.OutputFileAndClose(filepath.Join(s.dir, fileName)); err != nil {
		log.Println("Error while generating certificate: ", err)
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}
	return "/certificates/" + fileName, nil
}
