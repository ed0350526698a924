package domain

import (
	"encoding/json"
	"time"
)

// UploadedDocument is the raw document as received from the caller.
type UploadedDocument struct {
	RawBytes         []byte
	DeclaredMimeType string
	FileName         string
	SourceKind       SourceKind
}

// NormalizedPayload is a document ready to be embedded as inline provider data.
type NormalizedPayload struct {
	Base64Content     string
	EffectiveMimeType string
	InputMethod       InputMethod
}

// MedicalRecord is the typed view of an extraction result. The service passes the
// provider's JSON through untouched; this view exists for rendering.
type MedicalRecord struct {
	DocumentType DocumentType `json:"document_type"`
	PatientInfo  *PatientInfo `json:"patient_info"`
	DoctorInfo   *DoctorInfo  `json:"doctor_info,omitempty"`
	Date         *string      `json:"date"`
	Diagnosis    *string      `json:"diagnosis,omitempty"`
	Medications  []Medication `json:"medications,omitempty"`
	Findings     []string     `json:"findings,omitempty"`
	LabResults   []LabResult  `json:"lab_results,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	Confidence   Confidence   `json:"confidence"`
}

// PatientInfo identifies the patient.
type PatientInfo struct {
	Name      *string `json:"name"`
	Age       *string `json:"age"`
	Gender    *string `json:"gender"`
	PatientID *string `json:"patient_id"`
	Contact   *string `json:"contact"`
}

// DoctorInfo identifies the practitioner.
type DoctorInfo struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"license_number"`
	Hospital       *string `json:"hospital"`
}

// Medication is one prescribed drug.
type Medication struct {
	Name         *string `json:"name"`
	Dosage       *string `json:"dosage"`
	Frequency    *string `json:"frequency"`
	Duration     *string `json:"duration"`
	Route        *string `json:"route"`
	Instructions *string `json:"instructions"`
}

// LabResult is one measured value.
type LabResult struct {
	TestName       *string   `json:"test_name"`
	Value          *string   `json:"value"`
	Unit           *string   `json:"unit"`
	ReferenceRange *string   `json:"reference_range"`
	Status         LabStatus `json:"status"`
}

// ParseMedicalRecord decodes an extraction result into its typed view.
func ParseMedicalRecord(raw json.RawMessage) (*MedicalRecord, error) {
	var rec MedicalRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ProcessingMeta describes how a result was produced.
type ProcessingMeta struct {
	Model       string      `json:"model"`
	InputMethod InputMethod `json:"input_method"`
	ProcessedAt time.Time   `json:"processed_at"`
	Markdown    string      `json:"markdown,omitempty"`
}

// Str returns the value of s or "".
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
