package domain

// Supported MIME types.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"
	MimeHEIC = "image/heic"
	MimeHEIF = "image/heif"
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// InputMethod tags how a document was handed to the provider.
type InputMethod string

const (
	InputMethodImage      InputMethod = "image"
	InputMethodPDF        InputMethod = "pdf"
	InputMethodDocxAsText InputMethod = "docx_as_text"
	InputMethodPlainText  InputMethod = "plain_text"
)

// AllowedContentTypes maps each supported MIME type to the input method it produces.
var AllowedContentTypes = map[string]InputMethod{
	MimeJPEG: InputMethodImage,
	MimePNG:  InputMethodImage,
	MimeWebP: InputMethodImage,
	MimeHEIC: InputMethodImage,
	MimeHEIF: InputMethodImage,
	MimePDF:  InputMethodPDF,
	MimeDOCX: InputMethodDocxAsText,
	MimeText: InputMethodPlainText,
}

// SourceKind records which request shape carried the document.
type SourceKind string

const (
	SourceMultipart  SourceKind = "multipart"
	SourceBase64JSON SourceKind = "base64_json"
)

// CredentialSource records where the provider key came from. Logged, never the key itself.
type CredentialSource string

const (
	CredentialFromRequest CredentialSource = "USER-PROVIDED"
	CredentialFromServer  CredentialSource = "SERVER-DEFAULT"
)

// DocumentType is the classification the provider assigns to a document.
type DocumentType string

const (
	DocumentTypePrescription     DocumentType = "prescription"
	DocumentTypeLabReport        DocumentType = "lab_report"
	DocumentTypeRadiologyReport  DocumentType = "radiology_report"
	DocumentTypeDischargeSummary DocumentType = "discharge_summary"
	DocumentTypeClinicalNote     DocumentType = "clinical_note"
	DocumentTypeUnknown          DocumentType = "unknown"
)

// DocumentTypes lists the enumerated document types in schema order.
var DocumentTypes = []DocumentType{
	DocumentTypePrescription,
	DocumentTypeLabReport,
	DocumentTypeRadiologyReport,
	DocumentTypeDischargeSummary,
	DocumentTypeClinicalNote,
	DocumentTypeUnknown,
}

// LabStatus is the range classification of a lab value.
type LabStatus string

const (
	LabStatusNormal   LabStatus = "normal"
	LabStatusHigh     LabStatus = "high"
	LabStatusLow      LabStatus = "low"
	LabStatusCritical LabStatus = "critical"
)

// LabStatuses lists the enumerated lab statuses in schema order.
var LabStatuses = []LabStatus{LabStatusNormal, LabStatusHigh, LabStatusLow, LabStatusCritical}

// Confidence is the provider's self-reported legibility level.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Confidences lists the enumerated confidence levels.
var Confidences = []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}
