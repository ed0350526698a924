package handler

import (
	"time"

	"medocr/internal/domain"
)

// Types in this file describe request and response bodies for the generated
// API documentation. Handlers build the envelopes with APIResponse.

// Base64UploadRequest is the JSON alternative to a multipart upload.
type Base64UploadRequest struct {
	FileBase64 string `json:"file_base64" example:"data:image/png;base64,iVBORw0KGgo..."`
	MimeType   string `json:"mime_type" example:"image/png"`
}

// OCRSuccessResponse is the 200 body of POST /api/medical-ocr.
type OCRSuccessResponse struct {
	Success bool                 `json:"success" example:"true"`
	Data    domain.MedicalRecord `json:"data"`
	Meta    ProcessingMetaBody   `json:"meta"`
}

// ProcessingMetaBody mirrors domain.ProcessingMeta.
type ProcessingMetaBody struct {
	Model       string    `json:"model" example:"gemini-2.0-flash"`
	InputMethod string    `json:"input_method" example:"image" enums:"image,pdf,docx_as_text,plain_text"`
	ProcessedAt time.Time `json:"processed_at"`
	Markdown    string    `json:"markdown,omitempty"`
}

// ErrorResponseBody is the body of every failed request.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

// RenderResponse is the data payload of POST /api/medical-ocr/render for text formats.
type RenderResponse struct {
	Format  string `json:"format" example:"markdown"`
	Content string `json:"content"`
}
