// Package docs registers the OpenAPI document served at /swagger/index.html.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/medical-ocr": {
            "post": {
                "description": "Accepts a multipart \"file\" upload or a JSON body with file_base64 + mime_type\n(JPEG, PNG, WebP, HEIC, HEIF, PDF, DOCX, plain text; max 20MB).",
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["medical-ocr"],
                "summary": "Extract structured data from a medical document",
                "parameters": [
                    {"type": "file", "description": "Document to process", "name": "file", "in": "formData"},
                    {"description": "Base64 document", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handler.Base64UploadRequest"}},
                    {"type": "string", "description": "Overrides the server Gemini API key", "name": "x-gemini-api-key", "in": "header"},
                    {"type": "string", "description": "Overrides the server Gemini model", "name": "x-gemini-model", "in": "header"},
                    {"type": "string", "description": "Set to markdown to add meta.markdown", "name": "render", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.OCRSuccessResponse"}},
                    "400": {"description": "Missing or unsupported input", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "401": {"description": "Gemini authentication failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Gemini model not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "429": {"description": "Gemini quota exceeded", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "OCR processing failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/api/medical-ocr/render": {
            "post": {
                "description": "Renders a previously returned extraction result as markdown, HTML, an XLSX workbook, or CSV.",
                "consumes": ["application/json"],
                "produces": ["application/json", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "tags": ["medical-ocr"],
                "summary": "Render an extraction result",
                "parameters": [
                    {"type": "string", "description": "markdown (default), html, xlsx, or csv", "name": "format", "in": "query"},
                    {"description": "Extraction result (the data field of a /api/medical-ocr response)", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RenderResponse"}},
                    "400": {"description": "Invalid extraction result or format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.Base64UploadRequest": {
            "type": "object",
            "properties": {
                "file_base64": {"type": "string", "example": "data:image/png;base64,iVBORw0KGgo..."},
                "mime_type": {"type": "string", "example": "image/png"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "timestamp": {"type": "string"}
            }
        },
        "handler.OCRSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.MedicalRecord"},
                "meta": {"$ref": "#/definitions/handler.ProcessingMetaBody"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.ProcessingMetaBody": {
            "type": "object",
            "properties": {
                "input_method": {"type": "string", "enum": ["image", "pdf", "docx_as_text", "plain_text"], "example": "image"},
                "markdown": {"type": "string"},
                "model": {"type": "string", "example": "gemini-2.0-flash"},
                "processed_at": {"type": "string"}
            }
        },
        "handler.RenderResponse": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "format": {"type": "string", "example": "markdown"}
            }
        },
        "domain.MedicalRecord": {
            "type": "object",
            "properties": {
                "document_type": {"type": "string", "enum": ["prescription", "lab_report", "radiology_report", "discharge_summary", "clinical_note", "unknown"]},
                "patient_info": {"$ref": "#/definitions/domain.PatientInfo"},
                "doctor_info": {"$ref": "#/definitions/domain.DoctorInfo"},
                "date": {"type": "string"},
                "diagnosis": {"type": "string"},
                "medications": {"type": "array", "items": {"$ref": "#/definitions/domain.Medication"}},
                "lab_results": {"type": "array", "items": {"$ref": "#/definitions/domain.LabResult"}},
                "findings": {"type": "array", "items": {"type": "string"}},
                "notes": {"type": "string"},
                "confidence": {"type": "string", "enum": ["high", "medium", "low"]}
            }
        },
        "domain.PatientInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "age": {"type": "string"},
                "gender": {"type": "string"},
                "patient_id": {"type": "string"},
                "contact": {"type": "string"}
            }
        },
        "domain.DoctorInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "specialization": {"type": "string"},
                "license_number": {"type": "string"},
                "hospital": {"type": "string"}
            }
        },
        "domain.Medication": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "dosage": {"type": "string"},
                "frequency": {"type": "string"},
                "duration": {"type": "string"},
                "route": {"type": "string"},
                "instructions": {"type": "string"}
            }
        },
        "domain.LabResult": {
            "type": "object",
            "properties": {
                "test_name": {"type": "string"},
                "value": {"type": "string"},
                "unit": {"type": "string"},
                "reference_range": {"type": "string"},
                "status": {"type": "string", "enum": ["normal", "high", "low", "critical"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Medical OCR API",
	Description:      "Extracts structured data from medical documents using Gemini.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
