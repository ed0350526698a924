package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"medocr/internal/csvexport"
	"medocr/internal/domain"
	"medocr/internal/middleware"
	"medocr/internal/normalizer"
	"medocr/internal/port"
	"medocr/internal/render"
	"medocr/internal/service"
)

// Caller override headers.
const (
	HeaderGeminiAPIKey = "x-gemini-api-key"
	HeaderGeminiModel  = "x-gemini-model"
)

// OCRHandler handles the medical OCR endpoints.
type OCRHandler struct {
	ocrService   service.OCRService
	logger       *slog.Logger
	maxFileBytes int64
}

// NewOCRHandler creates a new OCRHandler. maxFileBytes bounds a single document.
func NewOCRHandler(ocrService service.OCRService, logger *slog.Logger, maxFileBytes int64) *OCRHandler {
	return &OCRHandler{ocrService: ocrService, logger: logger, maxFileBytes: maxFileBytes}
}

// base64Request is the JSON body shape for base64 uploads.
type base64Request struct {
	FileBase64 string `json:"file_base64"`
	MimeType   string `json:"mime_type"`
}

// Process handles POST /api/medical-ocr
// @Summary Extract structured data from a medical document
// @Description Accepts a multipart "file" upload or a JSON body with file_base64 + mime_type
// @Description (JPEG, PNG, WebP, HEIC, HEIF, PDF, DOCX, plain text; max 20MB).
// @Tags medical-ocr
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "Document to process"
// @Param body body Base64UploadRequest false "Base64 document"
// @Param x-gemini-api-key header string false "Overrides the server Gemini API key"
// @Param x-gemini-model header string false "Overrides the server Gemini model"
// @Param render query string false "Set to markdown to add meta.markdown"
// @Success 200 {object} OCRSuccessResponse
// @Failure 400 {object} ErrorResponseBody "Missing or unsupported input"
// @Failure 401 {object} ErrorResponseBody "Gemini authentication failed"
// @Failure 404 {object} ErrorResponseBody "Gemini model not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 429 {object} ErrorResponseBody "Gemini quota exceeded"
// @Failure 500 {object} ErrorResponseBody "OCR processing failed"
// @Router /api/medical-ocr [post]
func (h *OCRHandler) Process(c *gin.Context) {
	src, err := h.readSource(c)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	result, err := h.ocrService.Process(c.Request.Context(), service.OCRRequest{
		Source: *src,
		Options: port.RequestOptions{
			APIKey:    c.GetHeader(HeaderGeminiAPIKey),
			Model:     c.GetHeader(HeaderGeminiModel),
			RequestID: middleware.GetRequestID(c),
		},
	})
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	meta := result.Meta
	if strings.EqualFold(c.Query("render"), "markdown") {
		if rec, perr := domain.ParseMedicalRecord(result.Data); perr == nil {
			meta.Markdown = render.Markdown(rec)
		} else {
			h.logger.Warn("ocrHandler.Process: result not renderable",
				"request_id", middleware.GetRequestID(c), "error", perr)
		}
	}

	RespondOKWithMeta(c, result.Data, meta)
}

// Render handles POST /api/medical-ocr/render
// @Summary Render an extraction result
// @Description Renders a previously returned extraction result as markdown, HTML, an XLSX workbook, or CSV.
// @Tags medical-ocr
// @Accept json
// @Produce json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format query string false "markdown (default), html, xlsx, or csv"
// @Param body body object true "Extraction result (the data field of a /api/medical-ocr response)"
// @Success 200 {object} RenderResponse
// @Failure 400 {object} ErrorResponseBody "Invalid extraction result or format"
// @Router /api/medical-ocr/render [post]
func (h *OCRHandler) Render(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		HandleError(c, h.logger, bodyReadError(err))
		return
	}
	rec, err := parseRenderBody(body)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "markdown"))
	switch format {
	case "markdown", "md":
		RespondOK(c, RenderResponse{Format: "markdown", Content: render.Markdown(rec)})
	case "html":
		html, err := render.HTML(render.Markdown(rec))
		if err != nil {
			HandleError(c, h.logger, err)
			return
		}
		RespondOK(c, RenderResponse{Format: "html", Content: html})
	case "xlsx":
		buf, err := render.Workbook(rec)
		if err != nil {
			HandleError(c, h.logger, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.WorkbookFilename(rec, time.Now())))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case "csv":
		var buf bytes.Buffer
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, h.logger, err)
			return
		}
		if err := w.WriteRecord(rec); err != nil {
			HandleError(c, h.logger, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, h.logger, err)
			return
		}
		filename := csvexport.BuildFilename(string(rec.DocumentType), time.Now())
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		HandleError(c, h.logger, domain.Errorf(domain.KindUnsupportedMediaType,
			"Unsupported render format: %s (allowed: markdown, html, xlsx, csv)", format))
	}
}

// readSource extracts the document from a multipart, JSON, or urlencoded body
// and enforces the per-file size limit.
func (h *OCRHandler) readSource(c *gin.Context) (*normalizer.Source, error) {
	src := &normalizer.Source{}

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		fh, err := c.FormFile("file")
		switch {
		case err == nil:
			if err := h.readFilePart(fh, src); err != nil {
				return nil, err
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			return nil, bodyReadError(err)
		}
		src.FileBase64 = c.PostForm("file_base64")
		src.MimeType = c.PostForm("mime_type")

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, bodyReadError(err)
		}
		src.FileBase64 = c.PostForm("file_base64")
		src.MimeType = c.PostForm("mime_type")

	default:
		var req base64Request
		if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil, bodyReadError(err)
		}
		src.FileBase64 = req.FileBase64
		src.MimeType = req.MimeType
	}

	if !src.HasFile && h.exceedsLimit(approxDecodedLen(src.FileBase64)) {
		return nil, h.tooLarge()
	}
	return src, nil
}

func (h *OCRHandler) readFilePart(fh *multipart.FileHeader, src *normalizer.Source) error {
	if h.exceedsLimit(fh.Size) {
		return h.tooLarge()
	}
	f, err := fh.Open()
	if err != nil {
		return domain.NewError(domain.KindMissingInput, "Could not read uploaded file.", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.NewError(domain.KindMissingInput, "Could not read uploaded file.", err)
	}
	src.HasFile = true
	src.FileBytes = data
	src.FileMimeType = fh.Header.Get("Content-Type")
	src.FileName = fh.Filename
	return nil
}

func (h *OCRHandler) exceedsLimit(n int64) bool {
	return h.maxFileBytes > 0 && n > h.maxFileBytes
}

func (h *OCRHandler) tooLarge() error {
	return domain.Errorf(domain.KindPayloadTooLarge,
		"File exceeds the %d MB limit.", h.maxFileBytes/(1024*1024))
}

// approxDecodedLen estimates the decoded size of a base64 string, ignoring any data URI prefix.
func approxDecodedLen(s string) int64 {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	return int64(len(s)) * 3 / 4
}

// bodyReadError classifies a failure to read or decode the request body.
func bodyReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return domain.NewError(domain.KindPayloadTooLarge,
			fmt.Sprintf("Request body exceeds the %d MB limit.", maxErr.Limit/(1024*1024)), err)
	}
	return domain.NewError(domain.KindMissingInput, "Malformed request body.", err)
}

func parseRenderBody(body []byte) (*domain.MedicalRecord, error) {
	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.NewError(domain.KindMissingInput, "Request body is not a JSON object.", err)
	}
	raw := json.RawMessage(body)
	if envelope.Success != nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	rec, err := domain.ParseMedicalRecord(raw)
	if err != nil {
		return nil, domain.NewError(domain.KindMissingInput, "Request body is not an extraction result.", err)
	}
	return rec, nil
}
