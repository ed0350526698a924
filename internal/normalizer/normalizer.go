// Package normalizer turns uploaded documents into provider-ready payloads.
package normalizer

import (
	"encoding/base64"
	"log/slog"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"medocr/internal/domain"
)

// mimeAliases maps non-canonical types some clients send to the canonical type.
var mimeAliases = map[string]string{
	"image/jpg":   domain.MimeJPEG,
	"image/pjpeg": domain.MimeJPEG,
}

// Source is the request-level view of where a document may come from. A
// multipart file takes precedence over the base64 fields.
type Source struct {
	HasFile      bool
	FileBytes    []byte
	FileMimeType string
	FileName     string

	FileBase64 string
	MimeType   string
}

// Normalizer converts uploaded documents into NormalizedPayloads.
type Normalizer struct {
	logger *slog.Logger
}

// New creates a Normalizer.
func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Resolve picks the document out of src. It fails with KindMissingInput when
// neither a file part nor a base64 + MIME pair is present.
func (n *Normalizer) Resolve(src Source) (*domain.UploadedDocument, error) {
	if src.HasFile {
		if len(src.FileBytes) == 0 {
			return nil, domain.Errorf(domain.KindMissingInput, "Uploaded file is empty.")
		}
		if src.FileBase64 != "" {
			n.logger.Warn("normalizer.Resolve: both multipart file and file_base64 present; using multipart file")
		}
		return &domain.UploadedDocument{
			RawBytes:         src.FileBytes,
			DeclaredMimeType: src.FileMimeType,
			FileName:         src.FileName,
			SourceKind:       domain.SourceMultipart,
		}, nil
	}

	if src.FileBase64 == "" || src.MimeType == "" {
		return nil, domain.Errorf(domain.KindMissingInput, "No file provided in request.")
	}

	raw, err := DecodeBase64(src.FileBase64)
	if err != nil {
		return nil, domain.NewError(domain.KindMissingInput, "file_base64 is not valid base64.", err)
	}
	if len(raw) == 0 {
		return nil, domain.Errorf(domain.KindMissingInput, "file_base64 decodes to an empty file.")
	}

	return &domain.UploadedDocument{
		RawBytes:         raw,
		DeclaredMimeType: src.MimeType,
		SourceKind:       domain.SourceBase64JSON,
	}, nil
}

// Normalize validates the document's MIME type and produces the payload sent to
// the provider. DOCX documents are converted to plain text.
func (n *Normalizer) Normalize(doc *domain.UploadedDocument) (*domain.NormalizedPayload, error) {
	mimeType := EffectiveMimeType(doc.DeclaredMimeType, doc.RawBytes)

	method, ok := domain.AllowedContentTypes[mimeType]
	if !ok {
		return nil, domain.Errorf(domain.KindUnsupportedMediaType, "Unsupported MIME type: %s", displayMime(doc.DeclaredMimeType, mimeType))
	}

	if method != domain.InputMethodDocxAsText {
		return &domain.NormalizedPayload{
			Base64Content:     base64.StdEncoding.EncodeToString(doc.RawBytes),
			EffectiveMimeType: mimeType,
			InputMethod:       method,
		}, nil
	}

	text, err := ExtractDocxText(doc.RawBytes)
	if err != nil {
		return nil, domain.NewError(domain.KindDocumentConversionFailed, "Failed to extract text from DOCX document.", err)
	}
	n.logger.Debug("normalizer.Normalize: converted DOCX to text",
		"docx_bytes", len(doc.RawBytes), "text_bytes", len(text))

	return &domain.NormalizedPayload{
		Base64Content:     base64.StdEncoding.EncodeToString([]byte(text)),
		EffectiveMimeType: domain.MimeText,
		InputMethod:       domain.InputMethodDocxAsText,
	}, nil
}

// EffectiveMimeType canonicalizes the declared type. When the caller declared
// nothing useful the type is sniffed from content.
func EffectiveMimeType(declared string, content []byte) string {
	mt := CanonicalMimeType(declared)
	if mt == "" || mt == "application/octet-stream" {
		mt = CanonicalMimeType(mimetype.Detect(content).String())
	}
	return mt
}

// CanonicalMimeType lower-cases a MIME type and drops its parameters.
func CanonicalMimeType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		s = mt
	} else if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if alias, ok := mimeAliases[s]; ok {
		return alias
	}
	return s
}

// DecodeBase64 decodes a base64 string, stripping a data URI prefix
// ("data:<mime>;base64,") if present. Whitespace is ignored and both standard
// and URL-safe alphabets are accepted, padded or not.
func DecodeBase64(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func displayMime(declared, effective string) string {
	if effective != "" {
		return effective
	}
	if declared != "" {
		return declared
	}
	return "unknown"
}
