package service_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medocr/internal/domain"
	"medocr/internal/normalizer"
	"medocr/internal/port"
	"medocr/internal/service"
	"medocr/mocks"
)

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func newTestOCRService(ext port.Extractor) service.OCRService {
	return service.NewOCRServiceWithClock(normalizer.New(nil), ext, nil, func() time.Time { return fixedNow })
}

func TestOCRService_Process_PlainText(t *testing.T) {
	ext := new(mocks.MockExtractor)
	svc := newTestOCRService(ext)

	result := json.RawMessage(`{"document_type":"clinical_note","confidence":"high"}`)
	opts := port.RequestOptions{APIKey: "user-key", Model: "gemini-1.5-pro", RequestID: "req-1"}

	ext.On("Extract", mock.Anything, mock.MatchedBy(func(p domain.NormalizedPayload) bool {
		decoded, err := base64.StdEncoding.DecodeString(p.Base64Content)
		return err == nil &&
			string(decoded) == "BP: 120/80" &&
			p.EffectiveMimeType == domain.MimeText &&
			p.InputMethod == domain.InputMethodPlainText
	}), opts).Return(&port.ExtractOutput{
		Result:           result,
		ModelUsed:        "gemini-1.5-pro",
		CredentialSource: domain.CredentialFromRequest,
	}, nil)

	out, err := svc.Process(context.Background(), service.OCRRequest{
		Source: normalizer.Source{
			FileBase64: base64.StdEncoding.EncodeToString([]byte("BP: 120/80")),
			MimeType:   "text/plain",
		},
		Options: opts,
	})

	require.NoError(t, err)
	assert.JSONEq(t, string(result), string(out.Data))
	assert.Equal(t, "gemini-1.5-pro", out.Meta.Model)
	assert.Equal(t, domain.InputMethodPlainText, out.Meta.InputMethod)
	assert.Equal(t, fixedNow, out.Meta.ProcessedAt)
	ext.AssertExpectations(t)
}

func TestOCRService_Process_MultipartFile(t *testing.T) {
	ext := new(mocks.MockExtractor)
	svc := newTestOCRService(ext)

	ext.On("Extract", mock.Anything, mock.MatchedBy(func(p domain.NormalizedPayload) bool {
		return p.EffectiveMimeType == domain.MimePDF && p.InputMethod == domain.InputMethodPDF
	}), mock.Anything).Return(&port.ExtractOutput{
		Result:    json.RawMessage(`{}`),
		ModelUsed: "gemini-2.0-flash",
	}, nil)

	out, err := svc.Process(context.Background(), service.OCRRequest{
		Source: normalizer.Source{
			HasFile:      true,
			FileBytes:    []byte("%PDF-1.4 test"),
			FileMimeType: domain.MimePDF,
			FileName:     "report.pdf",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.InputMethodPDF, out.Meta.InputMethod)
	ext.AssertExpectations(t)
}

func TestOCRService_Process_MissingInput(t *testing.T) {
	ext := new(mocks.MockExtractor)
	svc := newTestOCRService(ext)

	_, err := svc.Process(context.Background(), service.OCRRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingInput))
	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestOCRService_Process_UnsupportedTypeSkipsProvider(t *testing.T) {
	ext := new(mocks.MockExtractor)
	svc := newTestOCRService(ext)

	_, err := svc.Process(context.Background(), service.OCRRequest{
		Source: normalizer.Source{
			FileBase64: base64.StdEncoding.EncodeToString([]byte("PK\x03\x04")),
			MimeType:   "application/zip",
		},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedMediaType))
	ext.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestOCRService_Process_ProviderErrorPassesThrough(t *testing.T) {
	ext := new(mocks.MockExtractor)
	svc := newTestOCRService(ext)

	providerErr := domain.NewProviderError(domain.KindQuotaExceeded, 429, "Gemini API Quota Exceeded: slow down")
	ext.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(nil, providerErr)

	_, err := svc.Process(context.Background(), service.OCRRequest{
		Source: normalizer.Source{
			FileBase64: base64.StdEncoding.EncodeToString([]byte("BP: 120/80")),
			MimeType:   "text/plain",
		},
	})

	require.Error(t, err)
	assert.Same(t, providerErr, err)
	ext.AssertNumberOfCalls(t, "Extract", 1)
}
