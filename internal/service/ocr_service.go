package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"medocr/internal/domain"
	"medocr/internal/normalizer"
	"medocr/internal/port"
)

// OCRRequest is everything the orchestrator needs from one inbound call.
type OCRRequest struct {
	Source  normalizer.Source
	Options port.RequestOptions
}

// OCRResult is the successful outcome of one request.
type OCRResult struct {
	Data json.RawMessage
	Meta domain.ProcessingMeta
}

// OCRService defines the medical OCR contract.
type OCRService interface {
	Process(ctx context.Context, req OCRRequest) (*OCRResult, error)
}

type ocrService struct {
	normalizer *normalizer.Normalizer
	extractor  port.Extractor
	logger     *slog.Logger
	now        func() time.Time
}

// NewOCRService creates a new OCRService implementation.
func NewOCRService(n *normalizer.Normalizer, extractor port.Extractor, logger *slog.Logger) OCRService {
	return NewOCRServiceWithClock(n, extractor, logger, time.Now)
}

// NewOCRServiceWithClock creates an OCRService with a fixed clock (for testing).
func NewOCRServiceWithClock(
	n *normalizer.Normalizer,
	extractor port.Extractor,
	logger *slog.Logger,
	now func() time.Time,
) OCRService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ocrService{
		normalizer: n,
		extractor:  extractor,
		logger:     logger,
		now:        now,
	}
}

// Process runs normalize -> extract sequentially. Failures are returned as-is
// for the HTTP layer's central error handler.
func (s *ocrService) Process(ctx context.Context, req OCRRequest) (*OCRResult, error) {
	log := s.logger.With("request_id", req.Options.RequestID)
	log.Info("ocrService.Process: medical OCR request received")

	doc, err := s.normalizer.Resolve(req.Source)
	if err != nil {
		return nil, err
	}

	payload, err := s.normalizer.Normalize(doc)
	if err != nil {
		return nil, err
	}
	log.Info("ocrService.Process: file resolved",
		"source", doc.SourceKind,
		"mime_type", payload.EffectiveMimeType,
		"input_method", payload.InputMethod,
		"base64_length", len(payload.Base64Content),
	)

	out, err := s.extractor.Extract(ctx, *payload, req.Options)
	if err != nil {
		return nil, err
	}

	return &OCRResult{
		Data: out.Result,
		Meta: domain.ProcessingMeta{
			Model:       out.ModelUsed,
			InputMethod: payload.InputMethod,
			ProcessedAt: s.now().UTC(),
		},
	}, nil
}
