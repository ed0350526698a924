package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"medocr/internal/config"
	"medocr/internal/domain"
	"medocr/internal/extractor"
	"medocr/internal/port"
)

const defaultMaxOutputTokens = 4096

// modelNamePattern matches a bare Gemini model ID, optionally prefixed with "models/".
var modelNamePattern = regexp.MustCompile(`^(models/)?[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Client implements port.Extractor using Google's Gemini generateContent API.
type Client struct {
	cfg       config.GeminiConfig
	client    *http.Client
	validator *extractor.SchemaValidator
	logger    *slog.Logger
}

// NewClient creates a Gemini extraction client. The configuration is copied, so
// later changes to cfg do not affect the client.
func NewClient(cfg *config.GeminiConfig, logger *slog.Logger) (*Client, error) {
	return NewClientWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout()}, logger)
}

// NewClientWithHTTPClient creates a client using a caller-supplied HTTP client (for testing).
func NewClientWithHTTPClient(cfg *config.GeminiConfig, hc *http.Client, logger *slog.Logger) (*Client, error) {
	validator, err := extractor.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("building schema validator: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := *cfg
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = defaultMaxOutputTokens
	}
	return &Client{
		cfg:       c,
		client:    hc,
		validator: validator,
		logger:    logger,
	}, nil
}

// Extract sends the payload to Gemini and returns the parsed JSON result.
func (c *Client) Extract(ctx context.Context, payload domain.NormalizedPayload, opts port.RequestOptions) (*port.ExtractOutput, error) {
	apiKey, source := c.resolveCredentials(opts.APIKey)
	endpoint, model, err := c.resolveEndpoint(opts.Model)
	if err != nil {
		return nil, err
	}

	log := c.logger.With("request_id", opts.RequestID)
	log.Info("gemini.Extract: processing document",
		"credential_source", source,
		"model", model,
		"api_url", endpoint,
		"mime_type", payload.EffectiveMimeType,
		"base64_length", len(payload.Base64Content),
	)

	if apiKey == "" {
		return nil, domain.NewProviderError(domain.KindAuthenticationFailed, http.StatusUnauthorized,
			"Gemini API Auth Error: no API key configured (Check your API Key)")
	}

	bodyBytes, err := json.Marshal(c.buildRequest(payload))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, domain.NewError(domain.KindProviderError, "Failed to process medical document: invalid Gemini API URL", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("gemini.Extract: request failed", "error", err)
		return nil, domain.NewError(domain.KindProviderUnreachable,
			"Failed to process medical document: "+unreachableReason(err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindProviderUnreachable,
			"Failed to process medical document: error reading Gemini response", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("gemini.Extract: API error",
			"status", resp.StatusCode,
			"body", extractor.Truncate(string(respBody), 2000))
		return nil, mapStatusError(resp.StatusCode, respBody)
	}

	result, err := parseResponse(respBody)
	if err != nil {
		log.Error("gemini.Extract: malformed response", "error", err)
		return nil, err
	}

	if err := c.validator.Validate(result); err != nil {
		if c.cfg.StrictSchema {
			return nil, domain.NewError(domain.KindMalformedProviderResponse,
				"Gemini API returned data that does not match the extraction schema", err)
		}
		log.Warn("gemini.Extract: result does not match schema", "error", err)
	}

	return &port.ExtractOutput{
		Result:           result,
		ModelUsed:        model,
		CredentialSource: source,
	}, nil
}

// resolveCredentials prefers the caller's key over the server default.
func (c *Client) resolveCredentials(requestKey string) (string, domain.CredentialSource) {
	if k := strings.TrimSpace(requestKey); k != "" {
		return k, domain.CredentialFromRequest
	}
	return c.cfg.APIKey, domain.CredentialFromServer
}

// resolveEndpoint returns the URL to call and the model it targets. A model
// override is ignored when blank or the literal "undefined" some browser
// clients send for an unset select, and rejected when it is not a plain model ID.
func (c *Client) resolveEndpoint(requestModel string) (endpoint, model string, err error) {
	m := strings.TrimSpace(requestModel)
	if m != "" && m != "undefined" {
		if !modelNamePattern.MatchString(m) {
			return "", "", domain.Errorf(domain.KindInvalidInput,
				"Invalid Gemini model name: %q", extractor.Truncate(m, 100))
		}
		m = strings.TrimPrefix(m, "models/")
		return c.cfg.ModelEndpoint(m), m, nil
	}
	endpoint = c.cfg.DefaultEndpoint()
	if c.cfg.APIURL != "" {
		if fromURL := modelFromURL(c.cfg.APIURL); fromURL != "" {
			return endpoint, fromURL, nil
		}
	}
	return endpoint, c.cfg.Model(), nil
}

func (c *Client) buildRequest(payload domain.NormalizedPayload) map[string]interface{} {
	return map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": payload.EffectiveMimeType,
							"data":      payload.Base64Content,
						},
					},
					{
						"text": extractor.MedicalExtractionPrompt,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   extractor.BuildResponseSchema(),
			"temperature":      c.cfg.Temperature,
			"maxOutputTokens":  c.cfg.MaxOutputTokens,
		},
	}
}

// modelFromURL pulls "<model>" out of ".../models/<model>:generateContent".
func modelFromURL(u string) string {
	i := strings.LastIndex(u, "/models/")
	if i < 0 {
		return ""
	}
	rest := u[i+len("/models/"):]
	if j := strings.IndexAny(rest, ":?/"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

func unreachableReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return "Gemini API request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return "Gemini API unreachable"
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
