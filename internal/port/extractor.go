package port

import (
	"context"
	"encoding/json"

	"medocr/internal/domain"
)

// RequestOptions carries caller overrides for a single extraction. Empty fields
// fall back to the server configuration.
type RequestOptions struct {
	APIKey    string
	Model     string
	RequestID string
}

// ExtractOutput is the provider result plus what was actually used to get it.
type ExtractOutput struct {
	Result           json.RawMessage
	ModelUsed        string
	CredentialSource domain.CredentialSource
}

// Extractor abstracts the AI provider's structured extraction call.
type Extractor interface {
	Extract(ctx context.Context, payload domain.NormalizedPayload, opts RequestOptions) (*ExtractOutput, error)
}
