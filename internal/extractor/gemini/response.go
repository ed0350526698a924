package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"medocr/internal/domain"
	"medocr/internal/extractor"
)

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// geminiErrorBody models the error envelope Google APIs return on non-2xx.
type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func parseResponse(body []byte) (json.RawMessage, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewError(domain.KindMalformedProviderResponse,
			"Failed to process medical document: Gemini API returned invalid JSON", err)
	}

	if len(resp.Candidates) == 0 {
		msg := "Failed to process medical document: empty response from Gemini API (no candidates)"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = fmt.Sprintf("Failed to process medical document: Gemini API blocked the request (%s)",
				resp.PromptFeedback.BlockReason)
		}
		return nil, domain.Errorf(domain.KindMalformedProviderResponse, "%s", msg)
	}

	cand := resp.Candidates[0]
	if len(cand.Content.Parts) == 0 {
		return nil, domain.Errorf(domain.KindMalformedProviderResponse,
			"Failed to process medical document: empty response from Gemini API (no parts, finish reason %q)",
			cand.FinishReason)
	}

	result, err := extractor.ParseResultText(cand.Content.Parts[0].Text)
	if err != nil {
		return nil, domain.NewError(domain.KindMalformedProviderResponse,
			"Failed to process medical document: Gemini API output is not valid JSON", err)
	}
	return result, nil
}

// mapStatusError classifies a non-2xx Gemini response.
func mapStatusError(status int, body []byte) *domain.Error {
	message := providerMessage(status, body)

	switch status {
	case http.StatusTooManyRequests:
		return domain.NewProviderError(domain.KindQuotaExceeded, status,
			"Gemini API Quota Exceeded: "+message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewProviderError(domain.KindAuthenticationFailed, status,
			fmt.Sprintf("Gemini API Auth Error: %s (Check your API Key)", message))
	case http.StatusNotFound:
		return domain.NewProviderError(domain.KindModelNotFound, status,
			fmt.Sprintf("Gemini API Model Error: %s (Selected model might not exist for your region/key)", message))
	default:
		return domain.NewProviderError(domain.KindProviderError, status,
			fmt.Sprintf("Gemini API Error (%d): %s", status, message))
	}
}

func providerMessage(status int, body []byte) string {
	var eb geminiErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return extractor.Truncate(text, 300)
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Unknown Gemini API Error"
}
